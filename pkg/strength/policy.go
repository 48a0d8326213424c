// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"errors"
	"fmt"
)

const MaxScore = 5

// Policy holds every tunable of the rule engine and the classifier. It is built once at
// startup and passed by value, so there is no process-wide policy to mutate.
type Policy struct {
	// Minimum number of runes for the length check.
	MinLength int
	// Alphabet sizes used for classes that have no natural size.
	SymbolAlphabetSize int
	OtherAlphabetSize  int

	// Entropy below LowEntropyBits caps the score at LowEntropyCap.
	LowEntropyBits float64
	LowEntropyCap  int
	// Entropy at or above HighEntropyBits adds one step when at least
	// HighEntropyMinChecks checks pass.
	HighEntropyBits      float64
	HighEntropyMinChecks int
	// A failed common_pattern check caps the score at CommonPatternCap.
	CommonPatternCap int

	// Case-insensitive substrings that mark a password as a weak pattern.
	CommonPatterns []string

	// Levels maps a score (index) to its level.
	Levels [MaxScore + 1]Level
}

// DefaultLevels is the score to level table used when none is configured.
var DefaultLevels = [MaxScore + 1]Level{VeryWeak, Weak, Moderate, Moderate, Strong, VeryStrong}

func DefaultPolicy() Policy {
	return Policy{
		MinLength:            8,
		SymbolAlphabetSize:   32,
		OtherAlphabetSize:    100,
		LowEntropyBits:       28,
		LowEntropyCap:        1,
		HighEntropyBits:      60,
		HighEntropyMinChecks: 3,
		CommonPatternCap:     1,
		CommonPatterns:       []string{"123", "password", "qwerty", "abc", "111"},
		Levels:               DefaultLevels,
	}
}

var ErrInvalidPolicy = errors.New("invalid strength policy")

// Validate makes sure the classifier stays total and monotonic under this policy.
func (p Policy) Validate() error {
	switch {
	case p.MinLength < 1:
		return fmt.Errorf("%w: minimum length must be positive", ErrInvalidPolicy)
	case p.SymbolAlphabetSize < 2 || p.OtherAlphabetSize < 2:
		return fmt.Errorf("%w: alphabet sizes must be at least 2", ErrInvalidPolicy)
	case p.LowEntropyBits < 0 || p.HighEntropyBits <= p.LowEntropyBits:
		return fmt.Errorf("%w: entropy thresholds must satisfy 0 <= low < high", ErrInvalidPolicy)
	case p.LowEntropyCap < 0 || p.LowEntropyCap > MaxScore:
		return fmt.Errorf("%w: low entropy cap out of range", ErrInvalidPolicy)
	case p.CommonPatternCap < 0 || p.CommonPatternCap > MaxScore:
		return fmt.Errorf("%w: common pattern cap out of range", ErrInvalidPolicy)
	case p.HighEntropyMinChecks < 0:
		return fmt.Errorf("%w: high entropy minimum checks must not be negative", ErrInvalidPolicy)
	}

	for score, level := range p.Levels {
		if !level.valid() {
			return fmt.Errorf("%w: score %d has no level", ErrInvalidPolicy, score)
		}
		if score > 0 && level < p.Levels[score-1] {
			return fmt.Errorf("%w: level table must not decrease (score %d)", ErrInvalidPolicy, score)
		}
	}

	for _, pattern := range p.CommonPatterns {
		if pattern == "" {
			return fmt.Errorf("%w: empty common pattern", ErrInvalidPolicy)
		}
	}

	return nil
}
