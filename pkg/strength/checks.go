package strength

import "unicode/utf8"

// Check names one of the fixed boolean predicates run against a password.
type Check string

const (
	CheckLength        Check = "length"
	CheckUppercase     Check = "uppercase"
	CheckLowercase     Check = "lowercase"
	CheckDigit         Check = "digit"
	CheckSymbol        Check = "symbol"
	CheckCommonPattern Check = "common_pattern"
)

// Checks lists every check in display order.
var Checks = []Check{CheckLength, CheckUppercase, CheckLowercase, CheckDigit, CheckSymbol, CheckCommonPattern}

// CheckSet maps each check to whether it passed. true always means "passed", so
// common_pattern is true when no weak pattern was found.
type CheckSet map[Check]bool

func (c CheckSet) Passed() int {
	passed := 0
	for _, check := range Checks {
		if c[check] {
			passed++
		}
	}
	return passed
}

// RunChecks evaluates every check against s. Each predicate is independent of the others.
func RunChecks(s string, p Policy) CheckSet {
	space := ClassifyCharacterSpace(s)

	return CheckSet{
		CheckLength:    utf8.RuneCountInString(s) >= p.MinLength,
		CheckUppercase: space.Has(Uppercase),
		CheckLowercase: space.Has(Lowercase),
		CheckDigit:     space.Has(Digit),
		// Anything that is not a letter or digit counts, not only ASCII punctuation.
		CheckSymbol:        space.Has(Symbol) || space.Has(Other),
		CheckCommonPattern: !hasWeakPattern(s, p),
	}
}
