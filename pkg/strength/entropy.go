package strength

import (
	"math"
	"unicode/utf8"
)

// EstimateEntropy approximates the entropy of s in bits as
// runes(s) * log2(alphabet size of the classes present in s).
//
// This treats s as if it was drawn uniformly at random from the observed classes. It is a
// heuristic to compare passwords with each other, not a measure of how hard s is to guess.
// Undecodable bytes count as one rune each, in the "other" class.
func EstimateEntropy(s string, p Policy) float64 {
	length := utf8.RuneCountInString(s)
	if length == 0 {
		return 0
	}

	size := ClassifyCharacterSpace(s).AlphabetSize(p)
	if size < 2 {
		return 0
	}

	return round2(float64(length) * math.Log2(float64(size)))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
