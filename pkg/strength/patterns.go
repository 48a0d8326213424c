package strength

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/jfcg/sorty/v2"
)

const (
	// Identical runes in a row that make a weak pattern, e.g. "aaa".
	repeatRun = 3
	// Consecutive ascending or descending letters or digits that make a weak pattern, e.g. "abcd".
	sequenceRun = 4
)

//go:embed common_passwords.txt
var commonPasswordsRaw string

// commonPasswords is lowercased and sorted, looked up with a binary search.
var commonPasswords = loadCommonPasswords(commonPasswordsRaw)

func loadCommonPasswords(raw string) []string {
	lines := strings.Split(raw, "\n")
	list := make([]string, 0, len(lines))
	for _, line := range lines {
		pwd := strings.ToLower(strings.TrimSpace(line))
		if pwd == "" {
			continue
		}
		list = append(list, pwd)
	}

	sorty.SortSlice(list)
	return list
}

func isCommonPassword(lower string) bool {
	i := sort.SearchStrings(commonPasswords, lower)
	return i < len(commonPasswords) && commonPasswords[i] == lower
}

// hasWeakPattern reports whether s matches any of the weak pattern rules: a denylisted
// substring, an exact common password, repeated runes or an alphabetic/numeric sequence.
func hasWeakPattern(s string, p Policy) bool {
	lower := strings.ToLower(s)

	for _, pattern := range p.CommonPatterns {
		if strings.Contains(lower, strings.ToLower(pattern)) {
			return true
		}
	}

	if isCommonPassword(lower) {
		return true
	}

	return hasRepeatedRun(lower) || hasSequentialRun(lower)
}

func hasRepeatedRun(s string) bool {
	var prev rune
	run := 0
	for i, r := range s {
		if i > 0 && r == prev {
			run++
		} else {
			run = 1
		}
		if run >= repeatRun {
			return true
		}
		prev = r
	}
	return false
}

func hasSequentialRun(s string) bool {
	var prev rune
	up, down := 1, 1
	first := true
	for _, r := range s {
		if !first && sequenceable(prev) && sequenceable(r) && classOf(prev) == classOf(r) {
			switch r - prev {
			case 1:
				up++
				down = 1
			case -1:
				down++
				up = 1
			default:
				up, down = 1, 1
			}
		} else {
			up, down = 1, 1
		}

		if up >= sequenceRun || down >= sequenceRun {
			return true
		}
		prev = r
		first = false
	}
	return false
}

func sequenceable(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
