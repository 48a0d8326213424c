package strength

import "strings"

// CharClass is one of the character classes the entropy estimate is built from.
type CharClass uint8

const (
	Lowercase CharClass = 1 << iota
	Uppercase
	Digit
	Symbol
	Other
)

var charClassNames = []struct {
	class CharClass
	name  string
}{
	{Lowercase, "lowercase"},
	{Uppercase, "uppercase"},
	{Digit, "digit"},
	{Symbol, "symbol"},
	{Other, "other"},
}

// CharacterSpace is the set of classes present in a password.
type CharacterSpace uint8

func (c CharacterSpace) Has(class CharClass) bool {
	return uint8(c)&uint8(class) != 0
}

// AlphabetSize is the sum of the fixed sizes of the present classes.
func (c CharacterSpace) AlphabetSize(p Policy) int {
	size := 0
	if c.Has(Lowercase) {
		size += 26
	}
	if c.Has(Uppercase) {
		size += 26
	}
	if c.Has(Digit) {
		size += 10
	}
	if c.Has(Symbol) {
		size += p.SymbolAlphabetSize
	}
	if c.Has(Other) {
		size += p.OtherAlphabetSize
	}
	return size
}

func (c CharacterSpace) String() string {
	var names []string
	for _, n := range charClassNames {
		if c.Has(n.class) {
			names = append(names, n.name)
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

func classOf(r rune) CharClass {
	switch {
	case r >= 'a' && r <= 'z':
		return Lowercase
	case r >= 'A' && r <= 'Z':
		return Uppercase
	case r >= '0' && r <= '9':
		return Digit
	case r >= ' ' && r <= '~':
		// Printable ASCII that is not alphanumeric: punctuation and space.
		return Symbol
	default:
		// Non ASCII, control characters and utf8.RuneError for undecodable bytes.
		return Other
	}
}

// ClassifyCharacterSpace scans s once and reports the classes present in it.
func ClassifyCharacterSpace(s string) CharacterSpace {
	var space CharacterSpace
	for _, r := range s {
		space |= CharacterSpace(classOf(r))
	}
	return space
}
