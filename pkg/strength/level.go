package strength

import (
	"encoding/json"
	"fmt"
)

// Level is the human readable strength label derived from a score.
type Level int

const (
	VeryWeak Level = iota
	Weak
	Moderate
	Strong
	VeryStrong
)

var levelNames = map[Level]string{
	VeryWeak:   "Very Weak",
	Weak:       "Weak",
	Moderate:   "Moderate",
	Strong:     "Strong",
	VeryStrong: "Very Strong",
}

func (l Level) valid() bool {
	_, ok := levelNames[l]
	return ok
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "Unknown"
}

func (l Level) MarshalJSON() ([]byte, error) {
	if !l.valid() {
		return nil, fmt.Errorf("unknown strength level %d", int(l))
	}
	return json.Marshal(l.String())
}

func (l *Level) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}

	parsed, err := ParseLevel(name)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel returns the level for its display name, e.g. "Very Strong".
func ParseLevel(name string) (Level, error) {
	for level, n := range levelNames {
		if n == name {
			return level, nil
		}
	}
	return VeryWeak, fmt.Errorf("unknown strength level %q", name)
}
