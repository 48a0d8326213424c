// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package strength

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestEstimateEntropy(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		input string
		want  float64
	}{
		{"password", 37.6},
		{"Tr0ub4dor&3xyz!", 98.32},
		{"12345678", 26.58},
		{"aB3$", 26.22},
		{"пароль", 39.86},
		{"\xff\xfe", 13.29},
		{"", 0},
	}

	for _, tc := range cases {
		if got := EstimateEntropy(tc.input, p); got != tc.want {
			t.Errorf("EstimateEntropy(%q): %.2f, want: %.2f", tc.input, got, tc.want)
		}
	}
}

func TestEstimateEntropy_IncreasesWithLength(t *testing.T) {
	p := DefaultPolicy()
	for _, unit := range []string{"a", "Z", "7", "#", "é", "aZ7#"} {
		prev := 0.0
		for n := 1; n <= 64; n++ {
			e := EstimateEntropy(strings.Repeat(unit, n), p)
			if e < 0 {
				t.Fatalf("Entropy should not be negative for %q x %d: %.2f", unit, n, e)
			}
			if e <= prev {
				t.Fatalf("Entropy should increase with length for %q x %d: %.2f <= %.2f", unit, n, e, prev)
			}
			prev = e
		}
	}
}

func TestClassifyCharacterSpace(t *testing.T) {
	cases := []struct {
		input string
		want  CharacterSpace
	}{
		{"abc", CharacterSpace(Lowercase)},
		{"ABC", CharacterSpace(Uppercase)},
		{"a1", CharacterSpace(Lowercase | Digit)},
		{"a b", CharacterSpace(Lowercase | Symbol)},
		{"ñ", CharacterSpace(Other)},
		{"\xff", CharacterSpace(Other)},
		{"Aa1!ñ", CharacterSpace(Lowercase | Uppercase | Digit | Symbol | Other)},
	}

	for _, tc := range cases {
		if got := ClassifyCharacterSpace(tc.input); got != tc.want {
			t.Errorf("ClassifyCharacterSpace(%q): %s, want: %s", tc.input, got, tc.want)
		}
	}

	all := ClassifyCharacterSpace("Aa1!ñ")
	if size := all.AlphabetSize(DefaultPolicy()); size != 26+26+10+32+100 {
		t.Errorf("Alphabet size should be the sum of all classes, got %d", size)
	}
}

func TestRunChecks(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		input string
		want  CheckSet
	}{
		{"password", CheckSet{
			CheckLength: true, CheckUppercase: false, CheckLowercase: true,
			CheckDigit: false, CheckSymbol: false, CheckCommonPattern: false,
		}},
		{"Tr0ub4dor&3xyz!", CheckSet{
			CheckLength: true, CheckUppercase: true, CheckLowercase: true,
			CheckDigit: true, CheckSymbol: true, CheckCommonPattern: true,
		}},
		{"Sh0rt!", CheckSet{
			CheckLength: false, CheckUppercase: true, CheckLowercase: true,
			CheckDigit: true, CheckSymbol: true, CheckCommonPattern: true,
		}},
		{"çaféçafé", CheckSet{
			CheckLength: true, CheckUppercase: false, CheckLowercase: true,
			CheckDigit: false, CheckSymbol: true, CheckCommonPattern: true,
		}},
	}

	for _, tc := range cases {
		got := RunChecks(tc.input, p)
		if len(got) != len(Checks) {
			t.Errorf("RunChecks(%q) should return %d checks, got %d", tc.input, len(Checks), len(got))
		}
		for _, check := range Checks {
			if got[check] != tc.want[check] {
				t.Errorf("RunChecks(%q)[%s]: %t, want: %t", tc.input, check, got[check], tc.want[check])
			}
		}
	}
}

func TestWeakPatterns(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		input string
		weak  bool
	}{
		{"xQwErTy9", true},
		{"Monkey", true},
		{"zzz-top", true},
		{"wxyz", true},
		{"9876", true},
		{"12a34", false},
		{"Tr0ub4dor&3xyz!", false},
		{"correct horse", false},
		{"ZZZ", true},
		{"LetMeIn", true},
	}

	for _, tc := range cases {
		if got := hasWeakPattern(tc.input, p); got != tc.weak {
			t.Errorf("hasWeakPattern(%q): %t, want: %t", tc.input, got, tc.weak)
		}
	}
}

func TestCommonPasswordsSorted(t *testing.T) {
	if len(commonPasswords) == 0 {
		t.Fatalf("Common passwords list should not be empty")
	}
	for i := 1; i < len(commonPasswords); i++ {
		if commonPasswords[i-1] > commonPasswords[i] {
			t.Fatalf("Common passwords should be sorted: %q > %q", commonPasswords[i-1], commonPasswords[i])
		}
	}
}

func TestClassify_LevelTable(t *testing.T) {
	want := map[int]Level{0: VeryWeak, 1: Weak, 2: Moderate, 3: Moderate, 4: Strong, 5: VeryStrong}
	p := DefaultPolicy()
	for score, level := range want {
		if p.Levels[score] != level {
			t.Errorf("Level for score %d: %s, want: %s", score, p.Levels[score], level)
		}
	}
}

func TestClassify_ScoreBounds(t *testing.T) {
	p := DefaultPolicy()
	inputs := []string{
		"a", "password", "Password1", "P@ssw0rd!", "Tr0ub4dor&3xyz!", "aB3$",
		"correct horse battery staple", "Zq9!Zq9!Zq9!Zq9!", "xkcd-936 ~ Hunter2",
	}

	for _, input := range inputs {
		r := Evaluate(input, p)
		if r.Score < 0 || r.Score > MaxScore {
			t.Errorf("Score for %q out of range: %d", input, r.Score)
		}
		if r.Level != p.Levels[r.Score] {
			t.Errorf("Level for %q should follow the table: %s for score %d", input, r.Level, r.Score)
		}
		if r.Entropy < 0 {
			t.Errorf("Entropy for %q should not be negative: %.2f", input, r.Entropy)
		}
	}
}

func TestClassify(t *testing.T) {
	p := DefaultPolicy()
	all := CheckSet{
		CheckLength: true, CheckUppercase: true, CheckLowercase: true,
		CheckDigit: true, CheckSymbol: true, CheckCommonPattern: true,
	}
	three := CheckSet{CheckLength: true, CheckLowercase: true, CheckCommonPattern: true}
	common := CheckSet{CheckLength: true, CheckUppercase: true, CheckLowercase: true, CheckDigit: true}

	cases := []struct {
		name    string
		entropy float64
		checks  CheckSet
		score   int
		level   Level
	}{
		{"low entropy caps many checks", 26, all, 1, Weak},
		{"all checks mid entropy", 40, all, 5, VeryStrong},
		{"three checks mid entropy", 40, three, 3, Moderate},
		{"three checks high entropy", 70, three, 4, Strong},
		{"common pattern caps", 50, common, 1, Weak},
		{"common pattern ignores high entropy", 90, common, 1, Weak},
		{"nothing passed", 10, CheckSet{}, 0, VeryWeak},
	}

	for _, tc := range cases {
		score, level := Classify(tc.entropy, tc.checks, p)
		if score != tc.score || level != tc.level {
			t.Errorf("%s: Classify: (%d, %s), want: (%d, %s)", tc.name, score, level, tc.score, tc.level)
		}
	}
}

func TestClassify_MonotonicInEntropy(t *testing.T) {
	p := DefaultPolicy()
	checks := CheckSet{CheckLength: true, CheckLowercase: true, CheckDigit: true, CheckCommonPattern: true}
	prev := -1
	for e := 0.0; e < 120; e += 0.5 {
		score, _ := Classify(e, checks, p)
		if score < prev {
			t.Fatalf("Score should not decrease with entropy: %d < %d at %.1f bits", score, prev, e)
		}
		prev = score
	}
}

func TestEvaluate_Examples(t *testing.T) {
	p := DefaultPolicy()

	weak := Evaluate("password", p)
	if weak.Score > 1 {
		t.Errorf("\"password\" should score low, got %d", weak.Score)
	}
	if weak.Level != Weak && weak.Level != VeryWeak {
		t.Errorf("\"password\" should be Weak or Very Weak, got %s", weak.Level)
	}

	strong := Evaluate("Tr0ub4dor&3xyz!", p)
	if strong.Score != 5 || strong.Level != VeryStrong {
		t.Errorf("\"Tr0ub4dor&3xyz!\" should be 5/Very Strong, got %d/%s", strong.Score, strong.Level)
	}
	if strong.Entropy < p.HighEntropyBits {
		t.Errorf("\"Tr0ub4dor&3xyz!\" entropy should be above the high threshold, got %.2f", strong.Entropy)
	}
}

func TestResult_JSON(t *testing.T) {
	r := Evaluate("Tr0ub4dor&3xyz!", DefaultPolicy())
	buf, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Should not fail marshalling: %s", err)
	}

	body := string(buf)
	for _, field := range []string{`"entropy":98.32`, `"score":5`, `"level":"Very Strong"`, `"common_pattern":true`} {
		if !strings.Contains(body, field) {
			t.Errorf("JSON should contain %s: %s", field, body)
		}
	}
	if strings.Contains(body, "Tr0ub4dor") {
		t.Errorf("JSON should never contain the password: %s", body)
	}
}

func TestPolicy_Validate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("Default policy should be valid: %s", err)
	}

	decreasing := DefaultPolicy()
	decreasing.Levels = [MaxScore + 1]Level{VeryWeak, Strong, Weak, Moderate, Strong, VeryStrong}

	thresholds := DefaultPolicy()
	thresholds.HighEntropyBits = thresholds.LowEntropyBits

	alphabet := DefaultPolicy()
	alphabet.OtherAlphabetSize = 1

	emptyPattern := DefaultPolicy()
	emptyPattern.CommonPatterns = []string{"abc", ""}

	for name, p := range map[string]Policy{
		"decreasing levels": decreasing,
		"thresholds":        thresholds,
		"alphabet":          alphabet,
		"empty pattern":     emptyPattern,
	} {
		if err := p.Validate(); err == nil {
			t.Errorf("%s: Validate should fail", name)
		}
	}
}

func TestLevel_ParseRoundTrip(t *testing.T) {
	for _, level := range DefaultLevels {
		parsed, err := ParseLevel(level.String())
		if err != nil || parsed != level {
			t.Errorf("ParseLevel(%q): %s, %v", level.String(), parsed, err)
		}
	}
	if _, err := ParseLevel("Meh"); err == nil {
		t.Errorf("ParseLevel should fail for unknown names")
	}
}
