package strength

// Classify maps an entropy estimate and a check set to a score in 0..MaxScore and its level.
//
// The raw score is the number of passed checks. Entropy then adjusts it: low entropy caps the
// score so a short password cannot reach "Strong" on class diversity alone, and high entropy
// adds a step once enough checks pass. A password matching a weak pattern is capped as well.
// Passing one more check or adding entropy never lowers the score.
func Classify(entropy float64, checks CheckSet, p Policy) (int, Level) {
	passed := checks.Passed()
	score := clamp(passed, 0, MaxScore)

	switch {
	case entropy < p.LowEntropyBits:
		score = min(score, p.LowEntropyCap)
		if !checks[CheckCommonPattern] {
			score = min(score, p.CommonPatternCap)
		}
	case !checks[CheckCommonPattern]:
		score = min(score, p.CommonPatternCap)
	case entropy >= p.HighEntropyBits && passed >= p.HighEntropyMinChecks:
		score = min(score+1, MaxScore)
	}

	score = clamp(score, 0, MaxScore)
	return score, p.Levels[score]
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
