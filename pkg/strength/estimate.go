package strength

import (
	"math"

	"github.com/nbutton23/zxcvbn-go"
)

// CrackEstimate is zxcvbn's view of the password. It is reported next to the score for
// reference only and does not feed Classify.
type CrackEstimate struct {
	Score            int     `json:"score"`
	CrackTimeSeconds float64 `json:"crack_time_seconds"`
	CrackTimeDisplay string  `json:"crack_time_display"`
}

// Estimate runs zxcvbn's pattern matching over s. Only derived figures are copied out of the
// zxcvbn match, never the password it echoes back.
func Estimate(s string) CrackEstimate {
	m := zxcvbn.PasswordStrength(s, nil)

	seconds := m.CrackTime
	switch {
	case math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds > 1e300:
		// JSON has no infinity.
		seconds = math.MaxFloat64
	default:
		seconds = round2(seconds)
	}

	return CrackEstimate{
		Score:            m.Score,
		CrackTimeSeconds: seconds,
		CrackTimeDisplay: m.CrackTimeDisplay,
	}
}
