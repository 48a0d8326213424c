package analyzer

import (
	"github.com/alvinbaena/safekey/pkg/hibp"
	"github.com/alvinbaena/safekey/pkg/strength"
)

// BreachStatus separates "not found in the corpus" from "could not ask the corpus".
type BreachStatus string

const (
	BreachFound       BreachStatus = "found"
	BreachClear       BreachStatus = "clear"
	BreachUnavailable BreachStatus = "unavailable"
	// BreachSkipped is used when no breach checker is configured (offline mode).
	BreachSkipped BreachStatus = "skipped"
)

// BreachData is the breach half of a report. Breached and Count are only set when the lookup
// answered, so an unavailable lookup can never be read as breached=false.
type BreachData struct {
	Status   BreachStatus `json:"status"`
	Breached *bool        `json:"breached,omitempty"`
	Count    *int64       `json:"count,omitempty"`
	Error    string       `json:"error,omitempty"`
}

func breachAnswered(res hibp.Result) BreachData {
	status := BreachClear
	if res.Breached {
		status = BreachFound
	}

	breached, count := res.Breached, res.Count
	return BreachData{Status: status, Breached: &breached, Count: &count}
}

func breachUnavailable() BreachData {
	return BreachData{Status: BreachUnavailable, Error: hibp.ErrUnavailable.Error()}
}

// Known reports whether the lookup produced an answer.
func (b BreachData) Known() bool {
	return b.Breached != nil && b.Count != nil
}

// Report is the whole response to an analysis. It holds nothing from which the password
// could be recovered.
type Report struct {
	Strength strength.Result `json:"password_strength"`
	Breach   BreachData      `json:"breach_data"`
}
