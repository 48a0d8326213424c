// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package strength scores passwords from an entropy estimate and a fixed set of checks.
// Every function here is pure: nothing is logged, stored or sent anywhere.
package strength

// Result is the strength half of an analysis report.
type Result struct {
	Entropy       float64       `json:"entropy"`
	Score         int           `json:"score"`
	Level         Level         `json:"level"`
	Checks        CheckSet      `json:"checks"`
	CrackEstimate CrackEstimate `json:"crack_estimate"`
}

// Evaluate runs the rule engine and the classifier over a non-empty password.
func Evaluate(s string, p Policy) Result {
	entropy := EstimateEntropy(s, p)
	checks := RunChecks(s, p)
	score, level := Classify(entropy, checks, p)

	return Result{
		Entropy:       entropy,
		Score:         score,
		Level:         level,
		Checks:        checks,
		CrackEstimate: Estimate(s),
	}
}
