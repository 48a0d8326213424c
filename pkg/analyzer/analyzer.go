// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

// Package analyzer joins the strength engine and the breach lookup into one report.
package analyzer

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/alvinbaena/safekey/pkg/hibp"
	"github.com/alvinbaena/safekey/pkg/strength"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const DefaultMaxLength = 256

// BreachChecker looks a password up in a breach corpus. *hibp.Client implements it.
type BreachChecker interface {
	Lookup(ctx context.Context, password string) (hibp.Result, error)
}

type Analyzer struct {
	policy    strength.Policy
	breaches  BreachChecker
	maxLength int
}

type Option func(*Analyzer)

// WithMaxLength rejects passwords longer than n runes. 0 disables the limit.
func WithMaxLength(n int) Option {
	return func(a *Analyzer) {
		a.maxLength = n
	}
}

// New builds an Analyzer. A nil breaches skips the breach lookup altogether.
func New(policy strength.Policy, breaches BreachChecker, opts ...Option) *Analyzer {
	a := &Analyzer{
		policy:    policy,
		breaches:  breaches,
		maxLength: DefaultMaxLength,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores password and checks it against the breach corpus, concurrently. A failed
// breach lookup does not fail the analysis, it is reported as unavailable. The only errors
// are validation errors and ErrInternal.
func (a *Analyzer) Analyze(ctx context.Context, password string) (*Report, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if a.maxLength > 0 && utf8.RuneCountInString(password) > a.maxLength {
		return nil, ErrPasswordTooLong
	}

	var (
		result strength.Result
		breach BreachData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Msg("strength evaluation failed unexpectedly")
				err = ErrInternal
			}
		}()

		result = strength.Evaluate(password, a.policy)
		return nil
	})

	g.Go(func() error {
		breach = a.lookup(gctx, password)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Report{Strength: result, Breach: breach}, nil
}

func (a *Analyzer) lookup(ctx context.Context, password string) (data BreachData) {
	if a.breaches == nil {
		return BreachData{Status: BreachSkipped}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msg("breach lookup failed unexpectedly")
			data = breachUnavailable()
		}
	}()

	res, err := a.breaches.Lookup(ctx, password)
	if err != nil {
		var unavailable *hibp.UnavailableError
		if errors.As(err, &unavailable) {
			log.Warn().Str("reason", string(unavailable.Reason)).Int("status", unavailable.StatusCode).
				Msg("breach lookup unavailable")
		} else {
			log.Warn().Msg("breach lookup unavailable")
		}
		return breachUnavailable()
	}

	// count > 0 if and only if breached, whatever the checker returned.
	if res.Count <= 0 {
		res = hibp.Result{}
	} else {
		res.Breached = true
	}
	return breachAnswered(res)
}
