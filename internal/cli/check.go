// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/alvinbaena/safekey/internal/util"
	"github.com/alvinbaena/safekey/pkg/analyzer"
	"github.com/alvinbaena/safekey/pkg/strength"
	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"os"
	"strings"
)

var (
	checkCmd = &cobra.Command{
		Use:   "check [password]",
		Short: "Analyze a password, or many with the interactive mode",
		Args: func(cmd *cobra.Command, args []string) error {
			if !interactive {
				if err := cobra.ExactArgs(1)(cmd, args); err != nil {
					return err
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				return checkCommand(cmd, "")
			} else {
				return checkCommand(cmd, args[0])
			}
		},
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&interactive, "interactive", "n", false, "Interactive mode. The password is read from a masked prompt")
	checkCmd.Flags().BoolVar(&offline, "offline", false, "Do not check passwords against the Pwned Passwords corpus")
	addBreachFlags(checkCmd.Flags())

	rootCmd.AddCommand(checkCmd)
}

func checkCommand(cmd *cobra.Command, password string) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)

	a, client, _, err := newAnalyzer(cmd.Flags(), offline)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.LogSummary()
	}

	if !interactive {
		log.Warn().Msg("passwords given as arguments can end up in the shell history. Prefer the --interactive flag")
		return analyzeAndPrint(cmd.Context(), a, password, os.Stdout)
	}

	prompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if len(input) == 0 {
				return errors.New("please enter a password")
			}
			return nil
		},
	}

	log.Info().Msgf("Running interactive session. ^C to exit")
	for {
		result, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				log.Info().Msgf("Goodbye")
			} else {
				log.Error().Err(err).Msgf("Error during interactive session")
			}
			// No return to avoid the default cobra error message
			return nil
		}

		if err = analyzeAndPrint(cmd.Context(), a, result, os.Stdout); err != nil {
			log.Error().Err(err).Msg("Error analyzing password")
		}
	}
}

func analyzeAndPrint(ctx context.Context, a *analyzer.Analyzer, password string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	report, err := a.Analyze(ctx, password)
	if err != nil {
		return err
	}

	printReport(w, report)
	return nil
}

func levelColor(level strength.Level) *color.Color {
	switch level {
	case strength.VeryWeak, strength.Weak:
		return color.New(color.FgRed, color.Bold)
	case strength.Moderate:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}

func printReport(w io.Writer, report *analyzer.Report) {
	p := message.NewPrinter(language.English)
	s := report.Strength

	_, _ = fmt.Fprintf(w, "Strength: %s (%d/%d), %.2f bits of entropy\n",
		levelColor(s.Level).Sprint(s.Level), s.Score, strength.MaxScore, s.Entropy)

	var checks []string
	for _, check := range strength.Checks {
		mark := color.RedString("x")
		if s.Checks[check] {
			mark = color.GreenString("ok")
		}
		checks = append(checks, fmt.Sprintf("%s %s", check, mark))
	}
	_, _ = fmt.Fprintf(w, "Checks:   %s\n", strings.Join(checks, ", "))
	_, _ = fmt.Fprintf(w, "Cracking: %s (estimate %d/4)\n", s.CrackEstimate.CrackTimeDisplay, s.CrackEstimate.Score)

	b := report.Breach
	switch b.Status {
	case analyzer.BreachFound:
		_, _ = fmt.Fprintf(w, "Breached: %s, seen %s times\n", color.RedString("yes"), p.Sprintf("%d", *b.Count))
	case analyzer.BreachClear:
		_, _ = fmt.Fprintf(w, "Breached: %s\n", color.GreenString("no"))
	case analyzer.BreachSkipped:
		_, _ = fmt.Fprintln(w, "Breached: not checked (offline)")
	default:
		_, _ = fmt.Fprintf(w, "Breached: %s, %s\n", color.YellowString("unknown"), b.Error)
	}
}
