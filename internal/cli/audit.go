// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"context"
	"fmt"
	"github.com/alvinbaena/safekey/internal/util"
	"github.com/alvinbaena/safekey/pkg/analyzer"
	"github.com/alvinbaena/safekey/pkg/strength"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/thinhdanggroup/executor"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	auditCmd = &cobra.Command{
		Use:   "audit",
		Short: "Analyze a file with one password per line",
		Long: "Analyze every line of a file as a password. Only the line number, score, level and breach status " +
			"are printed, never the passwords",
		RunE: func(cmd *cobra.Command, args []string) error {
			return auditCommand(cmd)
		},
	}
)

//goland:noinspection GoUnhandledErrorResult
func init() {
	auditCmd.Flags().StringVarP(&inputFile, "in-file", "i", "", "File with one password per line (required)")
	auditCmd.MarkFlagRequired("in-file")
	auditCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Number of passwords analyzed concurrently. If omitted or less than 1, defaults to twice the number of logical processors of the machine.")
	auditCmd.Flags().BoolVar(&offline, "offline", false, "Do not check passwords against the Pwned Passwords corpus")
	addBreachFlags(auditCmd.Flags())

	rootCmd.AddCommand(auditCmd)
}

// auditResult holds what is printed for a line, nothing from which the password could be recovered.
type auditResult struct {
	Line   int
	Score  int
	Level  strength.Level
	Breach analyzer.BreachStatus
	Err    error
}

func auditCommand(cmd *cobra.Command) error {
	util.ApplyCliSettings(verbose, profile, pprofPort)
	defer util.Stats()()

	a, client, _, err := newAnalyzer(cmd.Flags(), offline)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.LogSummary()
	}

	abs, err := filepath.Abs(inputFile)
	if err != nil {
		log.Fatal().Err(err).Msgf("could not get absolute path of file")
	}

	file, err := os.Open(abs)
	if err != nil {
		return err
	}

	defer func(file *os.File) {
		if err = file.Close(); err != nil {
			log.Error().Err(err).Msg("error closing passwords file")
		}
	}(file)

	lines, err := readLines(file)
	if err != nil {
		return err
	}

	log.Info().Msgf("auditing %d passwords from file %s", len(lines), abs)
	results, err := auditPasswords(cmd.Context(), a, lines, workers)
	// The passwords are not needed anymore.
	for i := range lines {
		lines[i] = ""
	}
	if err != nil {
		return err
	}

	printAudit(os.Stdout, results)
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	return lines, scanner.Err()
}

// auditPasswords analyzes lines on a bounded pool. Results are indexed like lines, empty lines
// produce a result with a validation error.
func auditPasswords(ctx context.Context, a *analyzer.Analyzer, lines []string, threads int) ([]auditResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if threads < 1 {
		threads = runtime.NumCPU() * 2
	}

	// This is a bounded thread pool.
	tasks, err := executor.New(executor.Config{
		ReqPerSeconds: 0,
		QueueSize:     2 * threads,
		NumWorkers:    threads,
	})
	if err != nil {
		return nil, err
	}
	defer tasks.Close()

	results := make([]auditResult, len(lines))
	analyze := func(i int) {
		res := auditResult{Line: i + 1}
		report, err := a.Analyze(ctx, lines[i])
		if err != nil {
			res.Err = err
		} else {
			res.Score = report.Strength.Score
			res.Level = report.Strength.Level
			res.Breach = report.Breach.Status
		}
		results[i] = res
	}

	for i := range lines {
		if err = tasks.Publish(analyze, i); err != nil {
			log.Panic().Err(err).Msgf("there is a programming error here.")
		}
	}

	tasks.Wait()
	return results, nil
}

func printAudit(w io.Writer, results []auditResult) {
	p := message.NewPrinter(language.English)

	levels := make(map[strength.Level]int)
	statuses := make(map[analyzer.BreachStatus]int)
	var failed int
	for _, res := range results {
		if res.Err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "line %d: %s\n", res.Line, res.Err)
			continue
		}

		levels[res.Level]++
		statuses[res.Breach]++
		_, _ = fmt.Fprintf(w, "line %d: %d/%d %s, breach %s\n",
			res.Line, res.Score, strength.MaxScore, levelColor(res.Level).Sprint(res.Level), res.Breach)
	}

	_, _ = p.Fprintf(w, "\nanalyzed %d passwords, %d skipped\n", len(results)-failed, failed)
	for _, level := range strength.DefaultLevels {
		if n, ok := levels[level]; ok {
			_, _ = p.Fprintf(w, "  %-12s %d\n", level, n)
			delete(levels, level)
		}
	}
	_, _ = p.Fprintf(w, "breached: %d, not breached: %d, unavailable: %d\n",
		statuses[analyzer.BreachFound], statuses[analyzer.BreachClear], statuses[analyzer.BreachUnavailable])
}
