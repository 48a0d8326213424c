// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "safekey [COMMAND] [OPTIONS]",
		Short: "Score passwords and check them against the Pwned Passwords corpus",
		Long: "Score the strength of passwords and check if they appear in the Pwned Passwords (haveibeenpwned.com) " +
			"corpus. Only the first 5 characters of the password's SHA1 hash are ever sent to the range API. " +
			"Serve the analysis as an HTTP API, or run it from the command line for one password or a whole file",
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print more information on the processing")
	rootCmd.PersistentFlags().BoolVar(&profile, "profile", false, "Enable the profiling server (pprof) when running commands")
	rootCmd.PersistentFlags().Uint16Var(&pprofPort, "profile-port", 6060, "The port to use for the pprof server. Only used if the profile flag is set")
}

func Execute() error {
	return rootCmd.Execute()
}
