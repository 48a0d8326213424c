// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

var (
	// root
	verbose bool
	// root
	profile bool
	// root
	pprofPort uint16
	// audit
	inputFile string
	// audit
	workers int
	// check
	interactive bool
	// check, audit
	offline bool
)
