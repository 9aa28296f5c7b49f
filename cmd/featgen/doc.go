// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the featgen CLI.
//
// Every subcommand loads the project configuration, runs one or more pipeline
// passes and renders diagnostics with lipgloss. Failed passes surface as
// *ExitError so main can exit non-zero without calling os.Exit from RunE.
package cmd
