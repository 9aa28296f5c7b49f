// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	dir        string
	verbose    bool
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree so tests can run several in one process.
func NewRootCommand() *cobra.Command {
	flags := &rootFlagValues{}
	app := newApp(flags)

	root := &cobra.Command{
		Use:   "featgen",
		Short: "Build-time feature registry generator",
		Long: TitleStyle.Render("featgen") + SubtitleStyle.Render(" - build-time feature registry generator") + `

featgen scans a feature root for self-describing feature directories, each
holding one metadata file (feature.cue, feature.yaml or feature.toml) and a
module.go that declares func Module() registry.Module. It validates the
features as a set and emits a typed registry and a module aggregator the
host application compiles against.

` + SubtitleStyle.Render("Examples:") + `
  featgen generate          Regenerate the registry artifacts
  featgen check             Fail when the artifacts are out of date
  featgen list              Show features and the navigation order
  featgen watch             Regenerate on every feature change
  featgen new billing       Scaffold a new feature`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(cmd.ErrOrStderr(), flags.verbose)
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is featgen.cue in the project root)")
	root.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "project root (default is the working directory)")

	root.AddCommand(
		newGenerateCommand(app),
		newCheckCommand(app),
		newValidateCommand(app),
		newListCommand(app),
		newWatchCommand(app),
		newNewCommand(app),
		newExplainCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI and returns the process exit code.
func Main() int {
	err := fang.Execute(
		context.Background(),
		NewRootCommand(),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute is called by main.main.
func Execute() {
	os.Exit(Main())
}
