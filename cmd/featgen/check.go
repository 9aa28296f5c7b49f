// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/featgen/featgen/internal/build"
	"github.com/featgen/featgen/internal/issue"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the committed artifacts match the current features",
		Long: `Run a pass in memory and compare its output with the artifacts on disk.
Exits 1 when an artifact is missing or differs. Intended for CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			report, err := app.pipeline(cmd).Check(cmd.Context())

			var drift *build.DriftError
			if errors.As(err, &drift) {
				out := cmd.ErrOrStderr()
				for _, p := range drift.Paths {
					fmt.Fprintf(out, "%s %s\n", ErrorStyle.Render("✗"), CmdStyle.Render(p))
				}
				fmt.Fprintln(out, diagHintStyle.Render("run 'featgen generate', or see 'featgen explain "+string(issue.ArtifactsStaleID)+"'"))
				return &ExitError{Code: 1, Err: err}
			}
			if err != nil {
				return app.passError(cmd, report, err)
			}

			renderDiagnostics(cmd.ErrOrStderr(), report.Diagnostics)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s, artifacts up to date\n",
				SuccessStyle.Render("✓"), pluralize(len(report.Features), "feature"))
			return nil
		},
	}
}
