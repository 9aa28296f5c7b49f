// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Discover and validate features without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			report, err := app.pipeline(cmd).Validate(cmd.Context())
			if err != nil {
				return app.passError(cmd, report, err)
			}
			renderDiagnostics(cmd.ErrOrStderr(), report.Diagnostics)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s valid\n",
				SuccessStyle.Render("✓"), pluralize(len(report.Features), "feature"))
			return nil
		},
	}
}
