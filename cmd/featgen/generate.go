// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"
)

func newGenerateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Discover features and regenerate the registry artifacts",
		Long: `Run one pass: discover every feature, validate the set and write the
registry and aggregator artifacts. Artifacts whose content is unchanged are
not rewritten. On any error nothing is written and the command exits 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			report, err := app.pipeline(cmd).Run(cmd.Context())
			if err != nil {
				return app.passError(cmd, report, err)
			}
			renderPassSummary(cmd.OutOrStdout(), cmd.ErrOrStderr(), report)
			return nil
		},
	}
}
