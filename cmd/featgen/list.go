// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/featgen/featgen/internal/feature"

	"github.com/spf13/cobra"
)

// listOutput is the --json shape of `featgen list`.
type listOutput struct {
	Features    []feature.Descriptor `json:"features"`
	Navigation  feature.Navigation   `json:"navigation"`
	Diagnostics []feature.Diagnostic `json:"diagnostics,omitempty"`
}

func newListCommand(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List features and the resolved navigation",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			report, err := app.pipeline(cmd).Validate(cmd.Context())
			if err != nil {
				return app.passError(cmd, report, err)
			}

			if asJSON {
				data, err := json.MarshalIndent(listOutput{
					Features:    report.Features,
					Navigation:  report.Navigation,
					Diagnostics: report.Diagnostics,
				}, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode features: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			renderDiagnostics(cmd.ErrOrStderr(), report.Diagnostics)
			renderFeatureTable(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	return cmd
}
