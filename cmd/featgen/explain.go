// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/featgen/featgen/internal/config"
	"github.com/featgen/featgen/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newExplainCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Explain a diagnostic code and how to fix it",
		Long: `Print remediation guidance for a diagnostic code such as duplicate_id.
Without an argument, list every known code.`,
		Args: cobra.MaximumNArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			var ids []string
			for _, is := range issue.Values() {
				ids = append(ids, string(is.ID()))
			}
			return ids, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				t := table.New().
					Border(lipgloss.HiddenBorder()).
					StyleFunc(func(row, col int) lipgloss.Style {
						if row != table.HeaderRow && col == 0 {
							return CmdStyle
						}
						return lipgloss.NewStyle()
					})
				for _, is := range issue.Values() {
					t.Row(string(is.ID()), is.Summary())
				}
				fmt.Fprintln(out, t.Render())
				return nil
			}

			is := issue.Get(issue.ID(args[0]))
			if is == nil {
				return issue.NewErrorContext().
					WithOperation("explain").
					WithResource(args[0]).
					WithSuggestion("Run 'featgen explain' to list every code").
					Wrap(fmt.Errorf("unknown code %q", args[0])).
					BuildError()
			}

			// The style follows ui.color_scheme when a configuration can be loaded.
			style := string(config.ColorSchemeAuto)
			if err := app.load(cmd); err == nil {
				style = string(app.cfg.UI.ColorScheme)
			} else {
				slog.Debug("explain without configuration", "error", err)
			}

			rendered, err := is.Render(style)
			if err != nil {
				slog.Warn("failed to render guide, printing markdown", "error", err)
				fmt.Fprintln(out, is.MarkdownMsg())
				return nil
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
}
