// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/featgen/featgen/internal/scaffold"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type newFlagValues struct {
	title       string
	description string
	path        string
	dir         string
	navLabel    string
	navOrder    int
}

func newNewCommand(app *App) *cobra.Command {
	flags := &newFlagValues{}

	cmd := &cobra.Command{
		Use:   "new <id>",
		Short: "Scaffold a new feature directory",
		Long: `Create <feature root>/<id> with a feature.cue and a module.go that
declares the Module entrypoint. The id must be lowercase kebab-case.`,
		Example: `  featgen new billing
  featgen new admin-users --subdir admin/users --nav "Users" --order 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}

			data := scaffold.NewData(args[0])
			if flags.title != "" {
				data.Title = flags.title
			}
			if flags.path != "" {
				data.Path = flags.path
			}
			data.Description = flags.description
			data.NavLabel = flags.navLabel
			data.NavOrder = flags.navOrder

			rel := args[0]
			if flags.dir != "" {
				rel = filepath.FromSlash(flags.dir)
			}
			dir := filepath.Join(app.projectDir, app.cfg.FeatureRoot, rel)

			res, err := scaffold.Generate(afero.NewOsFs(), dir, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s created feature %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(res.Descriptor.ID))
			for _, f := range res.Files {
				relPath, relErr := filepath.Rel(app.projectDir, filepath.Join(res.Dir, f))
				if relErr != nil {
					relPath = filepath.Join(res.Dir, f)
				}
				fmt.Fprintf(out, "  %s\n", filepath.ToSlash(relPath))
			}
			fmt.Fprintf(out, "\nRun %s to update the registry.\n", CmdStyle.Render("featgen generate"))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "feature title (default derived from the id)")
	cmd.Flags().StringVar(&flags.description, "description", "", "feature description")
	cmd.Flags().StringVar(&flags.path, "path", "", "primary route path (default /<id>)")
	cmd.Flags().StringVar(&flags.dir, "subdir", "", "directory under the feature root (default <id>)")
	cmd.Flags().StringVar(&flags.navLabel, "nav", "", "add a navigation entry with this label")
	cmd.Flags().IntVar(&flags.navOrder, "order", 0, "navigation order (requires --nav)")
	return cmd
}
