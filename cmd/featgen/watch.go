// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/featgen/featgen/internal/build"
	"github.com/featgen/featgen/internal/metadata"
	"github.com/featgen/featgen/internal/watch"

	"github.com/spf13/cobra"
)

func newWatchCommand(app *App) *cobra.Command {
	var clearScreen bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the artifacts whenever a feature changes",
		Long: `Run an initial pass, then watch the feature root and run a new pass after
each debounced batch of changes. A failed pass leaves the previous artifacts
in place and does not run the on_success hook.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.load(cmd); err != nil {
				return err
			}
			return runWatch(cmd, app, clearScreen)
		},
	}
	cmd.Flags().BoolVar(&clearScreen, "clear", false, "clear the screen before each pass")
	return cmd
}

func runWatch(cmd *cobra.Command, app *App, clearScreen bool) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	p := app.pipeline(cmd, build.WithObserver(build.ObserverFunc(func(_, to build.State) {
		if to == build.StateFailed {
			fmt.Fprintln(stderr, WarningStyle.Render("!")+" pass failed, keeping previous artifacts")
		}
	})))

	runPass := func(ctx context.Context) {
		report, err := p.Run(ctx)
		reportWatchPass(stdout, stderr, app, cmd, report, err)
	}

	fmt.Fprintf(stdout, "%s initial pass\n", CmdStyle.Render("→"))
	runPass(cmd.Context())

	cfg := app.cfg
	ignore := append(p.ArtifactPaths(), cfg.Watch.Ignore...)
	w, err := watch.New(watch.Config{
		Patterns:    watch.FeaturePatterns(filepath.ToSlash(cfg.FeatureRoot), metadata.FileNames()),
		Ignore:      ignore,
		Scope:       filepath.ToSlash(cfg.FeatureRoot),
		Debounce:    cfg.Watch.Debounce,
		ClearScreen: clearScreen,
		BaseDir:     app.projectDir,
		Stdout:      stdout,
		OnChange: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(stdout, "%s %s changed\n", CmdStyle.Render("→"), pluralize(len(changed), "file"))
			runPass(ctx)
			return nil
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	fmt.Fprintf(stdout, "%s watching %s (Ctrl+C to stop)\n", CmdStyle.Render("→"), CmdStyle.Render(cfg.FeatureRoot))
	return w.Run(cmd.Context())
}

// reportWatchPass renders a pass outcome without stopping the watch loop.
func reportWatchPass(stdout, stderr io.Writer, app *App, cmd *cobra.Command, report *build.Report, err error) {
	if err == nil {
		renderPassSummary(stdout, stderr, report)
		return
	}
	if passErr := app.passError(cmd, report, err); passErr != nil {
		fmt.Fprintln(stderr, ErrorStyle.Render("✗")+" "+passErr.Error())
	}
}
