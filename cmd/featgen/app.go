// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/featgen/featgen/internal/build"
	"github.com/featgen/featgen/internal/config"
	"github.com/featgen/featgen/internal/discovery"
	"github.com/featgen/featgen/internal/hook"
	"github.com/featgen/featgen/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// App carries the state shared by subcommands once configuration is loaded.
type App struct {
	flags      *rootFlagValues
	provider   config.Provider
	projectDir string
	cfg        *config.Config
}

func newApp(flags *rootFlagValues) *App {
	return &App{flags: flags, provider: config.NewProvider()}
}

// load resolves the project directory and reads the configuration.
func (a *App) load(cmd *cobra.Command) error {
	if a.cfg != nil {
		return nil
	}

	dir := a.flags.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}

	cfg, err := a.provider.Load(cmd.Context(), config.LoadOptions{
		ConfigFilePath: a.flags.configPath,
		ProjectDir:     abs,
	})
	if err != nil {
		return &ExitError{Code: 1, Err: errors.New(formatErrorForDisplay(err, a.flags.verbose))}
	}

	a.projectDir, a.cfg = abs, cfg
	if cfg.UI.Verbose && !a.flags.verbose {
		a.flags.verbose = true
		setupLogging(cmd.ErrOrStderr(), true)
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}
	slog.Debug("configuration loaded", "project", abs, "file", cfg.File)
	return nil
}

// pipeline builds a pipeline for the loaded project. Hook output goes to the
// command's streams.
func (a *App) pipeline(cmd *cobra.Command, opts ...build.Option) *build.Pipeline {
	runner := hook.NewRunner(a.projectDir, hook.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()))
	opts = append([]build.Option{build.WithHookRunner(runner)}, opts...)
	return build.New(a.projectDir, a.settings(), opts...)
}

func (a *App) settings() build.Settings {
	c := a.cfg
	return build.Settings{
		FeatureRoot:       c.FeatureRoot,
		ModulePath:        c.ModulePath,
		RegistryPath:      c.Registry.Path,
		AggregatorPath:    c.Aggregator.Path,
		RegistryPackage:   string(c.Registry.Package),
		AggregatorPackage: string(c.Aggregator.Package),
		OnSuccess:         c.Hooks.OnSuccess,
		OnFailure:         c.Hooks.OnFailure,
	}
}

// passError converts a pipeline error into what the command returns:
// diagnostics are rendered and become exit code 1, host problems get
// actionable context.
func (a *App) passError(cmd *cobra.Command, report *build.Report, err error) error {
	var (
		buildErr *build.Error
		hookErr  *hook.ExitError
	)
	switch {
	case errors.As(err, &buildErr):
		renderDiagnostics(cmd.ErrOrStderr(), buildErr.Diagnostics)
		return &ExitError{Code: 1, Err: fmt.Errorf("%d error(s) in %d feature(s)", len(buildErr.Errors()), len(report.Features))}
	case errors.As(err, &hookErr):
		return &ExitError{Code: max(hookErr.Code, 2), Err: err}
	case errors.Is(err, discovery.ErrModulePathUnknown):
		return &ExitError{Code: 1, Err: errors.New(issue.NewErrorContext().
			WithOperation("resolve feature import paths").
			WithResource(filepath.Join(a.projectDir, "go.mod")).
			WithSuggestion("Run featgen from the module root or pass --dir").
			WithSuggestion("Set module_path in " + config.FileName).
			WithIssue(issue.ModulePathUnknownID).
			Wrap(err).
			Build().
			Format(a.flags.verbose))}
	default:
		return err
	}
}

// setupLogging routes slog through a charm logger on w.
func setupLogging(w io.Writer, verbose bool) {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "featgen",
		Level:  level,
	})
	slog.SetDefault(slog.New(logger))
}

// formatErrorForDisplay uses ActionableError.Format when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
