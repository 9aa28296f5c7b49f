// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/featgen/featgen/internal/issue"
	"github.com/featgen/featgen/pkg/cueutil"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "featgen"
	// FileName is the configuration file looked up in the project root.
	FileName = "featgen.cue"
	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "FEATGEN"

	// DefaultFeatureRoot is the default feature root.
	DefaultFeatureRoot = "internal/features"
	// DefaultRegistryPath is the default registry artifact path.
	DefaultRegistryPath = "internal/featureregistry/registry_gen.go"
	// DefaultAggregatorPath is the default aggregator artifact path.
	DefaultAggregatorPath = "internal/featureregistry/modules_gen.go"
	// DefaultPackage is the default package clause of both artifacts.
	DefaultPackage PackageName = "featureregistry"
	// DefaultDebounce is the default watch debounce.
	DefaultDebounce = 300 * time.Millisecond
)

//go:embed config_schema.cue
var configSchema string

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		FeatureRoot: DefaultFeatureRoot,
		Registry:    ArtifactConfig{Path: DefaultRegistryPath, Package: DefaultPackage},
		Aggregator:  ArtifactConfig{Path: DefaultAggregatorPath, Package: DefaultPackage},
		Watch:       WatchConfig{Debounce: DefaultDebounce, Ignore: []string{}},
		UI:          UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// loadWithOptions reads defaults, the configuration file and the environment,
// in increasing order of precedence.
func loadWithOptions(ctx context.Context, fs afero.Fs, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfgPath, explicit := opts.ConfigFilePath, true
	if cfgPath == "" {
		cfgPath, explicit = filepath.Join(opts.ProjectDir, FileName), false
	}

	found, err := fileExists(fs, cfgPath)
	if err != nil {
		return nil, err
	}
	switch {
	case found:
		if err := loadCUEIntoViper(fs, v, cfgPath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the values match the configuration schema").
				WithIssue(issue.ConfigLoadFailedID).
				Wrap(err).
				BuildError()
		}
	case explicit:
		return nil, issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(cfgPath).
			WithSuggestion("Verify the --config path is correct").
			WithSuggestion("Omit --config to use " + FileName + " in the project root").
			Wrap(fmt.Errorf("config file not found: %s", cfgPath)).
			BuildError()
	default:
		cfgPath = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.File = cfgPath

	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(cfgPath).
			WithSuggestion("Fix the fields listed above in " + FileName + " or the FEATGEN_* environment").
			WithIssue(issue.ConfigLoadFailedID).
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("feature_root", d.FeatureRoot)
	v.SetDefault("module_path", d.ModulePath)
	v.SetDefault("registry.path", d.Registry.Path)
	v.SetDefault("registry.package", string(d.Registry.Package))
	v.SetDefault("aggregator.path", d.Aggregator.Path)
	v.SetDefault("aggregator.package", string(d.Aggregator.Package))
	v.SetDefault("watch.debounce", d.Watch.Debounce)
	v.SetDefault("watch.ignore", d.Watch.Ignore)
	v.SetDefault("hooks.on_success", d.Hooks.OnSuccess)
	v.SetDefault("hooks.on_failure", d.Hooks.OnFailure)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("ui.color_scheme", string(d.UI.ColorScheme))
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v.
// Fields are optional, so the schema is checked non-concretely and decoded to
// a map that keeps Viper's defaults for anything left out.
func loadCUEIntoViper(fs afero.Fs, v *viper.Viper, path string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	case info.IsDir():
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}
