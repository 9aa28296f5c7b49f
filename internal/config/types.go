// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/featgen/featgen/internal/hook"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// ColorSchemeAuto detects the terminal background.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark palette.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light palette.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidPackageName is returned when a PackageName is not a Go identifier.
	ErrInvalidPackageName = errors.New("invalid package name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// PackageName is the package clause of a generated artifact.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName is not a valid identifier.
	InvalidPackageNameError struct {
		Field string
		Value PackageName
	}

	// FieldError reports a constraint violation on a single configuration key.
	FieldError struct {
		Field   string
		Message string
	}

	// InvalidConfigError collects every field-level problem of a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// ArtifactConfig locates one generated file.
	ArtifactConfig struct {
		// Path is relative to the project root.
		Path string `json:"path" mapstructure:"path"`
		// Package is the artifact's package clause.
		Package PackageName `json:"package" mapstructure:"package"`
	}

	// WatchConfig configures watch mode.
	WatchConfig struct {
		// Debounce is the quiet period before a pass starts.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// Ignore lists doublestar patterns excluded from watching, in addition
		// to the defaults and the generated artifacts.
		Ignore []string `json:"ignore" mapstructure:"ignore"`
	}

	// HooksConfig holds shell snippets run after a pass.
	HooksConfig struct {
		OnSuccess string `json:"on_success" mapstructure:"on_success"`
		OnFailure string `json:"on_failure" mapstructure:"on_failure"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// Config holds the project configuration.
	Config struct {
		// FeatureRoot is the feature directory relative to the project root.
		FeatureRoot string `json:"feature_root" mapstructure:"feature_root"`
		// ModulePath overrides the host module path from go.mod when set.
		ModulePath string         `json:"module_path" mapstructure:"module_path"`
		Registry   ArtifactConfig `json:"registry" mapstructure:"registry"`
		Aggregator ArtifactConfig `json:"aggregator" mapstructure:"aggregator"`
		Watch      WatchConfig    `json:"watch" mapstructure:"watch"`
		Hooks      HooksConfig    `json:"hooks" mapstructure:"hooks"`
		UI         UIConfig       `json:"ui" mapstructure:"ui"`

		// File is the configuration file that was loaded, empty for defaults only.
		File string `json:"-" mapstructure:"-"`
	}
)

// String returns the string representation of the ColorScheme.
func (c ColorScheme) String() string { return string(c) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid reports whether p can be used as a package clause.
func (p PackageName) IsValid() bool {
	return token.IsIdentifier(string(p)) && p != "_"
}

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid Go package name", e.Field, e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

// Error implements the error interface.
func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %d field error(s): %s", len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid checks the constraints the CUE schema cannot express: relative
// paths, distinct artifact files, one package per artifact directory, ignore
// pattern syntax and hook syntax.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	fieldErr := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	checkRelative := func(field, p string) {
		switch {
		case strings.TrimSpace(p) == "":
			fieldErr(field, "must not be empty")
		case filepath.IsAbs(p) || path.IsAbs(filepath.ToSlash(p)):
			fieldErr(field, "must be relative to the project root, got %q", p)
		case escapesRoot(p):
			fieldErr(field, "must stay inside the project root, got %q", p)
		}
	}
	checkRelative("feature_root", c.FeatureRoot)
	checkRelative("registry.path", c.Registry.Path)
	checkRelative("aggregator.path", c.Aggregator.Path)

	if !c.Registry.Package.IsValid() {
		errs = append(errs, &InvalidPackageNameError{Field: "registry.package", Value: c.Registry.Package})
	}
	if !c.Aggregator.Package.IsValid() {
		errs = append(errs, &InvalidPackageNameError{Field: "aggregator.package", Value: c.Aggregator.Package})
	}

	regPath := path.Clean(filepath.ToSlash(c.Registry.Path))
	aggPath := path.Clean(filepath.ToSlash(c.Aggregator.Path))
	if regPath == aggPath {
		fieldErr("aggregator.path", "must differ from registry.path (%q)", c.Registry.Path)
	} else if path.Dir(regPath) == path.Dir(aggPath) && c.Registry.Package != c.Aggregator.Package {
		fieldErr("aggregator.package", "artifacts in the same directory must share a package, got %q and %q",
			c.Registry.Package, c.Aggregator.Package)
	}

	if c.Watch.Debounce < 0 {
		fieldErr("watch.debounce", "must not be negative, got %s", c.Watch.Debounce)
	}
	for i, p := range c.Watch.Ignore {
		if !doublestar.ValidatePattern(p) {
			fieldErr(fmt.Sprintf("watch.ignore[%d]", i), "invalid glob pattern %q", p)
		}
	}

	if err := hook.Check(c.Hooks.OnSuccess); err != nil {
		fieldErr("hooks.on_success", "%v", err)
	}
	if err := hook.Check(c.Hooks.OnFailure); err != nil {
		fieldErr("hooks.on_failure", "%v", err)
	}

	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}

	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// escapesRoot reports whether the relative path p points outside the
// project root once cleaned ("..", "../x", "a/../../x").
func escapesRoot(p string) bool {
	clean := path.Clean(filepath.ToSlash(p))
	return clean == ".." || strings.HasPrefix(clean, "../")
}
