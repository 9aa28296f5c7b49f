// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		want   []string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{
			name:   "absolute feature root",
			mutate: func(c *Config) { c.FeatureRoot = "/srv/features" },
			want:   []string{"feature_root: must be relative"},
		},
		{
			name:   "escaping artifact path",
			mutate: func(c *Config) { c.Registry.Path = "../other/registry.go" },
			want:   []string{"registry.path: must stay inside"},
		},
		{
			name:   "parent directory feature root",
			mutate: func(c *Config) { c.FeatureRoot = ".." },
			want:   []string{"feature_root: must stay inside"},
		},
		{
			name:   "feature root that climbs out after cleaning",
			mutate: func(c *Config) { c.FeatureRoot = "internal/../../features" },
			want:   []string{"feature_root: must stay inside"},
		},
		{
			name:   "keyword package",
			mutate: func(c *Config) { c.Aggregator.Package = "func" },
			want:   []string{`aggregator.package: "func" is not a valid Go package name`},
		},
		{
			name:   "same artifact file",
			mutate: func(c *Config) { c.Aggregator.Path = "internal/featureregistry/./registry_gen.go" },
			want:   []string{"aggregator.path: must differ"},
		},
		{
			name:   "same directory different package",
			mutate: func(c *Config) { c.Aggregator.Package = "modules" },
			want:   []string{"must share a package"},
		},
		{
			name: "different directories may use different packages",
			mutate: func(c *Config) {
				c.Aggregator.Path = "internal/modules/modules_gen.go"
				c.Aggregator.Package = "modules"
			},
		},
		{
			name:   "bad ignore pattern",
			mutate: func(c *Config) { c.Watch.Ignore = []string{"[unclosed"} },
			want:   []string{"watch.ignore[0]"},
		},
		{
			name:   "negative debounce",
			mutate: func(c *Config) { c.Watch.Debounce = -1 },
			want:   []string{"watch.debounce"},
		},
		{
			name:   "hook syntax",
			mutate: func(c *Config) { c.Hooks.OnSuccess = "echo 'unterminated" },
			want:   []string{"hooks.on_success"},
		},
		{
			name:   "color scheme",
			mutate: func(c *Config) { c.UI.ColorScheme = "sepia" },
			want:   []string{`invalid color scheme "sepia"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()

			if len(tt.want) == 0 {
				if !valid {
					t.Fatalf("IsValid() = false, %v", errs)
				}
				return
			}
			if valid || len(errs) != 1 {
				t.Fatalf("IsValid() = %v, %v; want one InvalidConfigError", valid, errs)
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error does not wrap ErrInvalidConfig: %v", errs[0])
			}
			for _, want := range tt.want {
				if !strings.Contains(errs[0].Error(), want) {
					t.Errorf("error %q does not contain %q", errs[0].Error(), want)
				}
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if ok, _ := cs.IsValid(); !ok {
			t.Errorf("%s should be valid", cs)
		}
	}
	ok, errs := ColorScheme("").IsValid()
	if ok || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("empty scheme: IsValid() = %v, %v", ok, errs)
	}
}

func TestPackageName_IsValid(t *testing.T) {
	t.Parallel()

	tests := map[PackageName]bool{
		"featureregistry": true,
		"gen2":            true,
		"_":               false,
		"2gen":            false,
		"type":            false,
		"feature-reg":     false,
		"":                false,
	}
	for name, want := range tests {
		if got := name.IsValid(); got != want {
			t.Errorf("PackageName(%q).IsValid() = %v, want %v", name, got, want)
		}
	}
}
