// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/spf13/afero"
)

type (
	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific file when set. A
		// missing file is then an error.
		ConfigFilePath string
		// ProjectDir is where FileName is looked up otherwise.
		ProjectDir string
	}

	// Provider loads configuration from explicit options.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	// ProviderOption configures the file provider.
	ProviderOption func(*fileProvider)

	fileProvider struct {
		fs afero.Fs
	}
)

// WithFs sets the filesystem configuration files are read from.
func WithFs(fs afero.Fs) ProviderOption {
	return func(p *fileProvider) { p.fs = fs }
}

// NewProvider creates a configuration provider reading from the OS filesystem
// unless WithFs is given.
func NewProvider(opts ...ProviderOption) Provider {
	p := &fileProvider{fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	return loadWithOptions(ctx, p.fs, opts)
}
