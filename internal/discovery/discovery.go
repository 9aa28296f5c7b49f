// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/featgen/featgen/internal/config"
	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/pkg/registry"

	"github.com/spf13/afero"
)


// ErrFeatureRootNotDir is returned when the configured feature root exists but is not a directory.
var ErrFeatureRootNotDir = errors.New("feature root is not a directory")

type (
	// Discoverer finds features below a project's feature root.
	// A Discoverer holds no per-pass state and may be reused across passes.
	Discoverer struct {
		fs          afero.Fs
		projectDir  string
		featureRoot   string
		modulePath    string
		runtimeImport string
	}

	// Option configures a Discoverer.
	Option func(*Discoverer)

	// Result is the outcome of one discovery pass.
	Result struct {
		// Features holds the discovered descriptors in lexical directory order.
		Features []feature.Descriptor
		// Diagnostics holds every problem found while scanning.
		Diagnostics []feature.Diagnostic
	}
)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(d *Discoverer) { d.fs = fs }
}

// WithFeatureRoot sets the feature root, relative to the project directory.
func WithFeatureRoot(root string) Option {
	return func(d *Discoverer) {
		if root != "" {
			d.featureRoot = filepath.FromSlash(root)
		}
	}
}

// WithModulePath overrides the host module path instead of reading it from go.mod.
func WithModulePath(modulePath string) Option {
	return func(d *Discoverer) { d.modulePath = modulePath }
}

// WithRuntimeImport sets the import path module.go must take registry.Module
// from. Defaults to registry.ImportPath.
func WithRuntimeImport(importPath string) Option {
	return func(d *Discoverer) {
		if importPath != "" {
			d.runtimeImport = importPath
		}
	}
}

// New creates a Discoverer for the project rooted at projectDir.
func New(projectDir string, opts ...Option) *Discoverer {
	d := &Discoverer{
		fs:          afero.NewOsFs(),
		projectDir:  filepath.Clean(projectDir),
		featureRoot:   config.DefaultFeatureRoot,
		runtimeImport: registry.ImportPath,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FeatureRootDir returns the absolute feature root directory.
func (d *Discoverer) FeatureRootDir() string {
	if filepath.IsAbs(d.featureRoot) {
		return filepath.Clean(d.featureRoot)
	}
	return filepath.Join(d.projectDir, d.featureRoot)
}

// Discover performs a full scan of the feature root. A missing feature root
// yields an empty result. The returned error is reserved for infrastructure
// failures (unreadable directories, unknown host module path); problems with
// individual features are reported in Result.Diagnostics.
func (d *Discoverer) Discover(ctx context.Context) (*Result, error) {
	result := &Result{Features: []feature.Descriptor{}}

	root := d.FeatureRootDir()
	info, err := d.fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("feature root does not exist, no features discovered", "root", root)
			return result, nil
		}
		return nil, fmt.Errorf("stat feature root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrFeatureRootNotDir, root)
	}

	w := &walker{d: d, result: result}
	if err := w.walk(ctx, root); err != nil {
		return nil, err
	}

	slog.Debug("discovery finished",
		"root", root,
		"features", len(result.Features),
		"diagnostics", len(result.Diagnostics))

	return result, nil
}

// rel returns the slash-separated path of p relative to the project directory.
func (d *Discoverer) rel(p string) string {
	r, err := filepath.Rel(d.projectDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(r)
}
