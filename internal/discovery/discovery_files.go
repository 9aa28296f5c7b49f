// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/internal/metadata"

	"github.com/spf13/afero"
)

// walker carries the state of one Discover call.
type walker struct {
	d      *Discoverer
	result *Result

	modulePath         string
	modulePathResolved bool
}

// skipDir reports whether a directory name is never descended into.
// These follow the go tool's conventions for ignored directories.
func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") ||
		strings.HasPrefix(name, "_") ||
		name == "testdata" ||
		name == "vendor"
}

func (w *walker) walk(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// afero.ReadDir returns entries sorted by name.
	entries, err := afero.ReadDir(w.d.fs, dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var (
		metaFiles []string
		hasModule bool
		subdirs   []string
	)
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
			if skipDir(name) {
				slog.Debug("not descending into ignored directory", "dir", w.d.rel(filepath.Join(dir, name)))
				continue
			}
			subdirs = append(subdirs, name)
		case name == feature.ModuleFileName:
			hasModule = true
		case metadata.IsMetadataFile(name):
			metaFiles = append(metaFiles, name)
		}
	}

	if err := w.inspectDir(dir, metaFiles, hasModule); err != nil {
		return err
	}

	for _, name := range subdirs {
		if err := w.walk(ctx, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// inspectDir classifies one directory and, when it is a feature, loads it.
func (w *walker) inspectDir(dir string, metaFiles []string, hasModule bool) error {
	relDir := w.d.rel(dir)

	switch {
	case len(metaFiles) == 0 && !hasModule:
		return nil
	case !hasModule:
		slog.Debug("skipping directory without module.go", "dir", relDir, "metadata", metaFiles[0])
		return nil
	case len(metaFiles) == 0:
		slog.Debug("skipping directory without metadata file", "dir", relDir)
		return nil
	case len(metaFiles) > 1:
		related := make([]string, 0, len(metaFiles))
		for _, name := range metaFiles {
			related = append(related, path.Join(relDir, name))
		}
		w.report(feature.NewError(feature.CodeMetadataAmbiguous, "",
			fmt.Sprintf("directory declares %d metadata files (%s); keep exactly one",
				len(metaFiles), strings.Join(metaFiles, ", "))).
			WithFile(relDir).
			WithRelated(related...))
		return nil
	}

	metaDisplay := path.Join(relDir, metaFiles[0])
	desc, err := metadata.Load(w.d.fs, filepath.Join(dir, metaFiles[0]), metaDisplay)
	if err != nil {
		var merr *metadata.Error
		if !errors.As(err, &merr) {
			return err
		}
		w.report(feature.NewError(feature.CodeMetadataParseFailed, "", merr.Detail).
			WithFile(merr.File).
			WithField(merr.Field))
	}

	featureID := ""
	if desc != nil {
		featureID = desc.ID
	}

	moduleDisplay := path.Join(relDir, feature.ModuleFileName)
	pkgName, diag, err := inspectModule(w.d.fs, filepath.Join(dir, feature.ModuleFileName), moduleDisplay, w.d.runtimeImport)
	if err != nil {
		return err
	}
	if diag != nil {
		diag.FeatureID = featureID
		w.report(*diag)
	}

	if desc == nil || diag != nil {
		return nil
	}

	modulePath, err := w.hostModulePath()
	if err != nil {
		return err
	}

	desc.SourceLocation = metaDisplay
	desc.Module = feature.ModuleRef{
		Dir:         relDir,
		ImportPath:  path.Join(modulePath, relDir),
		PackageName: pkgName,
		File:        moduleDisplay,
	}
	w.result.Features = append(w.result.Features, *desc)

	slog.Debug("discovered feature", "id", desc.ID, "dir", relDir, "routes", len(desc.Routes))
	return nil
}

func (w *walker) report(d feature.Diagnostic) {
	slog.Debug("discovery diagnostic", "code", d.Code, "file", d.FilePath, "message", d.Message)
	w.result.Diagnostics = append(w.result.Diagnostics, d)
}

// hostModulePath resolves the host module path once per pass, and only when
// a feature actually needs an import path.
func (w *walker) hostModulePath() (string, error) {
	if !w.modulePathResolved {
		mp, err := w.d.resolveModulePath()
		if err != nil {
			return "", err
		}
		w.modulePath = mp
		w.modulePathResolved = true
	}
	return w.modulePath, nil
}
