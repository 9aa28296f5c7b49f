// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/featgen/featgen/internal/emit"

	"github.com/spf13/afero"
)

// ErrArtifactPathConflict is returned when both artifacts resolve to the same file.
var ErrArtifactPathConflict = errors.New("registry and aggregator artifacts must be different files")

// artifactFile is one rendered artifact and its destination.
type artifactFile struct {
	rel  string
	abs  string
	data []byte
}

func (p *Pipeline) artifactFiles(a *emit.Artifacts) []artifactFile {
	return []artifactFile{
		{rel: filepath.ToSlash(p.settings.RegistryPath), abs: p.abs(p.settings.RegistryPath), data: a.Registry},
		{rel: filepath.ToSlash(p.settings.AggregatorPath), abs: p.abs(p.settings.AggregatorPath), data: a.Aggregator},
	}
}

func (p *Pipeline) abs(rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(p.projectDir, filepath.FromSlash(rel))
}

func (p *Pipeline) checkArtifactPaths() error {
	if p.abs(p.settings.RegistryPath) == p.abs(p.settings.AggregatorPath) {
		return fmt.Errorf("%w: %s", ErrArtifactPathConflict, p.settings.RegistryPath)
	}
	return nil
}

// write persists both artifacts unless a newer pass has started.
func (p *Pipeline) write(report *Report, artifacts *emit.Artifacts) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if p.generation.Load() != report.Generation {
		return ErrSuperseded
	}

	for _, a := range p.artifactFiles(artifacts) {
		changed, err := writeIfChanged(p.fs, a.abs, a.data)
		if err != nil {
			return fmt.Errorf("writing %s: %w", a.rel, err)
		}
		if changed {
			report.Written = append(report.Written, a.rel)
			slog.Debug("artifact written", "path", a.rel, "bytes", len(a.data))
		} else {
			report.Unchanged = append(report.Unchanged, a.rel)
			slog.Debug("artifact unchanged", "path", a.rel)
		}
	}
	return nil
}

// writeIfChanged replaces path with data through a temp file and rename, so
// readers never observe a partial artifact. Identical content is left
// untouched to keep build caches warm.
func writeIfChanged(fs afero.Fs, path string, data []byte) (bool, error) {
	current, err := afero.ReadFile(fs, path)
	switch {
	case err == nil && bytes.Equal(current, data):
		return false, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return false, err
	}

	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return false, err
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck // write error takes precedence
		fs.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return false, err
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return false, err
	}
	if err := fs.Chmod(tmpName, 0o644); err != nil {
		fs.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return false, err
	}
	if err := fs.Rename(tmpName, path); err != nil {
		fs.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return false, err
	}
	return true, nil
}
