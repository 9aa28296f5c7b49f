// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
)

// ErrModulePathUnknown is returned when the host module path can neither be
// read from go.mod nor was configured explicitly.
var ErrModulePathUnknown = errors.New("cannot determine host module path")

// resolveModulePath returns the configured module path, or the module
// directive of the project's go.mod.
func (d *Discoverer) resolveModulePath() (string, error) {
	if d.modulePath != "" {
		return d.modulePath, nil
	}

	goMod := filepath.Join(d.projectDir, "go.mod")
	data, err := afero.ReadFile(d.fs, goMod)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModulePathUnknown, err)
	}

	f, err := modfile.ParseLax(goMod, data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %w", ErrModulePathUnknown, goMod, err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return "", fmt.Errorf("%w: %s has no module directive", ErrModulePathUnknown, goMod)
	}

	return f.Module.Mod.Path, nil
}
