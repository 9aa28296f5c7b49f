// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

const (
	testProjectDir = "/project"
	testModulePath = "example.com/shop"
)

// newTestFs returns an in-memory project with a go.mod for testModulePath.
func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "go.mod", "module "+testModulePath+"\n\ngo 1.25\n")
	return fs
}

func newTestDiscoverer(fs afero.Fs, opts ...Option) *Discoverer {
	return New(testProjectDir, append([]Option{WithFs(fs)}, opts...)...)
}

// writeFile writes content to a project-relative path.
func writeFile(t *testing.T, fs afero.Fs, rel, content string) {
	t.Helper()
	p := filepath.Join(testProjectDir, filepath.FromSlash(rel))
	if err := fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", p, err)
	}
	if err := afero.WriteFile(fs, p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
}

// writeFeature creates a well-formed feature directory with a feature.cue.
func writeFeature(t *testing.T, fs afero.Fs, relDir, id, routePath string) {
	t.Helper()
	writeFile(t, fs, relDir+"/feature.cue", fmt.Sprintf(`
id:    %q
title: "Title of %s"
routes: [{path: %q, title: "Home", primary: true}]
`, id, id, routePath))
	writeFile(t, fs, relDir+"/module.go", validModule(filepath.Base(relDir)))
}

func validModule(pkg string) string {
	return fmt.Sprintf(`package %s

import "github.com/featgen/featgen/pkg/registry"

func Module() registry.Module {
	return registry.ModuleFunc(func(b registry.Binder) error { return nil })
}
`, pkg)
}
