// SPDX-License-Identifier: MPL-2.0

// Package scaffold creates new feature directories from embedded templates.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"text/template"

	"github.com/featgen/featgen/internal/emit"
	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/internal/metadata"

	"github.com/spf13/afero"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	// ErrInvalidID is returned for ids that are not lowercase kebab-case.
	ErrInvalidID = errors.New("feature id must be lowercase kebab-case, e.g. admin-users")
	// ErrExists is returned when the target directory already has content.
	ErrExists = errors.New("feature directory already exists and is not empty")

	idPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
)

type (
	// Data holds the template variables of a new feature.
	Data struct {
		ID          string
		Title       string
		Description string
		// Path is the primary route path.
		Path string
		// NavLabel adds a navigation entry when set.
		NavLabel string
		NavOrder int
		// Package is derived from ID when empty.
		Package       string
		RuntimeImport string
	}

	// Result lists what Generate wrote.
	Result struct {
		Dir   string
		Files []string
		// Descriptor is the scaffolded metadata as discovery will read it.
		Descriptor *feature.Descriptor
	}
)

// NewData returns Data for id with derived defaults: a title-cased title, the
// route "/<id>" and a package name with the dashes removed.
func NewData(id string) *Data {
	words := strings.Split(id, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return &Data{
		ID:            id,
		Title:         strings.Join(words, " "),
		Path:          "/" + id,
		Package:       PackageName(id),
		RuntimeImport: emit.RuntimeImportPath,
	}
}

// PackageName derives a Go package name from a feature id.
func PackageName(id string) string {
	name := strings.ReplaceAll(id, "-", "")
	if token.IsKeyword(name) || name == "init" {
		name += "feature"
	}
	return name
}

// Generate writes feature.cue and module.go into dir. dir may exist only if
// it is empty. The written metadata is parsed back so a template bug cannot
// produce a feature discovery would reject.
func Generate(fsys afero.Fs, dir string, data *Data) (*Result, error) {
	if !idPattern.MatchString(data.ID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidID, data.ID)
	}
	if data.Package == "" {
		data.Package = PackageName(data.ID)
	}
	if data.RuntimeImport == "" {
		data.RuntimeImport = emit.RuntimeImportPath
	}

	entries, err := afero.ReadDir(fsys, dir)
	switch {
	case err == nil && len(entries) > 0:
		return nil, fmt.Errorf("%w: %s", ErrExists, dir)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", dir, err)
	}

	tmpls, err := fs.Glob(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}

	result := &Result{Dir: dir}
	for _, name := range tmpls {
		outName := strings.TrimSuffix(path.Base(name), ".tmpl")
		out, err := render(name, data)
		if err != nil {
			return nil, err
		}
		if outName == feature.ModuleFileName {
			if out, err = format.Source(out); err != nil {
				return nil, fmt.Errorf("formatting %s: %w", outName, err)
			}
		}
		if err := afero.WriteFile(fsys, filepath.Join(dir, outName), out, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outName, err)
		}
		result.Files = append(result.Files, outName)
	}

	metaPath := filepath.Join(dir, metadata.CUEFileName)
	desc, err := metadata.Load(fsys, metaPath, metaPath)
	if err != nil {
		return nil, fmt.Errorf("scaffolded metadata does not validate: %w", err)
	}
	result.Descriptor = desc
	return result, nil
}

func render(name string, data *Data) ([]byte, error) {
	src, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading template %s: %w", name, err)
	}
	tmpl, err := template.New(path.Base(name)).
		Funcs(template.FuncMap{"quote": strconv.Quote}).
		Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
