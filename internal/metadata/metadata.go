// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/pkg/cueutil"

	"github.com/spf13/afero"
)

const (
	// CUEFileName is the preferred metadata file name.
	CUEFileName = "feature.cue"
	// YAMLFileName is the YAML metadata file name.
	YAMLFileName = "feature.yaml"
	// YMLFileName is the alternate YAML metadata file name.
	YMLFileName = "feature.yml"
	// TOMLFileName is the TOML metadata file name.
	TOMLFileName = "feature.toml"
)

// ErrUnsupportedFormat is returned by Load for a file name that is not a metadata file.
var ErrUnsupportedFormat = errors.New("unsupported metadata file")

// fileNames is ordered by preference.
var fileNames = []string{CUEFileName, YAMLFileName, YMLFileName, TOMLFileName}

type (
	// document is the decoded shape shared by every metadata format.
	document struct {
		ID          string          `json:"id"`
		Title       string          `json:"title"`
		Description string          `json:"description,omitempty"`
		Routes      []routeDocument `json:"routes,omitempty"`
		Nav         *navDocument    `json:"nav,omitempty"`
	}

	routeDocument struct {
		Path    string `json:"path"`
		Title   string `json:"title"`
		Primary bool   `json:"primary,omitempty"`
	}

	navDocument struct {
		Label string `json:"label"`
		Order *int   `json:"order,omitempty"`
	}

	// Error reports a metadata file that could not be evaluated.
	Error struct {
		// File is the display path of the metadata file.
		File string
		// Field is the JSON-path of the first offending field, when known.
		Field string
		// Detail is the evaluation failure without the file prefix.
		Detail string
		// Err is the underlying failure.
		Err error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.File, e.Detail)
}

// Unwrap returns the underlying failure.
func (e *Error) Unwrap() error { return e.Err }

// FileNames returns the recognized metadata file names in preference order.
func FileNames() []string { return slices.Clone(fileNames) }

// IsMetadataFile reports whether name is a recognized metadata file name.
func IsMetadataFile(name string) bool { return slices.Contains(fileNames, name) }

// Load reads and evaluates the metadata file at filePath on fsys. displayPath
// is used in error messages and should be the project-relative path.
//
// Evaluation failures are returned as *Error; callers convert them to
// metadata_parse_failed diagnostics.
func Load(fsys afero.Fs, filePath, displayPath string) (*feature.Descriptor, error) {
	name := filepath.Base(filePath)
	if !IsMetadataFile(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filePath)
	}

	data, err := afero.ReadFile(fsys, filePath)
	if err != nil {
		return nil, &Error{File: displayPath, Detail: err.Error(), Err: err}
	}

	return Parse(name, data, displayPath)
}

// Parse evaluates metadata bytes. name selects the format (one of FileNames).
func Parse(name string, data []byte, displayPath string) (*feature.Descriptor, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, displayPath); err != nil {
		return nil, &Error{File: displayPath, Detail: err.Error(), Err: err}
	}

	var (
		doc *document
		err error
	)
	switch name {
	case CUEFileName:
		doc, err = parseCUE(data, displayPath)
	case YAMLFileName, YMLFileName:
		doc, err = parseYAML(data, displayPath)
	case TOMLFileName:
		doc, err = parseTOML(data, displayPath)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	if err != nil {
		return nil, err
	}

	return doc.descriptor(), nil
}

func (d *document) descriptor() *feature.Descriptor {
	desc := &feature.Descriptor{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		Routes:      make([]feature.Route, 0, len(d.Routes)),
	}
	for _, r := range d.Routes {
		desc.Routes = append(desc.Routes, feature.Route{Path: r.Path, Title: r.Title, Primary: r.Primary})
	}
	if d.Nav != nil {
		desc.Nav = &feature.Nav{Label: d.Nav.Label, Order: d.Nav.Order}
	}
	return desc
}
