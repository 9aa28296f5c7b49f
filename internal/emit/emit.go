// SPDX-License-Identifier: MPL-2.0

// Package emit renders the registry and aggregator artifacts.
//
// Emit is a pure function of its inputs: the same features, navigation and
// options always produce byte-identical output, so artifacts can be diffed in
// CI and rewritten only when they change.
package emit

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"text/template"

	"github.com/featgen/featgen/internal/config"
	"github.com/featgen/featgen/internal/feature"
	"github.com/featgen/featgen/pkg/registry"
)

const (
	// Header is the first line of every generated artifact.
	Header = "// Code generated by featgen. DO NOT EDIT."

	// RuntimeImportPath is the import path of the runtime contract package.
	RuntimeImportPath = registry.ImportPath
)

// ErrInvalidPackageName is returned when an artifact package name is not a Go identifier.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// Options controls artifact rendering.
	Options struct {
		// RegistryPackage is the package clause of the registry artifact.
		RegistryPackage string
		// AggregatorPackage is the package clause of the aggregator artifact.
		AggregatorPackage string
		// FeatureRoot is the slash-separated feature root relative to the
		// project root. It is trimmed from directories when deriving import aliases.
		FeatureRoot string
		// RuntimeImport overrides the runtime contract import path.
		RuntimeImport string
	}

	// Artifacts holds the rendered, gofmt-ed artifact sources.
	Artifacts struct {
		Registry   []byte
		Aggregator []byte
	}

	registryData struct {
		Header        string
		Package       string
		RuntimeImport string
		Features      []feature.Descriptor
		Navigation    feature.Navigation
	}

	aggregatorData struct {
		Header        string
		Package       string
		RuntimeImport string
		Imports       []aliasedImport
	}
)

var templates = template.Must(template.New("artifacts").Funcs(template.FuncMap{
	"quote": strconv.Quote,
	"deref": func(p *int) int { return *p },
}).Parse(registryTemplate + aggregatorTemplate))

const registryTemplate = `{{define "registry"}}{{.Header}}

package {{.Package}}

import "{{.RuntimeImport}}"

const _ = registry.ArtifactIsVersion1

// Features lists every discovered feature in discovery order.
{{- if .Features}}
var Features = []registry.Feature{
{{- range .Features}}
	{
		ID:    {{quote .ID}},
		Title: {{quote .Title}},
		{{- if .Description}}
		Description: {{quote .Description}},
		{{- end}}
		Dir: {{quote .Module.Dir}},
		{{- if .Routes}}
		Routes: []registry.Route{
		{{- range .Routes}}
			{Path: {{quote .Path}}, Title: {{quote .Title}}{{if .Primary}}, Primary: true{{end}}},
		{{- end}}
		},
		{{- end}}
	},
{{- end}}
}
{{- else}}
var Features = []registry.Feature{}
{{- end}}

// Navigation is the resolved navigation model in display order.
{{- if .Navigation}}
var Navigation = []registry.NavEntry{
{{- range .Navigation}}
	{FeatureID: {{quote .FeatureID}}, Label: {{quote .Label}}, Path: {{quote .Path}}{{with .Order}}, Order: {{deref .}}, Ordered: true{{end}}},
{{- end}}
}
{{- else}}
var Navigation = []registry.NavEntry{}
{{- end}}
{{end}}`

const aggregatorTemplate = `{{define "aggregator"}}{{.Header}}

package {{.Package}}

import (
	"{{.RuntimeImport}}"
{{- if .Imports}}
{{range .Imports}}
	{{.Alias}} {{quote .Path}}
{{- end}}
{{- end}}
)

const _ = registry.ArtifactIsVersion1

// Module composes every discovered feature module in discovery order.
{{- if .Imports}}
var Module = registry.Compose(
{{- range .Imports}}
	{{.Alias}}.Module(),
{{- end}}
)
{{- else}}
var Module = registry.Compose()
{{- end}}
{{end}}`

// Emit renders both artifacts. Navigation must already be resolved and ordered.
func Emit(features []feature.Descriptor, navigation feature.Navigation, opts Options) (*Artifacts, error) {
	opts = opts.withDefaults()
	for _, pkg := range []string{opts.RegistryPackage, opts.AggregatorPackage} {
		if !token.IsIdentifier(pkg) || pkg == "_" {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPackageName, pkg)
		}
	}

	reg, err := render("registry", registryData{
		Header:        Header,
		Package:       opts.RegistryPackage,
		RuntimeImport: opts.RuntimeImport,
		Features:      features,
		Navigation:    navigation,
	})
	if err != nil {
		return nil, err
	}

	agg, err := render("aggregator", aggregatorData{
		Header:        Header,
		Package:       opts.AggregatorPackage,
		RuntimeImport: opts.RuntimeImport,
		Imports:       assignAliases(features, opts.FeatureRoot),
	})
	if err != nil {
		return nil, err
	}

	return &Artifacts{Registry: reg, Aggregator: agg}, nil
}

func (o Options) withDefaults() Options {
	if o.RegistryPackage == "" {
		o.RegistryPackage = string(config.DefaultPackage)
	}
	if o.AggregatorPackage == "" {
		o.AggregatorPackage = string(config.DefaultPackage)
	}
	if o.RuntimeImport == "" {
		o.RuntimeImport = RuntimeImportPath
	}
	return o
}

func render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s artifact: %w", name, err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting %s artifact: %w", name, err)
	}
	return src, nil
}
