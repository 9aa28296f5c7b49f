// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"slices"
	"strings"

	"github.com/featgen/featgen/internal/feature"

	"github.com/charmbracelet/glamour"
)

// appName is the command name used in explain pointers.
const appName = "featgen"

// Host-level issues that are not per-feature diagnostics.
const (
	ConfigLoadFailedID  ID = "config_load_failed"
	ModulePathUnknownID ID = "module_path_unknown"
	ArtifactsStaleID    ID = "artifacts_stale"
)

type (
	// ID identifies a catalog entry. Every feature.Code is a valid ID.
	ID string

	// MarkdownMsg is the Markdown body of a guide.
	MarkdownMsg string

	// Issue is a remediation guide.
	Issue struct {
		id      ID
		summary string
		mdMsg   MarkdownMsg
	}
)

var render = glamour.Render

// IDForCode returns the catalog ID of a diagnostic code.
func IDForCode(code feature.Code) ID { return ID(code) }

// ID returns the lookup key.
func (i *Issue) ID() ID { return i.id }

// Summary returns the one-line description.
func (i *Issue) Summary() string { return i.summary }

// MarkdownMsg returns the raw Markdown guide.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// Render renders the guide for a terminal using a glamour style name or path
// ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(strings.TrimSpace(string(i.mdMsg))+"\n", stylePath)
}

// Get returns the guide for id, or nil when there is none.
func Get(id ID) *Issue {
	return issues[id]
}

// Values returns every guide sorted by ID.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, is := range issues {
		out = append(out, is)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return strings.Compare(string(a.id), string(b.id)) })
	return out
}

var issues = index(
	&Issue{
		id:      IDForCode(feature.CodeMetadataParseFailed),
		summary: "a feature metadata file could not be parsed or does not match the schema",
		mdMsg: `
# Feature metadata could not be parsed

The metadata file of a feature directory is not valid CUE, YAML or TOML, or
it does not match the feature schema.

## Required fields
- ` + "`id`" + `: lowercase kebab-case, e.g. ` + "`admin-users`" + `
- ` + "`title`" + `: non-empty string

## Optional fields
- ` + "`description`" + `
- ` + "`routes`" + `: list of ` + "`{path, title, primary}`" + `; every path starts with ` + "`/`" + `
- ` + "`nav`" + `: ` + "`{label, order}`" + `

## Example
~~~cue
id:    "billing"
title: "Billing"
routes: [{path: "/billing", title: "Billing", primary: true}]
nav: {label: "Billing", order: 20}
~~~

Unknown fields are rejected, so check the spelling of every key.`,
	},
	&Issue{
		id:      IDForCode(feature.CodeMetadataAmbiguous),
		summary: "a feature directory carries more than one metadata file",
		mdMsg: `
# More than one metadata file

A feature directory must contain exactly one of ` + "`feature.cue`" + `,
` + "`feature.yaml`" + `, ` + "`feature.yml`" + ` or ` + "`feature.toml`" + `.

## Things you can try
- Keep the file you edit and delete the others
- Prefer ` + "`feature.cue`" + ` for new features`,
	},
	&Issue{
		id:      IDForCode(feature.CodeModuleParseFailed),
		summary: "module.go has a Go syntax error",
		mdMsg: `
# module.go does not parse

The feature's ` + "`module.go`" + ` could not be parsed as Go source, so its
entrypoint cannot be checked.

## Things you can try
- Run ` + "`gofmt -l`" + ` on the feature directory to locate the error
- Fix the reported line and rerun ` + "`featgen generate`",
	},
	&Issue{
		id:      IDForCode(feature.CodeModuleEntrypointMissing),
		summary: "module.go does not declare func Module() registry.Module",
		mdMsg: `
# Module entrypoint missing

Every feature's ` + "`module.go`" + ` must declare a package-level function
that takes no parameters and returns the feature's module:

~~~go
package billing

import "github.com/featgen/featgen/pkg/registry"

func Module() registry.Module {
	return registry.ModuleFunc(func(b registry.Binder) error {
		return b.Bind("billing.service", NewService())
	})
}
~~~

Methods, generic functions and ` + "`package main`" + ` are not accepted.`,
	},
	&Issue{
		id:      IDForCode(feature.CodeDuplicateID),
		summary: "two or more features declare the same id",
		mdMsg: `
# Duplicate feature id

Feature ids must be unique across the whole feature root. The diagnostic lists
every metadata file that claims the id.

## Things you can try
- Rename one of the features
- If a directory was copied as a starting point, give the copy its own id`,
	},
	&Issue{
		id:      IDForCode(feature.CodeDuplicateRoutePath),
		summary: "a route path is claimed more than once",
		mdMsg: `
# Duplicate route path

Each route path may be declared by exactly one route in the whole project,
including twice within the same feature.

## Things you can try
- Move one of the routes under its feature's own prefix, e.g. ` + "`/billing/reports`" + `
- Remove the repeated entry from the feature's ` + "`routes`" + ` list`,
	},
	&Issue{
		id:      IDForCode(feature.CodeMultiplePrimaryRoutes),
		summary: "a feature marks more than one route as primary",
		mdMsg: `
# Multiple primary routes

At most one route per feature may set ` + "`primary: true`" + `. The primary
route is the target of the feature's navigation entry.

## Things you can try
- Keep ` + "`primary: true`" + ` on the landing route only`,
	},
	&Issue{
		id:      IDForCode(feature.CodeNavWithoutPrimary),
		summary: "a feature declares nav but no primary route",
		mdMsg: `
# Navigation entry without a primary route

A ` + "`nav`" + ` block needs a destination: exactly one of the feature's
routes must be marked ` + "`primary: true`" + `.

## Things you can try
- Mark the landing route as primary
- Remove ` + "`nav`" + ` if the feature should not appear in navigation`,
	},
	&Issue{
		id:      IDForCode(feature.CodeDuplicateNavLabel),
		summary: "two navigation entries share a label (warning)",
		mdMsg: `
# Duplicate navigation label

Two features show the same label in navigation. This is only a warning and
does not block generation, but users cannot tell the entries apart.

## Things you can try
- Give one of the entries a more specific ` + "`nav.label`",
	},
	&Issue{
		id:      ConfigLoadFailedID,
		summary: "featgen.cue could not be loaded",
		mdMsg: `
# Configuration could not be loaded

` + "`featgen.cue`" + ` in the project root (or the file passed with
` + "`--config`" + `) is not valid CUE or does not match the configuration schema.

## Example
~~~cue
feature_root: "internal/features"
registry:   {path: "internal/featureregistry/registry_gen.go", package: "featureregistry"}
aggregator: {path: "internal/featureregistry/modules_gen.go", package: "featureregistry"}
watch: {debounce: "300ms"}
hooks: {on_success: "touch .reload"}
~~~

Every setting can also be overridden from the environment with the
` + "`FEATGEN_`" + ` prefix, e.g. ` + "`FEATGEN_FEATURE_ROOT`" + `.`,
	},
	&Issue{
		id:      ModulePathUnknownID,
		summary: "the host module path could not be determined",
		mdMsg: `
# Host module path unknown

Feature import paths are derived from the ` + "`module`" + ` directive of the
project's ` + "`go.mod`" + `. It is read only when at least one feature exists.

## Things you can try
- Run featgen from the module root, or pass ` + "`--dir`" + `
- Set ` + "`module_path`" + ` in ` + "`featgen.cue`",
	},
	&Issue{
		id:      ArtifactsStaleID,
		summary: "generated artifacts differ from what featgen would write",
		mdMsg: `
# Generated artifacts are out of date

` + "`featgen check`" + ` found that the registry or aggregator on disk does not
match the current features. They were edited by hand or not regenerated after
a feature changed.

## Things you can try
~~~
$ featgen generate
~~~
Then commit the regenerated files.`,
	},
)

func index(list ...*Issue) map[ID]*Issue {
	m := make(map[ID]*Issue, len(list))
	for _, is := range list {
		m[is.id] = is
	}
	return m
}
