// SPDX-License-Identifier: MPL-2.0

// Package discovery walks the feature root and turns every discoverable
// directory into a feature.Descriptor.
//
// A directory is discoverable when it holds exactly one metadata file
// (feature.cue, feature.yaml, feature.yml or feature.toml) and a module.go
// declaring func Module(). Directories that have only one of the two are
// skipped without a diagnostic. Broken units are reported as diagnostics and
// scanning continues, so a single pass reports every problem in the tree.
//
// File organization:
//   - discovery.go: Discoverer, options and the Discover entry point
//   - discovery_files.go: the directory walk and per-directory classification
//   - module.go: module.go inspection with go/parser
//   - modpath.go: host module path resolution from go.mod
package discovery
