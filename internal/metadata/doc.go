// SPDX-License-Identifier: MPL-2.0

// Package metadata evaluates feature metadata declarations.
//
// A feature directory declares its metadata in exactly one of:
//
//   - feature.cue: evaluated with CUE against the embedded #Feature schema
//   - feature.yaml / feature.yml: decoded as YAML, checked against the embedded JSON Schema
//   - feature.toml: decoded as TOML, checked against the same JSON Schema
//
// All formats decode to the same document and yield a feature.Descriptor
// without its source location and module reference, which discovery fills in.
package metadata
