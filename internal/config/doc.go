// SPDX-License-Identifier: MPL-2.0

// Package config loads project configuration using Viper with CUE as the file format.
//
// Configuration is read from featgen.cue in the project root, or from the file
// passed with --config. The file is validated against the embedded #Config
// schema (config_schema.cue) and merged over the defaults. Every key can be
// overridden from the environment with the FEATGEN_ prefix, dots replaced by
// underscores (FEATGEN_REGISTRY_PATH).
//
// Constraints CUE cannot express, such as artifact path collisions or hook
// syntax, are checked by Config.IsValid after decoding.
package config
