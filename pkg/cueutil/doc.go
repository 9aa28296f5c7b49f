// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// Feature metadata and the featgen configuration file are both CUE documents
// checked against an embedded schema. The parse flow is always the same:
//
// compile the embedded schema, unify the document with one of its
// definitions, then validate and decode into a Go struct.
//
// # Usage
//
//	//go:embed feature_schema.cue
//	var schemaSrc []byte
//
//	schema, err := cueutil.CompileSchema(schemaSrc, "#Feature")
//	if err != nil {
//	    return nil, err // broken embedded schema
//	}
//	result, err := cueutil.Decode[featureDoc](schema, data,
//	    cueutil.WithFilename("internal/features/blog/feature.cue"))
//	if err != nil {
//	    return nil, err // *ValidationError with the offending field path
//	}
//	return result.Value, nil
//
// ParseAndDecode does both steps for one-off documents such as featgen.cue.
package cueutil
