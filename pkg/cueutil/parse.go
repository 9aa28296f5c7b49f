// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

type (
	// Schema is a compiled CUE definition that documents are unified with.
	// A Schema owns its cue.Context and is not safe for concurrent use.
	Schema struct {
		ctx  *cue.Context
		def  cue.Value
		name string
	}

	// ParseResult contains the result of a successful CUE parse operation.
	ParseResult[T any] struct {
		// Value is the decoded Go struct.
		Value *T

		// Unified is the unified CUE value.
		Unified cue.Value
	}
)

// CompileSchema compiles src and selects the definition at path (e.g. "#Feature").
// Failures here are programming errors in the embedded schema, not user errors.
func CompileSchema(src []byte, path string) (*Schema, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(src)
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", err)
	}
	def := root.LookupPath(cue.ParsePath(path))
	if err := def.Err(); err != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", path, err)
	}
	return &Schema{ctx: ctx, def: def, name: path}, nil
}

// Name returns the definition path the schema was compiled with.
func (s *Schema) Name() string { return s.name }

// Decode unifies data with the schema, validates the result and decodes it
// into T. User errors are returned as *ValidationError.
func Decode[T any](s *Schema, data []byte, opts ...Option) (*ParseResult[T], error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if err := CheckFileSize(data, options.maxFileSize, options.filename); err != nil {
		return nil, err
	}

	doc := s.ctx.CompileBytes(data, cue.Filename(options.filename))
	if err := doc.Err(); err != nil {
		return nil, FormatError(err, options.filename)
	}

	unified := s.def.Unify(doc)
	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, options.filename)
	}

	out := new(T)
	if err := unified.Decode(out); err != nil {
		return nil, FormatError(err, options.filename)
	}
	return &ParseResult[T]{Value: out, Unified: unified}, nil
}

// ParseAndDecode compiles schema and decodes data against the definition at
// schemaPath in one step. Callers decoding many documents against the same
// schema should use CompileSchema and Decode instead.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	s, err := CompileSchema(schema, schemaPath)
	if err != nil {
		return nil, err
	}
	return Decode[T](s, data, opts...)
}

// ParseAndDecodeString is ParseAndDecode with the schema given as a string.
func ParseAndDecodeString[T any](schema string, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	return ParseAndDecode[T]([]byte(schema), data, schemaPath, opts...)
}
