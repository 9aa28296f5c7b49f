// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Feature: {
	id:           string
	title:        string
	description?: string
	routes: [...{
		path:     =~"^/"
		title:    string
		primary?: bool
	}]
}
`

type testRoute struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Primary bool   `json:"primary,omitempty"`
}

type testFeature struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Routes      []testRoute `json:"routes"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid document decodes", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
id:    "blog"
title: "Blog"
routes: [{path: "/blog", title: "Posts", primary: true}]
`)
		result, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.ID != "blog" {
			t.Errorf("ID = %q, want %q", result.Value.ID, "blog")
		}
		if len(result.Value.Routes) != 1 || !result.Value.Routes[0].Primary {
			t.Errorf("Routes = %+v, want one primary route", result.Value.Routes)
		}
		if result.Unified.Err() != nil {
			t.Errorf("unified value has error: %v", result.Unified.Err())
		}
	})

	t.Run("optional field can be omitted", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
id:    "shop"
title: "Shop"
routes: []
`)
		result, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Description != "" {
			t.Errorf("Description = %q, want empty", result.Value.Description)
		}
	})

	t.Run("invalid type returns validation error", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
id:    42
title: "Shop"
routes: []
`)
		_, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature", WithFilename("feature.cue"))
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
		}
		if verr.CUEPath != "id" {
			t.Errorf("CUEPath = %q, want %q", verr.CUEPath, "id")
		}
		if !strings.Contains(err.Error(), "feature.cue") {
			t.Errorf("error should contain filename, got: %v", err)
		}
	})

	t.Run("missing required field returns error", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
id: "shop"
routes: []
`)
		if _, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature"); err == nil {
			t.Error("expected error for missing title")
		}
	})

	t.Run("list element path uses index notation", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
id:    "blog"
title: "Blog"
routes: [{path: "blog", title: "Posts"}]
`)
		_, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature")
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
		}
		if verr.CUEPath != "routes[0].path" {
			t.Errorf("CUEPath = %q, want %q", verr.CUEPath, "routes[0].path")
		}
	})

	t.Run("syntax error is reported", func(t *testing.T) {
		t.Parallel()

		data := []byte(`id: "blog" title: `)
		_, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature", WithFilename("broken.cue"))
		if err == nil {
			t.Fatal("expected syntax error")
		}
		if !strings.Contains(err.Error(), "broken.cue") {
			t.Errorf("error should contain filename, got: %v", err)
		}
	})

	t.Run("unknown schema definition is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testFeature]([]byte(testSchema), []byte(`id: "x"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Errorf("expected internal error, got %v", err)
		}
	})
}

func TestParseAndDecode_NonConcrete(t *testing.T) {
	t.Parallel()

	schema := `
#Config: {
	feature_root?: string
	ui?: verbose?: bool
}
`
	type config struct {
		FeatureRoot string `json:"feature_root,omitempty"`
	}

	result, err := ParseAndDecode[config]([]byte(schema), []byte(`{}`), "#Config", WithConcrete(false))
	if err != nil {
		t.Fatalf("ParseAndDecode failed: %v", err)
	}
	if result.Value.FeatureRoot != "" {
		t.Errorf("FeatureRoot = %q, want empty", result.Value.FeatureRoot)
	}
}

func TestFileSizeLimit(t *testing.T) {
	t.Parallel()

	data := []byte(strings.Repeat("a", 200))
	_, err := ParseAndDecode[testFeature]([]byte(testSchema), data, "#Feature", WithMaxFileSize(100))
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if !strings.Contains(err.Error(), "exceeds maximum") {
		t.Errorf("error should mention size limit, got: %v", err)
	}
}

func TestParseAndDecodeString(t *testing.T) {
	t.Parallel()

	data := []byte(`
id:    "docs"
title: "Docs"
routes: []
`)
	result, err := ParseAndDecodeString[testFeature](testSchema, data, "#Feature")
	if err != nil {
		t.Fatalf("ParseAndDecodeString failed: %v", err)
	}
	if result.Value.Title != "Docs" {
		t.Errorf("Title = %q, want %q", result.Value.Title, "Docs")
	}
}

func TestSchema_DecodeReuse(t *testing.T) {
	t.Parallel()

	s, err := CompileSchema([]byte(testSchema), "#Feature")
	if err != nil {
		t.Fatalf("CompileSchema failed: %v", err)
	}
	if s.Name() != "#Feature" {
		t.Errorf("Name() = %q, want %q", s.Name(), "#Feature")
	}

	// A failed document must not poison later decodes against the same schema.
	if _, err := Decode[testFeature](s, []byte(`id: 1, title: "x", routes: []`)); err == nil {
		t.Fatal("expected error for non-string id")
	}

	for _, id := range []string{"blog", "shop"} {
		data := []byte(`id: "` + id + `", title: "T", routes: []`)
		result, err := Decode[testFeature](s, data)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", id, err)
		}
		if result.Value.ID != id {
			t.Errorf("ID = %q, want %q", result.Value.ID, id)
		}
	}
}

func TestCompileSchema_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := CompileSchema([]byte(`#Feature: {`), "#Feature"); err == nil || !strings.Contains(err.Error(), "internal error") {
		t.Errorf("expected internal error, got %v", err)
	}
}
