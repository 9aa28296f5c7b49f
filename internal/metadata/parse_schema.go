// SPDX-License-Identifier: MPL-2.0

package metadata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/featgen/featgen/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed feature.schema.json
var jsonSchemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// schemaIssue is one leaf JSON Schema violation.
type schemaIssue struct {
	field   string
	message string
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonSchemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling feature schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("feature.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding feature schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("feature.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling feature schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

func parseYAML(data []byte, displayPath string) (*document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &Error{File: displayPath, Detail: fmt.Sprintf("invalid YAML: %v", err), Err: err}
	}
	return decodeNormalized(raw, displayPath)
}

func parseTOML(data []byte, displayPath string) (*document, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		detail := err.Error()
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			detail = fmt.Sprintf("%d:%d: %s", row, col, derr.Error())
		}
		return nil, &Error{File: displayPath, Detail: "invalid TOML: " + detail, Err: err}
	}
	return decodeNormalized(raw, displayPath)
}

func decodeNormalized(raw any, displayPath string) (*document, error) {
	doc, err := normalize(raw, nil)
	if err != nil {
		var terr *temporalError
		if errors.As(err, &terr) {
			return nil, &Error{File: displayPath, Field: terr.field, Detail: terr.Error(), Err: err}
		}
		return nil, &Error{File: displayPath, Detail: err.Error(), Err: err}
	}
	return decodeGeneric(doc, displayPath)
}

// decodeGeneric validates a generic document against the JSON Schema and
// decodes it into the typed shape.
func decodeGeneric(raw any, displayPath string) (*document, error) {
	if raw == nil {
		err := errors.New("empty metadata document")
		return nil, &Error{File: displayPath, Detail: err.Error(), Err: err}
	}

	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("internal error: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, &Error{File: displayPath, Detail: fmt.Sprintf("converting to JSON: %v", err), Err: err}
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, &Error{File: displayPath, Detail: fmt.Sprintf("preparing document: %v", err), Err: err}
	}

	if err := schema.Validate(inst); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return nil, &Error{File: displayPath, Detail: err.Error(), Err: err}
		}
		issues := collectIssues(verr)
		lines := make([]string, 0, len(issues))
		for _, is := range issues {
			if is.field != "" {
				lines = append(lines, is.field+": "+is.message)
			} else {
				lines = append(lines, is.message)
			}
		}
		out := &Error{File: displayPath, Detail: strings.Join(lines, "; "), Err: err}
		if len(issues) > 0 {
			out.Field = issues[0].field
		}
		return nil, out
	}

	var doc document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, &Error{File: displayPath, Detail: fmt.Sprintf("decoding metadata: %v", err), Err: err}
	}
	return &doc, nil
}

// collectIssues walks the ValidationError tree and returns the leaf issues,
// deduplicated, in tree order.
func collectIssues(ve *jsonschema.ValidationError) []schemaIssue {
	var issues []schemaIssue
	seen := make(map[schemaIssue]bool)

	var walk func(*jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			msg := v.Error()
			if v.ErrorKind != nil {
				msg = v.ErrorKind.LocalizedString(printer)
			}
			is := schemaIssue{field: cueutil.FormatPath(v.InstanceLocation), message: msg}
			if !seen[is] {
				seen[is] = true
				issues = append(issues, is)
			}
			return
		}
		for _, c := range v.Causes {
			walk(c)
		}
	}
	walk(ve)

	return issues
}

// temporalError reports a date or time literal. YAML and TOML decode these
// into time values, and encoding/json would silently turn them back into
// strings that no longer match what the author wrote.
type temporalError struct {
	field string
	value any
}

func (e *temporalError) Error() string {
	return fmt.Sprintf("%s: date/time literal %v is not allowed, quote the value", e.field, e.value)
}

// normalize converts decoder output to JSON-compatible values. path is the
// JSON-path selector list of v.
func normalize(v any, path []string) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			n, err := normalize(inner, append(path[:len(path):len(path)], k))
			if err != nil {
				return nil, err
			}
			m[k] = n
		}
		return m, nil
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, inner := range val {
			key := fmt.Sprint(k)
			n, err := normalize(inner, append(path[:len(path):len(path)], key))
			if err != nil {
				return nil, err
			}
			m[key] = n
		}
		return m, nil
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			n, err := normalize(inner, append(path[:len(path):len(path)], strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case time.Time, toml.LocalDate, toml.LocalDateTime, toml.LocalTime:
		return nil, &temporalError{field: cueutil.FormatPath(path), value: val}
	default:
		return val, nil
	}
}
