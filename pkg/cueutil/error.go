// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strconv"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError represents a CUE evaluation or validation failure.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// CUEPath is the JSON path of the first invalid value (e.g., "routes[0].path").
	// Empty for syntax errors that are not attached to a field.
	CUEPath string

	// Messages holds one line per underlying CUE error, path-prefixed.
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Messages) == 1 {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Messages[0])
	}
	return fmt.Sprintf("%s: validation failed:\n  %s", e.FilePath, strings.Join(e.Messages, "\n  "))
}

// Detail returns the messages without the file prefix, joined by "; ".
func (e *ValidationError) Detail() string {
	return strings.Join(e.Messages, "; ")
}

// FormatError converts a CUE error into a *ValidationError with JSON-path
// prefixed messages:
//
//	internal/features/blog/feature.cue: routes[0].path: invalid value "blog" (does not match =~"^/")
//
// Errors that are not CUE errors are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	list := errors.Errors(err)
	if len(list) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	verr := &ValidationError{FilePath: filePath}
	for _, e := range list {
		field := FormatPath(errors.Path(e))
		if field == "" {
			verr.Messages = append(verr.Messages, e.Error())
			continue
		}
		if verr.CUEPath == "" {
			verr.CUEPath = field
		}
		verr.Messages = append(verr.Messages, field+": "+stripFieldPrefix(e.Error(), field))
	}
	return verr
}

// stripFieldPrefix drops the "field:" CUE sometimes repeats at the start of msg.
func stripFieldPrefix(msg, field string) string {
	rest, ok := strings.CutPrefix(msg, field)
	if !ok {
		return msg
	}
	return strings.TrimSpace(strings.TrimPrefix(rest, ":"))
}

// FormatPath converts a CUE error path (["routes", "0", "path"]) to JSON-path
// notation ("routes[0].path").
func FormatPath(path []string) string {
	var b strings.Builder
	for i, sel := range path {
		switch {
		case i > 0 && isIndex(sel):
			b.WriteString("[" + sel + "]")
		case i > 0:
			b.WriteString("." + sel)
		default:
			b.WriteString(sel)
		}
	}
	return b.String()
}

func isIndex(sel string) bool {
	n, err := strconv.Atoi(sel)
	return err == nil && n >= 0 && !strings.HasPrefix(sel, "+")
}

// CheckFileSize verifies that data does not exceed maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
