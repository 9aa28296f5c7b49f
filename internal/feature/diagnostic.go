// SPDX-License-Identifier: MPL-2.0

package feature

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// SeverityWarning indicates a diagnostic that does not block emission.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a build-fatal diagnostic.
	SeverityError Severity = "error"
)

const (
	// CodeMetadataParseFailed: a metadata file exists but could not be evaluated.
	CodeMetadataParseFailed Code = "metadata_parse_failed"
	// CodeMetadataAmbiguous: a directory carries more than one metadata file.
	CodeMetadataAmbiguous Code = "metadata_ambiguous"
	// CodeModuleParseFailed: module.go has a syntax error.
	CodeModuleParseFailed Code = "module_parse_failed"
	// CodeModuleEntrypointMissing: module.go does not declare func Module() with one result.
	CodeModuleEntrypointMissing Code = "module_entrypoint_missing"
	// CodeDuplicateID: two or more features share an id.
	CodeDuplicateID Code = "duplicate_id"
	// CodeDuplicateRoutePath: a route path is claimed more than once.
	CodeDuplicateRoutePath Code = "duplicate_route_path"
	// CodeMultiplePrimaryRoutes: a feature marks more than one route primary.
	CodeMultiplePrimaryRoutes Code = "multiple_primary_routes"
	// CodeNavWithoutPrimary: a feature declares nav but no primary route.
	CodeNavWithoutPrimary Code = "nav_without_primary"
	// CodeDuplicateNavLabel: two navigation entries share a label (warning).
	CodeDuplicateNavLabel Code = "duplicate_nav_label"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")

	allCodes = []Code{
		CodeMetadataParseFailed,
		CodeMetadataAmbiguous,
		CodeModuleParseFailed,
		CodeModuleEntrypointMissing,
		CodeDuplicateID,
		CodeDuplicateRoutePath,
		CodeMultiplePrimaryRoutes,
		CodeNavWithoutPrimary,
		CodeDuplicateNavLabel,
	}
)

type (
	// Severity is the diagnostic level.
	Severity string

	// Code is a machine-readable diagnostic identifier.
	Code string

	// InvalidSeverityError is returned when a Severity value is not recognized.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a Code value is not recognized.
	InvalidDiagnosticCodeError struct {
		Value Code
	}

	// Diagnostic is a structured validation failure or warning. It carries
	// enough context (feature id, file, field) to be actionable.
	Diagnostic struct {
		// FeatureID is the feature the diagnostic is about (may be empty when the
		// metadata could not be evaluated far enough to know it).
		FeatureID string `json:"feature,omitempty"`
		// Severity is error or warning.
		Severity Severity `json:"severity"`
		// Code classifies the diagnostic.
		Code Code `json:"code"`
		// Message is the human-readable description.
		Message string `json:"message"`
		// FilePath is the slash-separated file the diagnostic points at (optional).
		FilePath string `json:"file,omitempty"`
		// Field is the offending field, JSON-path style (optional).
		Field string `json:"field,omitempty"`
		// Related lists other locations or feature ids involved in a conflict.
		Related []string `json:"related,omitempty"`
	}
)

// Error implements the error interface.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q (valid: error, warning)", e.Value)
}

// Unwrap returns ErrInvalidSeverity for errors.Is compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// Error implements the error interface.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("invalid diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }

// IsValid returns whether the Severity is one of the defined levels,
// and a list of validation errors if it is not.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityError, SeverityWarning:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// IsValid returns whether the Code is one of the defined codes,
// and a list of validation errors if it is not.
func (c Code) IsValid() (bool, []error) {
	if slices.Contains(allCodes, c) {
		return true, nil
	}
	return false, []error{&InvalidDiagnosticCodeError{Value: c}}
}

// String returns the string representation of the Code.
func (c Code) String() string { return string(c) }

// Codes returns every defined diagnostic code.
func Codes() []Code { return slices.Clone(allCodes) }

// NewError creates an error-severity diagnostic.
func NewError(code Code, featureID, message string) Diagnostic {
	return Diagnostic{Severity: SeverityError, Code: code, FeatureID: featureID, Message: message}
}

// NewWarning creates a warning-severity diagnostic.
func NewWarning(code Code, featureID, message string) Diagnostic {
	return Diagnostic{Severity: SeverityWarning, Code: code, FeatureID: featureID, Message: message}
}

// WithFile returns a copy of d pointing at path.
func (d Diagnostic) WithFile(path string) Diagnostic {
	d.FilePath = path
	return d
}

// WithField returns a copy of d pointing at field.
func (d Diagnostic) WithField(field string) Diagnostic {
	d.Field = field
	return d
}

// WithRelated returns a copy of d with the related locations set.
func (d Diagnostic) WithRelated(related ...string) Diagnostic {
	d.Related = related
	return d
}

// IsError reports whether the diagnostic is build-fatal.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// String formats the diagnostic as "<feature>: <file>: <field>: <message>",
// omitting absent parts.
func (d Diagnostic) String() string {
	parts := make([]string, 0, 4)
	if d.FeatureID != "" {
		parts = append(parts, d.FeatureID)
	}
	if d.FilePath != "" {
		parts = append(parts, d.FilePath)
	}
	if d.Field != "" {
		parts = append(parts, d.Field)
	}
	parts = append(parts, d.Message)
	return strings.Join(parts, ": ")
}

// HasErrors reports whether any diagnostic has error severity.
func HasErrors(diags []Diagnostic) bool {
	return slices.ContainsFunc(diags, Diagnostic.IsError)
}

// Errors returns the error-severity subset of diags.
func Errors(diags []Diagnostic) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.IsError() {
			out = append(out, d)
		}
	}
	return out
}
