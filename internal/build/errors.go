// SPDX-License-Identifier: MPL-2.0

package build

import (
	"errors"
	"fmt"
	"strings"

	"github.com/featgen/featgen/internal/feature"
)

// ErrSuperseded is returned by a pass that was overtaken by a newer one
// before it could write its artifacts. Its output is discarded.
var ErrSuperseded = errors.New("pass superseded by a newer pass")

type (
	// Error is returned when a pass fails on error-severity diagnostics.
	// Diagnostics holds every diagnostic of the pass, warnings included.
	Error struct {
		Diagnostics []feature.Diagnostic
	}

	// DriftError is returned by Check when the on-disk artifacts differ from
	// what a pass would write.
	DriftError struct {
		// Paths lists the stale artifact paths, relative to the project root.
		Paths []string
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	errs := feature.Errors(e.Diagnostics)
	var sb strings.Builder
	fmt.Fprintf(&sb, "featgen pass failed with %d error(s)", len(errs))
	for _, d := range errs {
		sb.WriteString("\n  ")
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Errors returns only the error-severity diagnostics.
func (e *Error) Errors() []feature.Diagnostic {
	return feature.Errors(e.Diagnostics)
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	return fmt.Sprintf("generated artifacts are out of date: %s", strings.Join(e.Paths, ", "))
}
