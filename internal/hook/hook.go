// SPDX-License-Identifier: MPL-2.0

// Package hook runs the on_success and on_failure shell snippets configured
// for a project.
//
// Snippets run in-process with the mvdan.cc/sh POSIX interpreter, so hooks
// behave the same on every platform and need no system shell. The snippet's
// working directory is the project root, and the pass outcome is exposed
// through FEATGEN_* environment variables.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// EventSuccess is the hook event for a pass that wrote or confirmed artifacts.
	EventSuccess Event = "success"
	// EventFailure is the hook event for a pass that failed.
	EventFailure Event = "failure"
)

var (
	// ErrInvalidEvent is returned for an unknown Event value.
	ErrInvalidEvent = errors.New("invalid hook event")
	// ErrSyntax is returned when a snippet does not parse.
	ErrSyntax = errors.New("hook syntax error")
)

type (
	// Event identifies which configured hook runs.
	Event string

	// Outcome describes the pass the hook reports on.
	Outcome struct {
		// Features is the number of discovered features.
		Features int
		// Changed lists the artifact paths that were rewritten.
		Changed []string
		// Errors is the number of error diagnostics.
		Errors int
	}

	// Runner executes hook snippets.
	Runner struct {
		dir    string
		env    []string
		stdout io.Writer
		stderr io.Writer
	}

	// Option configures a Runner.
	Option func(*Runner)

	// ExitError reports a hook that ran but exited non-zero.
	ExitError struct {
		Event Event
		Code  int
	}
)

// IsValid returns whether the event is one of the defined values.
func (e Event) IsValid() (bool, []error) {
	switch e {
	case EventSuccess, EventFailure:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidEvent, string(e))}
	}
}

// String returns the event name.
func (e Event) String() string { return string(e) }

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("on_%s hook exited with status %d", e.Event, e.Code)
}

// WithOutput sets the hook's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(r *Runner) {
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithEnv replaces the base environment. Defaults to os.Environ().
func WithEnv(env []string) Option {
	return func(r *Runner) { r.env = env }
}

// NewRunner creates a Runner that executes snippets in dir.
func NewRunner(dir string, opts ...Option) *Runner {
	r := &Runner{
		dir:    dir,
		env:    os.Environ(),
		stdout: io.Discard,
		stderr: io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Check parses script without running it.
func Check(script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "hook"); err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}
	return nil
}

// Run executes script for event. An empty script is a no-op. A non-zero exit
// is returned as *ExitError.
func (r *Runner) Run(ctx context.Context, event Event, script string, outcome Outcome) error {
	if isValid, errs := event.IsValid(); !isValid {
		return errs[0]
	}
	if strings.TrimSpace(script) == "" {
		return nil
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "on_"+string(event))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	runner, err := interp.New(
		interp.Dir(r.dir),
		interp.Env(expand.ListEnviron(r.environ(event, outcome)...)),
		interp.StdIO(nil, r.stdout, r.stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ExitError{Event: event, Code: int(status)}
		}
		return fmt.Errorf("on_%s hook failed: %w", event, err)
	}
	return nil
}

func (r *Runner) environ(event Event, outcome Outcome) []string {
	changed := append([]string(nil), outcome.Changed...)
	sort.Strings(changed)

	env := make([]string, 0, len(r.env)+4)
	env = append(env, r.env...)
	return append(env,
		"FEATGEN_EVENT="+string(event),
		"FEATGEN_FEATURES="+strconv.Itoa(outcome.Features),
		"FEATGEN_ERRORS="+strconv.Itoa(outcome.Errors),
		"FEATGEN_CHANGED="+strings.Join(changed, " "),
	)
}
