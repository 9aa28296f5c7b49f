// SPDX-License-Identifier: MPL-2.0

package cmd

import "strconv"

// ExitError carries the process exit code out of a RunE handler. Main maps it
// to the return value after fang has printed Err.
//
//	0  pass succeeded
//	1  diagnostics, drift, or a host error
//	2+ the exit status of a failing hook
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
