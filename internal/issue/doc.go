// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of remediation guides.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for the user. The catalog maps every diagnostic code, plus a few
// host-level failures, to Markdown guidance rendered with glamour by
// `featgen explain`.
package issue
