// SPDX-License-Identifier: MPL-2.0

// Package build drives one featgen pass: discovery, validation and emission.
//
// Each pass moves through Idle -> Discovering -> Validating and then either
// Emitting -> Idle or Failed -> Idle. A failed pass writes nothing and returns
// a *Error carrying its diagnostics; the previous artifacts stay on disk, and
// the failure is reported through the returned error so it is never silent.
// A successful pass rewrites both artifacts atomically, skipping files whose
// bytes did not change.
package build
