// SPDX-License-Identifier: MPL-2.0

// Package feature defines the shared types of a compilation pass: the feature
// descriptors produced by discovery, the structured diagnostics produced by
// discovery and validation, and the resolved navigation model.
package feature
