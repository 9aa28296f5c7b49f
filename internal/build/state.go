// SPDX-License-Identifier: MPL-2.0

package build

const (
	// StateIdle means no pass is in progress.
	StateIdle State = iota
	// StateDiscovering means the feature root is being scanned.
	StateDiscovering
	// StateValidating means cross-feature rules are being checked.
	StateValidating
	// StateEmitting means artifacts are being rendered and written.
	StateEmitting
	// StateFailed means the pass failed; it returns to Idle immediately after.
	StateFailed
)

type (
	// State is a pipeline state.
	State int

	// Observer is notified of every state transition.
	Observer interface {
		OnTransition(from, to State)
	}

	// ObserverFunc adapts a function to Observer.
	ObserverFunc func(from, to State)
)

// OnTransition calls f(from, to).
func (f ObserverFunc) OnTransition(from, to State) { f(from, to) }

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateValidating:
		return "validating"
	case StateEmitting:
		return "emitting"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
