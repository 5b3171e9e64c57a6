// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"errors"
	"fmt"
	"time"

	"github.com/jar2native/jar2native/internal/archive"
	"github.com/jar2native/jar2native/internal/modules"
)

// States of a packaging run, in pipeline order.
const (
	StateValidating    State = "validating"
	StateResolving     State = "resolving"
	StateImageBuilding State = "image-building"
	StateStaging       State = "staging"
	StateBundling      State = "bundling"
	StateDone          State = "done"
	StateFailed        State = "failed"
)

// ErrInvalidTransition is returned when a run is moved out of pipeline order.
var ErrInvalidTransition = errors.New("invalid state transition")

type (
	// State is the stage a packaging run is in.
	State string

	// StageError reports the stage a run failed in.
	StageError struct {
		Stage State
		Err   error
	}

	// Run is the record of one packaging attempt.
	Run struct {
		Started  time.Time
		WorkDir  string
		Archive  archive.Archive
		Modules  modules.Set
		Artifact string
		State    State
		Elapsed  time.Duration
	}
)

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the stage's underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// String returns the state name.
func (s State) String() string { return string(s) }

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateFailed
}

// next returns the state that follows s on success.
func (s State) next() (State, bool) {
	switch s {
	case StateValidating:
		return StateResolving, true
	case StateResolving:
		return StateImageBuilding, true
	case StateImageBuilding:
		return StateStaging, true
	case StateStaging:
		return StateBundling, true
	case StateBundling:
		return StateDone, true
	default:
		return "", false
	}
}

// transition moves the run to the given state. Any non-terminal state may
// fail; otherwise only the next pipeline stage is allowed.
func (r *Run) transition(to State) error {
	from := r.State
	if from.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, from)
	}
	if to == StateFailed {
		r.State = to
		return nil
	}
	if next, ok := from.next(); !ok || next != to {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	r.State = to
	return nil
}
