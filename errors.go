// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

import "fmt"

// errors.go collects the typed error kinds raised by the scene graph,
// commit store, and model lowering procedure. Each is a distinct type so
// callers can use errors.As to distinguish recoverable conditions (a bad
// index from a UI request) from data corruption (an unresolved reference
// that should never happen if actions.go is used correctly).

// UnresolvedReferenceError reports that an entity's cross-reference field
// points at an Id with no corresponding entity in the graph.
type UnresolvedReferenceError struct {
	From Id // the entity holding the dangling reference.
	To   Id // the id it refers to that does not exist.
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("entity %d references non-existent entity %d", e.From, e.To)
}

// CascadeCycleError reports that deleting or walking an entity's
// descendants would not terminate because the cross-reference graph
// contains a cycle.
type CascadeCycleError struct {
	Id Id // the entity where the cycle was detected.
}

func (e *CascadeCycleError) Error() string {
	return fmt.Sprintf("cross-reference cycle detected at entity %d", e.Id)
}

// BadIndexError reports an out-of-range index passed to an action, such
// as a joint type index or a mesh vertex/triangle index.
type BadIndexError struct {
	Op  string // the action that received the bad index.
	Idx int
	Len int // the valid range is [0, Len).
}

func (e *BadIndexError) Error() string {
	return fmt.Sprintf("%s: index %d out of range [0, %d)", e.Op, e.Idx, e.Len)
}

// BodyNotReachableError reports that a Body has no path back to Ground
// through Joint connections, violating the body-reachability invariant.
type BodyNotReachableError struct {
	Body Id
}

func (e *BodyNotReachableError) Error() string {
	return fmt.Sprintf("body %d is not reachable from ground via any joint chain", e.Body)
}

// GarbageJointError indicates a Joint was found attached to neither a body
// nor ground on one of its sides. This should never happen if the
// invariants are enforced on every mutating action and signals a logic
// defect in the caller rather than a recoverable user error; callers that
// detect it should panic rather than attempt to continue lowering.
type GarbageJointError struct {
	Joint Id
}

func (e *GarbageJointError) Error() string {
	return fmt.Sprintf("joint %d is attached to neither a body nor ground", e.Joint)
}

// LoweringError wraps a failure during Lower, identifying which entity
// was being processed when the failure occurred.
type LoweringError struct {
	At  Id
	Err error
}

func (e *LoweringError) Error() string {
	return fmt.Sprintf("lowering entity %d: %v", e.At, e.Err)
}

func (e *LoweringError) Unwrap() error { return e.Err }
