// Copyright © 2013-2014 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// Input is used to communicate current user input to the Interaction
// State Machine each tick. This gives the current cursor location,
// currently pressed keys/buttons, and modifiers.
//
// The map of keys and mouse buttons that are currently pressed also
// include how long they have been pressed in update ticks. A negative
// value indicates a release. The total down duration can then be
// calculated by down duration less a released timestamp.
//
// Unlike the teacher's Input, this carries no device-layer conversion:
// the host process (outside this core's scope, see spec.md §1) fills an
// Input directly each tick rather than this type converting from a
// platform-specific pressed-key snapshot.
type Input struct {
	Mx, My  int            // Current mouse location.
	Down    map[string]int // Keys, buttons with down duration ticks.
	Focus   bool           // True if window is in focus.
	Resized bool           // True if window was resized or moved.
	Scroll  int            // Scroll amount, if any.
	Dt      float64        // Delta time used for updates.
	Gt      float64        // Game time: total number of update ticks.
}

// Tick advances game time and clears stale down-duration entries,
// expected to be called once by the host before it fills Down for the
// next tick (the teacher's convertInput did this inline with a device
// conversion; the conversion step has no place here since device polling
// is out of scope).
func (in *Input) Tick(dt float64) {
	in.Dt = dt
	in.Gt += 1
	for key := range in.Down {
		delete(in.Down, key)
	}
}
