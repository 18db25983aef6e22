// Copyright © 2015-2016 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// state.go exposes the engine-wide, non-scene state the host needs each
// tick to set up its render target: the scene rectangle and background
// color (spec.md §6.1). CullBacks/Blend/Mute are GPU/audio render-pass
// toggles the teacher carried here; this core has no renderer of its own
// so they are dropped rather than carried along unused (see DESIGN.md).

// State communicates the current window rectangle and background color.
// Refreshed each tick and handed to the Interaction State Machine
// alongside Input.
type State struct {
	X, Y, W, H int     // Window lower left corner and size in pixels.
	R, G, B, A float32 // Background clear color.
	Cursor     bool    // True when cursor is visible.
	FullScreen bool    // True when window is full screen.
}

// Screen is a convenience method returning the current window dimensions.
func (s *State) Screen() (x, y, w, h int) { return s.X, s.Y, s.W, s.H }

// Internal convenience methods.
func (s *State) setScreen(x, y, w, h int)    { s.X, s.Y, s.W, s.H = x, y, w, h }
func (s *State) setColor(r, g, b, a float32) { s.R, s.G, s.B, s.A = r, g, b, a }
