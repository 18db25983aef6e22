// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// interact.go implements the Interaction State Machine: a stack of modal
// Layers, the topmost of which owns input for the tick. Grounded on the
// teacher's App/Eng update-loop wiring (the deleted app.go's
// app.app.Update(app, app.input, app.state) call each tick) for the
// host/callback shape, generalized from "one fixed Director callback" to
// "whichever layer is on top of the stack handles this tick".

// EventKind distinguishes the handful of input events layers react to.
type EventKind int

const (
	EventClick EventKind = iota
	EventRightClick
	EventKeyDown
	EventCancel
)

// Event is one user input occurrence delivered to the topmost Layer.
type Event struct {
	Kind   EventKind
	Mx, My int
	Ww, Wh int // window size, needed to turn Mx/My into a ray (see HitTest).
	Key    string
}

// Layer is one entry in the Interaction State Machine's stack: the edit
// layer at the bottom, or a modal layer (PickN, PickTwoMeshPoints) pushed
// on top of it to capture input for a single multi-step operation.
type Layer interface {
	// OnEvent handles ev, returning true if it was consumed (stopping it
	// from reaching layers further down the stack, though only the top
	// layer is ever actually offered an event).
	OnEvent(g *SceneGraph, cam *PolarCamera, ev Event) bool

	// Tick advances any animation/timeout state by dt seconds.
	Tick(dt float64)

	// Draw returns this layer's contribution to the frame: typically the
	// full scene plus any modal-specific highlighting.
	Draw(g *SceneGraph, cam *PolarCamera, hovered Id) ([]Drawable, error)

	// RequestPop reports whether this layer is done and should be popped
	// off the stack before the next tick.
	RequestPop() bool
}

// InteractionStateMachine owns the layer stack and the CommitStore the
// edit layer mutates through.
type InteractionStateMachine struct {
	store *CommitStore
	stack []Layer
}

// NewInteractionStateMachine returns a machine with just the edit layer
// on the stack.
func NewInteractionStateMachine(store *CommitStore) *InteractionStateMachine {
	return &InteractionStateMachine{store: store, stack: []Layer{newEditLayer(store)}}
}

// Push adds l to the top of the stack, making it the sole recipient of
// input until it requests to be popped.
func (m *InteractionStateMachine) Push(l Layer) { m.stack = append(m.stack, l) }

// Top returns the currently active layer.
func (m *InteractionStateMachine) Top() Layer {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

// OnEvent delivers ev to the top layer only.
func (m *InteractionStateMachine) OnEvent(g *SceneGraph, cam *PolarCamera, ev Event) {
	if top := m.Top(); top != nil {
		top.OnEvent(g, cam, ev)
	}
}

// Tick advances the top layer and pops it if it has requested to finish.
// The edit layer at the bottom of the stack never requests a pop, so the
// stack is never left empty.
func (m *InteractionStateMachine) Tick(dt float64) {
	top := m.Top()
	if top == nil {
		return
	}
	top.Tick(dt)
	if top.RequestPop() && len(m.stack) > 1 {
		m.stack = m.stack[:len(m.stack)-1]
	}
}

// Draw returns the top layer's frame contribution.
func (m *InteractionStateMachine) Draw(g *SceneGraph, cam *PolarCamera, hovered Id) ([]Drawable, error) {
	top := m.Top()
	if top == nil {
		return nil, nil
	}
	return top.Draw(g, cam, hovered)
}

// editLayer is the always-present bottom layer: plain click selection and
// undo/redo keys. It never requests a pop.
type editLayer struct {
	store *CommitStore
}

func newEditLayer(store *CommitStore) *editLayer { return &editLayer{store: store} }

func (l *editLayer) OnEvent(g *SceneGraph, cam *PolarCamera, ev Event) bool {
	switch ev.Kind {
	case EventClick:
		if id, ok := HitTest(g, cam, ev.Mx, ev.My, ev.Ww, ev.Wh); ok {
			g.SelectGroup(id)
			return true
		}
		g.ClearSelection()
		return true
	case EventKeyDown:
		switch ev.Key {
		case "undo":
			l.store.Undo()
			return true
		case "redo":
			l.store.Redo()
			return true
		}
	}
	return false
}

func (l *editLayer) Tick(dt float64) {}

func (l *editLayer) Draw(g *SceneGraph, cam *PolarCamera, hovered Id) ([]Drawable, error) {
	return Emit(g, hovered)
}

func (l *editLayer) RequestPop() bool { return false }
