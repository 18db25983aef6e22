// Copyright © 2017 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// app.go holds the engine loop wiring: the App interface a host
// implements, and the application struct that owns the CommitStore, the
// Interaction State Machine, and the mesh-load worker. Update ticks run
// synchronously, one per host call to Tick; the mesh-load worker is the
// only goroutine.
// DESIGN: keep small by delegating to the Scene Graph/CommitStore/ISM.

import (
	"time"
)

// timeStepSecs is the fixed update timestep, carried from the teacher's
// own fixed-timestep convention (its bodies.stepVelocities(timeStepSecs)
// call in the deleted physics-driving update loop).
const timeStepSecs = 1.0 / 60.0

// App methods are called by the engine. It is implemented by the host
// application and registered once on engine creation:
//
//	eng := rig.NewEngine(app, meshReader)
//
// The host communicates with the engine by calling Eng methods and by
// reacting to the Drawable list/Camera/State returned each tick.
type App interface {
	Create(eng Eng, s *State) // Called once after successful startup.

	// Update allows the host to translate raw device input into Events
	// and feed them to the engine prior to the next draw.
	//    i : user input refreshed prior to each call.
	//    s : engine state refreshed prior to each call.
	Update(eng Eng, i *Input, s *State)
}

// Eng is the interface the host uses to drive the core each tick and
// read back what to draw.
type Eng interface {
	// State returns the current window rectangle and background color.
	State() *State

	// Graph returns the scene graph currently checked out (the
	// CommitStore's head), for read-only inspection by the host.
	Graph() *SceneGraph

	// Store returns the CommitStore backing this engine instance.
	Store() *CommitStore

	// Interact returns the Interaction State Machine, so the host can
	// push a modal layer (PickN, PickTwoMeshPoints) or deliver Events.
	Interact() *InteractionStateMachine

	// Draw returns this tick's renderer payload: the active camera, the
	// scene rectangle/background color, and the Drawable list.
	Draw() (*PolarCamera, *State, []Drawable, error)

	// SubmitMeshLoad queues a mesh-load request with the background
	// worker; responses are drained automatically each tick.
	SubmitMeshLoad(req MeshLoadRequest)

	// Shutdown requests the engine loop stop after the current tick.
	Shutdown()
}

// application implements Eng and drives one App through its update loop.
// One instance is created by NewEngine and passed back and forth between
// the host's update goroutine and whatever owns the process main thread.
type application struct {
	app   App
	store *CommitStore
	ism   *InteractionStateMachine
	cam   *PolarCamera
	input *Input
	state *State
	mesh  *meshLoader
	stop  bool
}

// NewEngine constructs an application wired to a fresh CommitStore and
// Interaction State Machine, starts the mesh-load worker using read for
// the (out-of-scope) actual file I/O, and calls app.Create once.
func NewEngine(app App, read MeshReader, attrs ...Attr) *application {
	cfg := configDefaults
	for _, attr := range attrs {
		attr(&cfg)
	}
	a := &application{
		app:   app,
		store: NewCommitStore(),
		cam:   NewPolarCamera(),
		input: &Input{Down: map[string]int{}, Dt: timeStepSecs},
		state: &State{Cursor: true},
		mesh:  newMeshLoader(read),
	}
	a.ism = NewInteractionStateMachine(a.store)
	a.state.setScreen(int(cfg.x), int(cfg.y), int(cfg.w), int(cfg.h))
	a.state.setColor(cfg.r, cfg.g, cfg.b, cfg.a)
	a.app.Create(a, a.state)
	return a
}

// Tick advances the application by one fixed timestep: drains any ready
// mesh-load responses, lets the host translate input into Events via
// app.Update, and advances the Interaction State Machine's top layer.
// elapsed is wall-clock time since the previous tick; this core has no
// profiling surface of its own to report it back through (see
// DESIGN.md).
func (a *application) Tick(elapsed time.Duration) {
	a.input.Tick(timeStepSecs)
	a.mesh.Drain() // guarantees the response channel never backs up; see meshload.go.
	a.app.Update(a, a.input, a.state)
	a.ism.Tick(timeStepSecs)
}

func (a *application) State() *State                     { return a.state }
func (a *application) Graph() *SceneGraph                 { return a.store.Scratch() }
func (a *application) Store() *CommitStore                { return a.store }
func (a *application) Interact() *InteractionStateMachine { return a.ism }
func (a *application) SubmitMeshLoad(req MeshLoadRequest) { a.mesh.Submit(req) }

// Draw returns the current camera, state, and the top Interaction State
// Machine layer's Drawable list, hit-testing the current cursor position
// to find the hover target (spec.md §6.1/§4.6's hover-rim flags).
func (a *application) Draw() (*PolarCamera, *State, []Drawable, error) {
	hovered, _ := HitTest(a.store.Scratch(), a.cam, a.input.Mx, a.input.My, a.state.W, a.state.H)
	drawables, err := a.ism.Draw(a.store.Scratch(), a.cam, hovered)
	return a.cam, a.state, drawables, err
}

// Shutdown stops the mesh-load worker and marks the application done;
// expected to be called once on host exit.
func (a *application) Shutdown() {
	a.stop = true
	a.mesh.Shutdown()
}
