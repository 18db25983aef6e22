// Copyright © 2024 Galvanized Logic Inc.

package rig

import (
	"log/slog"
	"os"
	"testing"
)

// TestMain is called by "go test" instead of running the tests individually.
// It is used to setup and teardown state for all tests.
func TestMain(m *testing.M) {

	// configure the default logger to log everything during tests.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	m.Run() // run individual tests

	// no teardown for now.
}

type stubApp struct {
	created bool
	updates int
}

func (a *stubApp) Create(eng Eng, s *State)          { a.created = true }
func (a *stubApp) Update(eng Eng, i *Input, s *State) { a.updates++ }

func stubReader(path string) (MeshHandle, error) { return MeshHandle{Path: path}, nil }

func TestNewEngineCallsCreate(t *testing.T) {
	app := &stubApp{}
	eng := NewEngine(app, stubReader)
	defer eng.Shutdown()

	if !app.created {
		t.Fatal("expected NewEngine to call App.Create")
	}
	if eng.Graph() == nil {
		t.Fatal("expected a scene graph to be available right after creation")
	}
}

func TestEngineTickCallsUpdateAndAdvancesInteraction(t *testing.T) {
	app := &stubApp{}
	eng := NewEngine(app, stubReader)
	defer eng.Shutdown()

	eng.Tick(0)
	eng.Tick(0)
	if app.updates != 2 {
		t.Fatalf("expected 2 App.Update calls, got %d", app.updates)
	}
}

func TestEngineDrawReturnsGroundByDefault(t *testing.T) {
	app := &stubApp{}
	eng := NewEngine(app, stubReader)
	defer eng.Shutdown()

	_, _, drawables, err := eng.Draw()
	if err != nil {
		t.Fatal(err)
	}
	if len(drawables) != 1 || drawables[0].Kind != KindGround {
		t.Fatalf("expected only Ground drawable on a fresh scene, got %+v", drawables)
	}
}
