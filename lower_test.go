// Copyright © 2024 Galvanized Logic Inc.

package rig

import (
	"testing"

	"github.com/corvusbio/meshrig/math/lin"
)

func TestLowerSimpleChain(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "femur")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := g.GetAsBody(bodyID)
	body.Mass = 2.5
	g.entities[bodyID] = body
	if _, err := g.CreateJoint(GroundId, bodyID, "hip"); err != nil {
		t.Fatal(err)
	}

	model := newFakeModel()
	if err := Lower(g, model, LoweringOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(model.bodies) != 1 {
		t.Fatalf("expected 1 lowered body, got %d", len(model.bodies))
	}
	if model.bodies[0].name != "femur" || model.bodies[0].mass != 2.5 {
		t.Fatalf("lowered body mismatch: %+v", model.bodies[0])
	}
	if len(model.joints) != 1 {
		t.Fatalf("expected 1 lowered joint, got %d", len(model.joints))
	}
}

func TestLowerWeldsOrphanBodyDirectlyToGround(t *testing.T) {
	g := NewSceneGraph()
	if _, err := g.AddBody(&lin.V3{X: 1, Y: 2, Z: 3}, EmptyId, "orphan"); err != nil {
		t.Fatal(err)
	}

	model := newFakeModel()
	if err := Lower(g, model, LoweringOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(model.bodies) != 1 || model.bodies[0].name != "orphan" {
		t.Fatalf("expected the orphan body to be lowered on its own, got %+v", model.bodies)
	}
	if len(model.joints) != 1 {
		t.Fatalf("expected 1 weld-to-ground joint, got %d", len(model.joints))
	}
}

func TestLowerRejectsUnreachableBody(t *testing.T) {
	g := NewSceneGraph()
	a := g.ids.create()
	b := g.ids.create()
	g.entities[a] = Body{Base: Base{ID: a, Label: "a"}, Mass: 1, Xform: lin.NewXform()}
	g.entities[b] = Body{Base: Base{ID: b, Label: "b"}, Mass: 1, Xform: lin.NewXform()}
	j1 := g.ids.create()
	j2 := g.ids.create()
	g.entities[j1] = Joint{Base: Base{ID: j1, Label: "j1"}, ParentID: a, ChildID: b, ParentXform: lin.NewXform(), ChildXform: lin.NewXform()}
	g.entities[j2] = Joint{Base: Base{ID: j2, Label: "j2"}, ParentID: b, ChildID: a, ParentXform: lin.NewXform(), ChildXform: lin.NewXform()}

	model := newFakeModel()
	err := Lower(g, model, LoweringOptions{})
	if err == nil {
		t.Fatal("expected BodyNotReachableError")
	}
	if _, ok := err.(*BodyNotReachableError); !ok {
		t.Fatalf("expected *BodyNotReachableError, got %T", err)
	}
}

func TestLowerAttachesMeshParentedDirectlyToJoint(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "femur")
	if err != nil {
		t.Fatal(err)
	}
	jointID, err := g.CreateJoint(GroundId, bodyID, "hip")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddMesh("socket.obj", "socket", jointID, lin.NewXform()); err != nil {
		t.Fatal(err)
	}

	model := newFakeModel()
	if err := Lower(g, model, LoweringOptions{}); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, f := range model.frames {
		if f.name == "socket_frame" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a mesh parented to a joint to be lowered as an offset frame")
	}
}

func TestLowerAttachesStationParentedToMesh(t *testing.T) {
	g := NewSceneGraph()
	meshID, err := g.AddMesh("pelvis.obj", "pelvis", GroundId, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddStationAt(meshID, lin.NewXform(), "asis"); err != nil {
		t.Fatal(err)
	}

	model := newFakeModel()
	if err := Lower(g, model, LoweringOptions{ExportStationsAsMarkers: true}); err != nil {
		t.Fatal(err)
	}
	if len(model.markers) != 1 || model.markers[0].Name != "asis" {
		t.Fatalf("expected the station parented to a mesh to be lowered as 1 marker, got %+v", model.markers)
	}
}

func TestLowerStationsAsMarkersFlag(t *testing.T) {
	g := NewSceneGraph()
	if _, err := g.AddStationAt(GroundId, lin.NewXform(), "origin_marker"); err != nil {
		t.Fatal(err)
	}

	model := newFakeModel()
	if err := Lower(g, model, LoweringOptions{ExportStationsAsMarkers: false}); err != nil {
		t.Fatal(err)
	}
	if len(model.markers) != 0 {
		t.Fatal("stations should not be exported as markers when the flag is off")
	}

	model2 := newFakeModel()
	if err := Lower(g, model2, LoweringOptions{ExportStationsAsMarkers: true}); err != nil {
		t.Fatal(err)
	}
	if len(model2.markers) != 1 {
		t.Fatalf("expected 1 marker, got %d", len(model2.markers))
	}
}
