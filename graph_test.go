// Copyright © 2024 Galvanized Logic Inc.

package rig

import (
	"testing"

	"github.com/corvusbio/meshrig/math/lin"
)

func TestNewSceneGraphHasOnlyGround(t *testing.T) {
	g := NewSceneGraph()
	if len(g.All()) != 1 {
		t.Fatalf("fresh graph should contain only Ground, got %d entities", len(g.All()))
	}
	if _, ok := g.TryGet(GroundId); !ok {
		t.Fatal("fresh graph missing GroundId")
	}
}

func TestAddMeshUnresolvedParent(t *testing.T) {
	g := NewSceneGraph()
	if _, err := g.AddMesh("femur.obj", "", Id(9999), lin.NewXform()); err == nil {
		t.Fatal("expected UnresolvedReferenceError for a bogus parent id")
	}
}

func TestDefaultLabelsAreDeterministicAcrossGraphs(t *testing.T) {
	a := NewSceneGraph()
	b := NewSceneGraph()
	idA, err := a.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	idB, err := b.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	bodyA, _ := a.GetAsBody(idA)
	bodyB, _ := b.GetAsBody(idB)
	if bodyA.Label != bodyB.Label {
		t.Fatalf("two graphs built the same way diverged: %q vs %q", bodyA.Label, bodyB.Label)
	}
}

func TestCascadeDeleteRemovesMeshesBodiesAndJoints(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	meshID, err := g.AddMesh("thigh.obj", "", bodyID, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	jointID, err := g.CreateJoint(GroundId, bodyID, "")
	if err != nil {
		t.Fatal(err)
	}

	removed, err := g.Delete(bodyID)
	if err != nil {
		t.Fatal(err)
	}
	want := map[Id]bool{bodyID: true, meshID: true, jointID: true}
	if len(removed) != len(want) {
		t.Fatalf("expected %d removed ids, got %d: %v", len(want), len(removed), removed)
	}
	for _, id := range removed {
		if !want[id] {
			t.Errorf("unexpected id removed: %d", id)
		}
	}
	for id := range want {
		if _, ok := g.TryGet(id); ok {
			t.Errorf("id %d should no longer exist after cascade delete", id)
		}
	}
}

func TestGroundCannotBeDeleted(t *testing.T) {
	g := NewSceneGraph()
	if _, err := g.Delete(GroundId); err == nil {
		t.Fatal("expected an error deleting Ground")
	}
	if _, ok := g.TryGet(GroundId); !ok {
		t.Fatal("Ground should still exist after a rejected delete")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := NewSceneGraph()
	meshID, err := g.AddMesh("pelvis.obj", "", GroundId, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	clone := g.Clone()
	if err := clone.Translate(meshID, &lin.V3{X: 1, Y: 2, Z: 3}); err != nil {
		t.Fatal(err)
	}
	orig, _ := g.GetAsMesh(meshID)
	moved, _ := clone.GetAsMesh(meshID)
	if orig.Xform.Loc.X != 0 {
		t.Fatalf("mutating the clone should not affect the original, got Loc.X=%v", orig.Xform.Loc.X)
	}
	if moved.Xform.Loc.X != 1 {
		t.Fatalf("clone should have moved, got Loc.X=%v", moved.Xform.Loc.X)
	}
}

func TestPruneDanglingJointsRemovesThem(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	jointID, err := g.CreateJoint(GroundId, bodyID, "")
	if err != nil {
		t.Fatal(err)
	}
	delete(g.entities, bodyID) // simulate a partially-built import, bypassing cascade.
	if n := g.pruneDanglingJoints(); n != 1 {
		t.Fatalf("expected 1 dangling joint removed, got %d", n)
	}
	if _, ok := g.TryGet(jointID); ok {
		t.Fatal("dangling joint should have been collected")
	}
}

func TestDeleteTombstonesUntilGarbageCollect(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.Delete(bodyID); err != nil {
		t.Fatal(err)
	}
	if len(g.tombstones) != 1 {
		t.Fatalf("expected 1 tombstoned entity after delete, got %d", len(g.tombstones))
	}
	if n := g.GarbageCollect(); n != 1 {
		t.Fatalf("expected GarbageCollect to report 1 freed entity, got %d", n)
	}
	if len(g.tombstones) != 0 {
		t.Fatal("expected the tombstone list to be empty after GarbageCollect")
	}
}

func TestCascadeDeleteCascadesFromJointChildSide(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	jointID, err := g.CreateJoint(GroundId, bodyID, "")
	if err != nil {
		t.Fatal(err)
	}
	removed, err := g.Delete(bodyID)
	if err != nil {
		t.Fatal(err)
	}
	want := map[Id]bool{bodyID: true, jointID: true}
	if len(removed) != len(want) {
		t.Fatalf("expected %d removed ids, got %d: %v", len(want), len(removed), removed)
	}
	for _, id := range removed {
		if !want[id] {
			t.Errorf("unexpected id removed: %d", id)
		}
	}
	if _, ok := g.TryGet(jointID); ok {
		t.Fatal("deleting the child body should cascade-delete the joint that attaches it")
	}
}

func TestSelectAllSelectsEveryEntity(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	meshID, err := g.AddMesh("femur.obj", "", bodyID, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	g.SelectAll()
	for _, id := range []Id{GroundId, bodyID, meshID} {
		if !g.IsSelected(id) {
			t.Errorf("expected id %d to be selected after SelectAll", id)
		}
	}
}

func TestSelectGroupSelectsMeshAndItsBody(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	meshID, err := g.AddMesh("femur.obj", "", bodyID, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	g.SelectGroup(meshID)
	if !g.IsSelected(meshID) {
		t.Fatal("expected the clicked mesh to be selected")
	}
	if !g.IsSelected(bodyID) {
		t.Fatal("expected the mesh's body to be selected as part of its selection group")
	}
}

func TestSelectGroupWithNoBodyWithinOneHopSelectsOnlyItself(t *testing.T) {
	g := NewSceneGraph()
	meshID, err := g.AddMesh("pelvis.obj", "", GroundId, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	g.SelectGroup(meshID)
	if !g.IsSelected(meshID) {
		t.Fatal("expected the clicked mesh to be selected")
	}
	if len(g.Selected()) != 1 {
		t.Fatalf("expected only the mesh selected (no Body within one hop), got %v", g.Selected())
	}
}

func TestSelection(t *testing.T) {
	g := NewSceneGraph()
	bodyID, err := g.AddBody(&lin.V3{}, EmptyId, "")
	if err != nil {
		t.Fatal(err)
	}
	g.Select(bodyID)
	if !g.IsSelected(bodyID) {
		t.Fatal("body should be selected")
	}
	g.Deselect(bodyID)
	if g.IsSelected(bodyID) {
		t.Fatal("body should no longer be selected")
	}
}
