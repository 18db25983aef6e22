// Copyright © 2024 Galvanized Logic Inc.

package rig

import (
	"testing"

	"github.com/corvusbio/meshrig/math/lin"
)

func twoPointMeshGraph(t *testing.T) *SceneGraph {
	t.Helper()
	g := NewSceneGraph()
	meshID, err := g.AddMesh("box.obj", "", GroundId, lin.NewXform())
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetMeshAABB(meshID, lin.AABB{Min: lin.V3{X: -1, Y: -1, Z: -1}, Max: lin.V3{X: 1, Y: 1, Z: 1}}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestPickTwoAcceptsOnceBothPointsSet(t *testing.T) {
	g := twoPointMeshGraph(t)
	cam := centeredCamera()

	var gotP1, gotP2 lin.V3
	calls := 0
	l := NewPickTwoMeshPoints(func(p1, p2 lin.V3) bool {
		calls++
		gotP1, gotP2 = p1, p2
		return true
	})

	if !l.OnEvent(g, cam, Event{Kind: EventClick, Mx: 400, My: 300, Ww: 800, Wh: 600}) {
		t.Fatal("expected the left click to be consumed")
	}
	if calls != 0 {
		t.Fatal("expected onTwoPoints to wait for both points")
	}
	if !l.OnEvent(g, cam, Event{Kind: EventRightClick, Mx: 400, My: 300, Ww: 800, Wh: 600}) {
		t.Fatal("expected the right click to be consumed")
	}
	if calls != 1 {
		t.Fatalf("expected onTwoPoints to be called once both points are set, got %d calls", calls)
	}
	if gotP1.Z == 0 && gotP2.Z == 0 {
		t.Fatal("expected non-zero hit points on the mesh")
	}
	if !l.RequestPop() {
		t.Fatal("expected the layer to request a pop once accepted")
	}
}

func TestPickTwoRejectClearsBothPoints(t *testing.T) {
	g := twoPointMeshGraph(t)
	cam := centeredCamera()

	calls := 0
	l := NewPickTwoMeshPoints(func(p1, p2 lin.V3) bool {
		calls++
		return false
	}).(*pickTwoLayer)

	l.OnEvent(g, cam, Event{Kind: EventClick, Mx: 400, My: 300, Ww: 800, Wh: 600})
	l.OnEvent(g, cam, Event{Kind: EventRightClick, Mx: 400, My: 300, Ww: 800, Wh: 600})
	if calls != 1 {
		t.Fatalf("expected one rejected call, got %d", calls)
	}
	if l.haveP1 || l.haveP2 {
		t.Fatal("expected both points cleared after a rejection")
	}
	if l.RequestPop() {
		t.Fatal("expected the layer to remain active after a rejection")
	}
}

func TestPickTwoMissedClickIsNotConsumed(t *testing.T) {
	g := NewSceneGraph() // no mesh to hit.
	l := NewPickTwoMeshPoints(func(p1, p2 lin.V3) bool { return true })

	if l.OnEvent(g, centeredCamera(), Event{Kind: EventClick, Mx: 400, My: 300, Ww: 800, Wh: 600}) {
		t.Fatal("expected a miss to not be consumed")
	}
}

func TestPickTwoCancelRequestsPop(t *testing.T) {
	g := twoPointMeshGraph(t)
	l := NewPickTwoMeshPoints(func(p1, p2 lin.V3) bool { return true })
	if !l.OnEvent(g, centeredCamera(), Event{Kind: EventCancel}) {
		t.Fatal("expected cancel to be consumed")
	}
	if !l.RequestPop() {
		t.Fatal("expected cancel to request a pop")
	}
}
