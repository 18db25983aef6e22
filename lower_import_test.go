// Copyright © 2024 Galvanized Logic Inc.

package rig

import (
	"testing"

	"github.com/corvusbio/meshrig/math/lin"
)

func TestImportReconstructsBodiesAndJoints(t *testing.T) {
	model := newFakeModel()
	groundFrame := model.GroundFrame()

	femur := &fakeBody{name: "femur", mass: 1.5}
	model.bodies = append(model.bodies, femur)
	femurOrigin := model.BodyFrame(femur)
	parentOffset, _ := model.AddOffsetFrame(groundFrame, "hip_parent", &XformSnapshot{Rot: [4]float64{0, 0, 0, 1}})
	childOffset, _ := model.AddOffsetFrame(femurOrigin, "hip_child", &XformSnapshot{Rot: [4]float64{0, 0, 0, 1}})
	proto, _ := model.JointType(weldJointType)
	model.joints = append(model.joints, &fakeJoint{
		proto:  proto.(*fakeJointProto),
		name:   "hip",
		parent: parentOffset.(*fakeFrame),
		child:  childOffset.(*fakeFrame),
	})

	g, err := Import(model)
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	g.Iter(KindBody, func(e Entity) {
		b := e.(Body)
		if b.Label == "femur" && b.Mass == 1.5 {
			found = true
		}
	})
	if !found {
		t.Fatal("expected an imported body named femur with mass 1.5")
	}

	var jointCount int
	g.Iter(KindJoint, func(e Entity) { jointCount++ })
	if jointCount != 1 {
		t.Fatalf("expected 1 imported joint, got %d", jointCount)
	}
}

func TestImportBodyDirectlyOnGround(t *testing.T) {
	model := newFakeModel()
	pelvis := &fakeBody{name: "pelvis", mass: 3}
	model.bodies = append(model.bodies, pelvis)
	// no joint recorded for pelvis: JointOf returns ok=false, so import
	// attaches it directly to ground, mirroring AttachBodyDirectlyToGround.

	g, err := Import(model)
	if err != nil {
		t.Fatal(err)
	}
	var jointToGround bool
	g.Iter(KindJoint, func(e Entity) {
		j := e.(Joint)
		if j.ParentID == GroundId {
			jointToGround = true
		}
	})
	if !jointToGround {
		t.Fatal("expected a joint directly to ground for a body with no JointOf entry")
	}
}

func TestImportMarkers(t *testing.T) {
	model := newFakeModel()
	model.markers = append(model.markers, ImportedMarker{
		Name:   "landmark",
		Parent: model.GroundFrame(),
		Xform:  &XformSnapshot{Rot: [4]float64{0, 0, 0, 1}},
	})

	g, err := Import(model)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	g.Iter(KindStation, func(e Entity) {
		s := e.(Station)
		if s.Label == "landmark" {
			found = true
		}
	})
	if !found {
		t.Fatal("expected an imported station named landmark")
	}
}

func TestLowerThenImportRoundTripsBodyCount(t *testing.T) {
	g := NewSceneGraph()
	hip, err := g.AddBody(&lin.V3{}, EmptyId, "pelvis")
	if err != nil {
		t.Fatal(err)
	}
	knee, err := g.AddBody(&lin.V3{}, EmptyId, "femur")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateJoint(GroundId, hip, "hip_joint"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.CreateJoint(hip, knee, "knee_joint"); err != nil {
		t.Fatal(err)
	}

	model := newFakeModel()
	if err := Lower(g, model, LoweringOptions{}); err != nil {
		t.Fatal(err)
	}

	reimported, err := Import(model)
	if err != nil {
		t.Fatal(err)
	}
	var bodyCount int
	reimported.Iter(KindBody, func(e Entity) { bodyCount++ })
	if bodyCount != 2 {
		t.Fatalf("expected 2 bodies to round-trip, got %d", bodyCount)
	}
}
