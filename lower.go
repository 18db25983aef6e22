// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

import (
	"sort"

	"github.com/corvusbio/meshrig/math/lin"
)

// lower.go implements the Model Lowering Procedure: walking the scene
// graph from Ground outward and emitting the equivalent external model
// via ModelRef. Grounded directly on
// original_source/src/OpenSimCreator/UI/Tabs/MeshImporterTab.cpp:
// AttachJointRecursive, AttachBodyDirectlyToGround, LookupPhysFrame,
// AddStationToModel. The original's top-level traversal is unnamed there;
// this spec calls it Lower.

// LoweringOptions configures a single Lower call. ExportStationsAsMarkers
// mirrors ModelGraphFlags in the original: a single graph-wide bit, not a
// per-station choice (Open Question 3).
type LoweringOptions struct {
	ExportStationsAsMarkers bool
}

// Lower walks g from Ground and emits the equivalent body/joint/marker
// graph into model. A Body that is never a Joint's child is welded to
// ground (see attachOrphanBodies). It fails closed: a Body that is some
// Joint's child but is not reached by the walk from Ground is a
// BodyNotReachableError, and a Joint whose child is not a Body panics
// with a *GarbageJointError (this is a fatal assertion - such a joint
// should never survive the actions.go invariants, see
// GarbageJointError's doc comment).
func Lower(g *SceneGraph, model ModelRef, opts LoweringOptions) error {
	visitedJoints := map[Id]bool{}
	visitedBodies := map[Id]BodyRef{}
	ground := model.GroundFrame()
	identity := lin.NewT()

	if err := attachOrphanBodies(g, model, ground, identity, visitedJoints, visitedBodies, opts); err != nil {
		return err
	}
	if err := attachJointRecursive(g, model, GroundId, ground, identity, visitedJoints, visitedBodies, opts); err != nil {
		return err
	}
	if err := attachMeshes(g, model, GroundId, ground, identity, opts); err != nil {
		return err
	}
	if err := attachStations(g, model, GroundId, ground, identity, opts); err != nil {
		return err
	}

	var unreached error
	g.Iter(KindBody, func(e Entity) {
		if unreached != nil {
			return
		}
		b := e.(Body)
		if _, ok := visitedBodies[b.ID]; !ok {
			unreached = &BodyNotReachableError{Body: b.ID}
		}
	})
	return unreached
}

// attachOrphanBodies implements spec.md §4.4 step 4: every Body that is
// never used as a Joint's child is not part of any kinematic chain and is
// instead welded directly to ground at its own recorded world transform
// (the Body's Xform), then registered so step 5's attach_joint_recursive
// can pick up any joints that use it as a parent.
func attachOrphanBodies(g *SceneGraph, model ModelRef, ground PhysicalFrameRef, identity *lin.T,
	visitedJoints map[Id]bool, visitedBodies map[Id]BodyRef, opts LoweringOptions) error {

	isChild := map[Id]bool{}
	for _, e := range g.All() {
		if j, ok := e.(Joint); ok {
			isChild[j.ChildID] = true
		}
	}

	var err error
	g.Iter(KindBody, func(e Entity) {
		if err != nil {
			return
		}
		b := e.(Body)
		if isChild[b.ID] {
			return
		}

		bodyRef, aerr := model.AddBody(b.Label, b.Mass)
		if aerr != nil {
			err = &LoweringError{At: b.ID, Err: aerr}
			return
		}
		visitedBodies[b.ID] = bodyRef
		bodyFrame := model.BodyFrame(bodyRef)
		world := b.Xform.Unscaled()

		groundOffset, aerr := model.AddOffsetFrame(ground, "ground_offset", toSnapshot(world))
		if aerr != nil {
			err = &LoweringError{At: b.ID, Err: aerr}
			return
		}
		bodyOffset, aerr := model.AddOffsetFrame(bodyFrame, b.Label+"_offset", toSnapshot(identity))
		if aerr != nil {
			err = &LoweringError{At: b.ID, Err: aerr}
			return
		}
		jointType, aerr := model.JointType(weldJointType)
		if aerr != nil {
			err = &LoweringError{At: b.ID, Err: aerr}
			return
		}
		if aerr := model.AddJoint(jointType, b.Label+"_to_ground", groundOffset, bodyOffset); aerr != nil {
			err = &LoweringError{At: b.ID, Err: aerr}
			return
		}

		if aerr := attachJointRecursive(g, model, b.ID, bodyFrame, world, visitedJoints, visitedBodies, opts); aerr != nil {
			err = aerr
			return
		}
		if aerr := attachMeshes(g, model, b.ID, bodyFrame, world, opts); aerr != nil {
			err = aerr
			return
		}
		if aerr := attachStations(g, model, b.ID, bodyFrame, world, opts); aerr != nil {
			err = aerr
			return
		}
	})
	return err
}

// jointsParentedAt returns every Joint whose ParentID == id, sorted by Id
// for deterministic traversal order (required for import/export/import
// convergence, testable property 8).
func jointsParentedAt(g *SceneGraph, id Id) []Joint {
	var out []Joint
	for _, e := range g.entities {
		if j, ok := e.(Joint); ok && j.ParentID == id {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// attachJointRecursive attaches every joint rooted at parentID, recursing
// into each joint's child body, exactly mirroring the original's
// AttachJointRecursive: for every joint hanging off this frame, create the
// child body, compose its offset frames (scale stripped before composing,
// per spec.md §4.4 and the design note clarifying where), add the joint,
// then recurse into the new body as the next parent frame.
func attachJointRecursive(g *SceneGraph, model ModelRef, parentID Id, parentFrame PhysicalFrameRef, parentWorld *lin.T,
	visitedJoints map[Id]bool, visitedBodies map[Id]BodyRef, opts LoweringOptions) error {

	for _, j := range jointsParentedAt(g, parentID) {
		if visitedJoints[j.ID] {
			continue
		}
		visitedJoints[j.ID] = true

		childBody, ok := g.GetAsBody(j.ChildID)
		if !ok {
			panic(&GarbageJointError{Joint: j.ID})
		}

		parentOffset := j.ParentXform.Unscaled()
		parentPhysFrame, err := model.AddOffsetFrame(parentFrame, j.Label+"_parent_offset", toSnapshot(parentOffset))
		if err != nil {
			return &LoweringError{At: j.ID, Err: err}
		}

		bodyRef, err := model.AddBody(childBody.Label, childBody.Mass)
		if err != nil {
			return &LoweringError{At: childBody.ID, Err: err}
		}
		visitedBodies[childBody.ID] = bodyRef
		childBodyFrame := model.BodyFrame(bodyRef)

		childOffset := j.ChildXform.Unscaled()
		childPhysFrame, err := model.AddOffsetFrame(childBodyFrame, j.Label+"_child_offset", toSnapshot(childOffset))
		if err != nil {
			return &LoweringError{At: j.ID, Err: err}
		}

		jointType, err := model.JointType(j.TypeIndex)
		if err != nil {
			return &LoweringError{At: j.ID, Err: err}
		}
		if err := model.AddJoint(jointType, j.Label, parentPhysFrame, childPhysFrame); err != nil {
			return &LoweringError{At: j.ID, Err: err}
		}

		// The new body's ground-space pose, used so a station/mesh two
		// levels deep composes against the right ancestor frame, and so
		// a grandchild joint's own offsets compose correctly in turn.
		jointWorld := lin.ComposeUnscaled(parentWorld, parentOffset)
		bodyWorld := lin.ComposeUnscaled(jointWorld, childOffset.Inverse())

		// Meshes parented directly to the joint itself (spec.md §3.3: a
		// Mesh's parent may be Ground, a Body, or a Joint) ride along on
		// the joint's parent-side offset frame, per spec.md §4.4 step 5.
		if err := attachMeshes(g, model, j.ID, parentPhysFrame, jointWorld, opts); err != nil {
			return err
		}

		if err := attachJointRecursive(g, model, childBody.ID, childBodyFrame, bodyWorld, visitedJoints, visitedBodies, opts); err != nil {
			return err
		}
		if err := attachMeshes(g, model, childBody.ID, childBodyFrame, bodyWorld, opts); err != nil {
			return err
		}
		if err := attachStations(g, model, childBody.ID, childBodyFrame, bodyWorld, opts); err != nil {
			return err
		}
	}
	return nil
}

// attachMeshes emits every Mesh parented directly at parentID as an
// offset frame named "<label>_frame". Only the frame is emitted: no
// geometry is attached to it, and the Mesh's Source is not passed to the
// model. Meshes have no mass and no joint in the external model; they ride along at
// whatever frame their parent body settled at. A Station may itself be
// parented to one of these meshes (spec.md §3.3), so each mesh's own
// offset frame and world pose are handed to attachStations in turn.
func attachMeshes(g *SceneGraph, model ModelRef, parentID Id, parentFrame PhysicalFrameRef, parentWorld *lin.T, opts LoweringOptions) error {
	var ids []Id
	for id, e := range g.entities {
		if m, ok := e.(Mesh); ok && m.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, k int) bool { return ids[i] < ids[k] })
	for _, id := range ids {
		m, _ := g.GetAsMesh(id)
		meshOffset := m.Xform.Unscaled()
		meshFrame, err := model.AddOffsetFrame(parentFrame, m.Label+"_frame", toSnapshot(meshOffset))
		if err != nil {
			return &LoweringError{At: id, Err: err}
		}
		meshWorld := lin.ComposeUnscaled(parentWorld, meshOffset)
		if err := attachStations(g, model, id, meshFrame, meshWorld, opts); err != nil {
			return err
		}
	}
	return nil
}

// attachStations emits every Station parented directly at parentID as a
// marker, when LoweringOptions.ExportStationsAsMarkers is set - per Open
// Question 3 this is a single graph-wide flag checked once here, not a
// per-station choice.
func attachStations(g *SceneGraph, model ModelRef, parentID Id, parentFrame PhysicalFrameRef, parentWorld *lin.T, opts LoweringOptions) error {
	if !opts.ExportStationsAsMarkers {
		return nil
	}
	var ids []Id
	for id, e := range g.entities {
		if s, ok := e.(Station); ok && s.ParentID == parentID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, k int) bool { return ids[i] < ids[k] })
	for _, id := range ids {
		s, _ := g.GetAsStation(id)
		if err := model.AddMarker(parentFrame, s.Label, toSnapshot(s.Xform.Unscaled())); err != nil {
			return &LoweringError{At: id, Err: err}
		}
	}
	return nil
}

// toSnapshot converts a *lin.T into the plain-data XformSnapshot used at
// the external.go boundary.
func toSnapshot(t *lin.T) *XformSnapshot {
	return &XformSnapshot{
		Loc: [3]float64{t.Loc.X, t.Loc.Y, t.Loc.Z},
		Rot: [4]float64{t.Rot.X, t.Rot.Y, t.Rot.Z, t.Rot.W},
	}
}

// fromSnapshot converts an XformSnapshot back into a *lin.T, ignoring any
// scale component (physical frames never carry scale).
func fromSnapshot(s *XformSnapshot) *lin.T {
	return lin.NewT().SetVQ(
		&lin.V3{X: s.Loc[0], Y: s.Loc[1], Z: s.Loc[2]},
		&lin.Q{X: s.Rot[0], Y: s.Rot[1], Z: s.Rot[2], W: s.Rot[3]},
	)
}
