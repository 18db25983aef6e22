// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

import (
	"sort"

	"github.com/corvusbio/meshrig/math/lin"
)

// lower_import.go implements Inverse Lowering: reconstructing a
// SceneGraph from an external model, the reverse of Lower. Grounded on
// TryInclusiveRecurseToBodyOrGround in
// original_source/src/OpenSimCreator/UI/Tabs/MeshImporterTab.cpp, which
// resolves an arbitrary physical frame back to the body (or ground) that
// owns it so a joint/marker found on that frame attaches to the right
// scene graph entity. Import is inherently lossy (spec.md §4.5): geometry,
// mesh sources, and anything the external model format doesn't carry are
// not recovered.
func Import(model ModelRef) (*SceneGraph, error) {
	g := NewSceneGraph()
	bodyIDs := map[BodyRef]Id{} // external body -> new scene graph Id.

	bodies := model.Bodies()
	sort.Slice(bodies, func(i, k int) bool { return model.BodyName(bodies[i]) < model.BodyName(bodies[k]) })

	// Bodies may be returned in any order and a body's parent might not
	// have been created yet; resolve each recursively, same as the
	// original walking up from an arbitrary frame until it hits a body
	// already known or ground.
	var resolve func(b BodyRef) (Id, error)
	resolving := map[BodyRef]bool{}
	resolve = func(b BodyRef) (Id, error) {
		if id, ok := bodyIDs[b]; ok {
			return id, nil
		}
		if resolving[b] {
			return EmptyId, &CascadeCycleError{Id: EmptyId}
		}
		resolving[b] = true
		defer delete(resolving, b)

		id, err := g.AddBody(&lin.V3{}, EmptyId, model.BodyName(b))
		if err != nil {
			return EmptyId, err
		}
		body, _ := g.GetAsBody(id)
		body.Mass = model.BodyMass(b)
		g.entities[id] = body
		bodyIDs[b] = id

		parentFrame, childFrame, jointType, ok := model.JointOf(b)
		if !ok {
			// attached directly to ground.
			if _, err := g.CreateJoint(GroundId, id, ""); err != nil {
				return EmptyId, err
			}
			return id, nil
		}

		parentID := GroundId
		if owner, isBody := model.FrameOwner(parentFrame); isBody {
			resolved, err := resolve(owner)
			if err != nil {
				return EmptyId, err
			}
			parentID = resolved
		}

		jointID, err := g.CreateJoint(parentID, id, "")
		if err != nil {
			return EmptyId, err
		}
		if err := g.SetJointType(jointID, model.JointTypeIndex(jointType)); err != nil {
			return EmptyId, err
		}
		j, _ := g.GetAsJoint(jointID)
		j.ParentXform = fromSnapshotScaled(model.FrameXform(parentFrame))
		j.ChildXform = fromSnapshotScaled(model.FrameXform(childFrame))
		g.entities[jointID] = j
		return id, nil
	}

	for _, b := range bodies {
		if _, err := resolve(b); err != nil {
			return nil, err
		}
	}

	for _, m := range model.Markers() {
		parentID := GroundId
		if owner, isBody := model.FrameOwner(m.Parent); isBody {
			id, ok := bodyIDs[owner]
			if !ok {
				return nil, &UnresolvedReferenceError{From: EmptyId, To: EmptyId}
			}
			parentID = id
		}
		if _, err := g.AddStationAt(parentID, fromSnapshotScaled(m.Xform), m.Name); err != nil {
			return nil, err
		}
	}

	if removed := g.pruneDanglingJoints(); removed > 0 {
		return nil, &LoweringError{At: EmptyId, Err: &GarbageJointError{Joint: EmptyId}}
	}
	return g, nil
}

// fromSnapshotScaled converts an XformSnapshot to a *lin.Xform with unit
// scale: the external model never carries scale on physical frames, so
// import always produces unscaled entities (a user can rescale after).
func fromSnapshotScaled(s *XformSnapshot) *lin.Xform {
	t := fromSnapshot(s)
	return &lin.Xform{Loc: t.Loc, Rot: t.Rot, Scale: &lin.V3{X: 1, Y: 1, Z: 1}}
}
