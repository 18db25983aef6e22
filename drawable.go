// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// drawable.go is the rendering boundary: each tick the Interaction State
// Machine's edit layer emits a []Drawable plus the current Camera, and an
// external renderer (out of scope here, per spec.md §1) draws them and
// feeds mouse input back through Camera.Ray for hit testing. Grounded on
// the teacher's camera.go (Ray/Screen CPU ray-cast math kept, see below)
// and role.go's flag-bit conventions (deleted with the rest of the render
// package) for Selected/Hovered/ChildOfHovered.

import "github.com/corvusbio/meshrig/math/lin"

// DrawFlags are bits describing how a Drawable should be highlighted,
// independent of its geometry - set by the Interaction State Machine based
// on SceneGraph selection state and the current mouse hover target.
type DrawFlags uint8

const (
	Selected DrawFlags = 1 << iota
	Hovered
	ChildOfHovered
	Faded // non-selectable while a modal layer is active; renderer applies alpha≈0.2.
)

// Drawable is everything an external renderer needs to draw one entity:
// its world transform, which mesh source to bind (empty for entities with
// no geometry of their own, like Body and Joint), and highlight flags.
type Drawable struct {
	ID     Id
	Kind   Kind
	Source string // mesh source path/handle; empty if this entity has no geometry.
	World  *lin.Xform
	Flags  DrawFlags
}

// Emit builds the per-frame Drawable list for g: Ground, every visible
// Mesh, and every Station. Bodies and Joints produce no Drawable.
// Ground/mesh visibility toggles are honored; invisible kinds are skipped
// entirely rather than emitted with a hidden flag, since there is nothing
// for a renderer to do with them.
func Emit(g *SceneGraph, hovered Id) ([]Drawable, error) {
	var out []Drawable

	if _, ok := g.TryGet(GroundId); ok && g.ShowGround() {
		out = append(out, Drawable{ID: GroundId, Kind: KindGround, World: lin.NewXform(), Flags: flagsFor(g, GroundId, hovered)})
	}

	var err error
	if g.ShowMeshes() {
		g.Iter(KindMesh, func(e Entity) {
			if err != nil {
				return
			}
			m := e.(Mesh)
			if !m.Visible {
				return
			}
			world, werr := WorldTransform(g, m.ID)
			if werr != nil {
				err = werr
				return
			}
			world.Scale.Set(m.Xform.Scale)
			out = append(out, Drawable{ID: m.ID, Kind: KindMesh, Source: m.Source, World: world, Flags: flagsFor(g, m.ID, hovered)})
		})
	}
	if err != nil {
		return nil, err
	}

	g.Iter(KindStation, func(e Entity) {
		if err != nil {
			return
		}
		s := e.(Station)
		world, werr := WorldTransform(g, s.ID)
		if werr != nil {
			err = werr
			return
		}
		out = append(out, Drawable{ID: s.ID, Kind: KindStation, World: world, Flags: flagsFor(g, s.ID, hovered)})
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func flagsFor(g *SceneGraph, id, hovered Id) DrawFlags {
	var f DrawFlags
	if g.IsSelected(id) {
		f |= Selected
	}
	if id == hovered {
		f |= Hovered
	}
	return f
}

// WorldTransform returns id's accumulated ground-space transform: for a
// Body, the pose its attaching joint places it at (see lower.go's
// attachJointRecursive for the same composition applied during export);
// for a Mesh or Station, its parent's pose (Ground, a Body, a Joint's
// parent side, or - for a Station - a Mesh, per spec.md §3.3) composed with
// the entity's own local offset, with scale preserved from the local Xform.
// Ground returns identity.
func WorldTransform(g *SceneGraph, id Id) (*lin.Xform, error) {
	if id == GroundId {
		return lin.NewXform(), nil
	}
	e, ok := g.TryGet(id)
	if !ok {
		return nil, &UnresolvedReferenceError{From: EmptyId, To: id}
	}
	switch v := e.(type) {
	case Body:
		t, err := bodyWorldTransform(g, v.ID, map[Id]bool{})
		if err != nil {
			return nil, err
		}
		return &lin.Xform{Loc: t.Loc, Rot: t.Rot, Scale: &lin.V3{X: 1, Y: 1, Z: 1}}, nil
	case Mesh:
		parentT, err := parentWorldT(g, v.ParentID)
		if err != nil {
			return nil, err
		}
		composed := lin.ComposeUnscaled(parentT, v.Xform.Unscaled())
		return &lin.Xform{Loc: composed.Loc, Rot: composed.Rot, Scale: &lin.V3{X: v.Xform.Scale.X, Y: v.Xform.Scale.Y, Z: v.Xform.Scale.Z}}, nil
	case Station:
		parentT, err := parentWorldT(g, v.ParentID)
		if err != nil {
			return nil, err
		}
		composed := lin.ComposeUnscaled(parentT, v.Xform.Unscaled())
		return &lin.Xform{Loc: composed.Loc, Rot: composed.Rot, Scale: &lin.V3{X: v.Xform.Scale.X, Y: v.Xform.Scale.Y, Z: v.Xform.Scale.Z}}, nil
	default:
		return lin.NewXform(), nil
	}
}

// parentWorldT resolves parentID's world-space transform for a Mesh or
// Station's composition (spec.md §3.3: a Mesh's parent is Ground, a Body,
// or a Joint; a Station's parent is Ground, a Body, or a Mesh). A Joint
// parent resolves to its parent-side offset frame's world pose (the same
// "parent side" lower.go's attach_joint_recursive attaches meshes to, per
// spec.md §4.4 step 5); a Mesh parent resolves through that Mesh's own
// WorldTransform; anything else falls back to bodyWorldTransform.
func parentWorldT(g *SceneGraph, parentID Id) (*lin.T, error) {
	if parentID == GroundId {
		return lin.NewT(), nil
	}
	e, ok := g.TryGet(parentID)
	if !ok {
		return nil, &UnresolvedReferenceError{From: EmptyId, To: parentID}
	}
	switch e.(type) {
	case Joint:
		return jointParentSideWorldT(g, parentID)
	case Mesh:
		x, err := WorldTransform(g, parentID)
		if err != nil {
			return nil, err
		}
		return x.Unscaled(), nil
	default:
		return bodyWorldTransform(g, parentID, map[Id]bool{})
	}
}

// jointParentSideWorldT returns a Joint's parent-side offset frame's
// ground-space pose: parentWorld ∘ parentOffset, the same composition
// lower.go's attachJointRecursive uses for "jointWorld" when it attaches
// meshes parented directly to the joint.
func jointParentSideWorldT(g *SceneGraph, jointID Id) (*lin.T, error) {
	j, ok := g.GetAsJoint(jointID)
	if !ok {
		return nil, &UnresolvedReferenceError{From: EmptyId, To: jointID}
	}
	parentWorld, err := parentWorldT(g, j.ParentID)
	if err != nil {
		return nil, err
	}
	return lin.ComposeUnscaled(parentWorld, j.ParentXform.Unscaled()), nil
}

// bodyWorldTransform walks a body's attaching joint back to ground,
// composing offsets the same way lower.go's attachJointRecursive does
// going forward: jointWorld = parentWorld ∘ parentOffset, bodyWorld =
// jointWorld ∘ inverse(childOffset). visited guards against a cycle that
// should be impossible under the body-reachability invariant.
func bodyWorldTransform(g *SceneGraph, bodyID Id, visited map[Id]bool) (*lin.T, error) {
	if bodyID == GroundId {
		return lin.NewT(), nil
	}
	if visited[bodyID] {
		return nil, &CascadeCycleError{Id: bodyID}
	}
	visited[bodyID] = true

	var joint Joint
	found := false
	for _, e := range g.All() {
		if j, ok := e.(Joint); ok && j.ChildID == bodyID {
			joint = j
			found = true
			break
		}
	}
	if !found {
		// Not used as a child in any Joint: a free-floating body placed
		// directly at its own recorded world transform (spec.md §3.4
		// invariant 4, §4.4 step 4's "direct-to-ground" case).
		b, ok := g.GetAsBody(bodyID)
		if !ok {
			return nil, &UnresolvedReferenceError{From: EmptyId, To: bodyID}
		}
		return b.Xform.Unscaled(), nil
	}

	parentWorld, err := bodyWorldTransform(g, joint.ParentID, visited)
	if err != nil {
		return nil, err
	}
	jointWorld := lin.ComposeUnscaled(parentWorld, joint.ParentXform.Unscaled())
	return lin.ComposeUnscaled(jointWorld, joint.ChildXform.Unscaled().Inverse()), nil
}
