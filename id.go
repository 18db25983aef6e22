// Copyright © 2017-2018 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// id.go assigns unique identifiers to scene graph entities.
//
// Unlike the bitsquid-style allocator this is adapted from (see
// http://bitsquid.blogspot.ca/2014/08/building-data-oriented-entity-system.html),
// ids here are never recycled: once an Id is handed out it is never reused,
// even after its entity is deleted. Undo/redo and cross-references need to
// tell "this body was deleted and a new one happens to occupy the same slot"
// apart from "this is still the same body" - a recycling allocator can't make
// that distinction.

// Id uniquely identifies a scene graph entity for its lifetime, including
// after deletion: a deleted Id is never reissued to a different entity.
type Id uint64

// EmptyId refers to nothing. It is the zero value of Id, so a fresh
// xref field or map lookup miss is EmptyId without explicit initialization.
const EmptyId Id = 0

// GroundId is the one reserved, well-known id of the graph's single Ground
// entity. Ground always exists and is created before any Id allocation.
const GroundId Id = 1

// idAllocator hands out strictly increasing Ids, starting after GroundId.
// Each graph made by NewSceneGraph gets its own allocator (not a
// package-level singleton) so that two independently constructed graphs fed
// the same input in the same order allocate identical ids - required for
// import/export/import convergence. SceneGraph.Clone shares its source's
// allocator, so every snapshot along one CommitStore history draws from the
// same counter and an Id is never issued twice within it.
type idAllocator struct {
	next Id // next id to hand out.
}

// newIdAllocator returns an allocator primed to skip EmptyId and GroundId.
func newIdAllocator() *idAllocator {
	return &idAllocator{next: GroundId + 1}
}

// create returns the next unused Id. The returned Id is never EmptyId or
// GroundId and is never returned again by this allocator.
func (a *idAllocator) create() Id {
	id := a.next
	a.next++
	return id
}

// valid reports whether id could have been issued by this allocator, i.e.
// it is not EmptyId/GroundId and is within the range already handed out.
// This is a range check only: it does not mean the entity with this id
// still exists in any particular SceneGraph snapshot.
func (a *idAllocator) valid(id Id) bool {
	return id > GroundId && id < a.next
}
