// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

import (
	"sort"
	"strconv"
)

// graph.go implements SceneGraph, a value-semantic store of entities keyed
// by Id. It is grounded on the teacher's component-manager pattern (povs,
// scenes, models in the deleted app.go) collapsed into one generic map, per
// the REDESIGN FLAGS note that one manager-per-concept is unneeded when
// there is no GPU resource behind each entity.

// SceneGraph owns all entities for one editing session: one Ground, any
// number of Mesh/Body/Joint/Station entities, plus the current selection
// and the two display-only visibility toggles.
type SceneGraph struct {
	ids      *idAllocator
	entities map[Id]Entity
	selected map[Id]bool

	showGround bool
	showMeshes bool

	classCounters map[Kind]int // per-kind counter for default labels.

	tombstones []Entity // entities removed by Delete, freed only by GarbageCollect.
}

// NewSceneGraph returns a graph containing only the Ground entity.
func NewSceneGraph() *SceneGraph {
	g := &SceneGraph{
		ids:           newIdAllocator(),
		entities:      map[Id]Entity{},
		selected:      map[Id]bool{},
		showGround:    true,
		showMeshes:    true,
		classCounters: map[Kind]int{},
	}
	g.entities[GroundId] = Ground{Base: Base{ID: GroundId, Label: "ground"}, Visible: true}
	return g
}

// TryGet returns the entity with id and true, or the zero Entity and false
// if no such entity exists.
func (g *SceneGraph) TryGet(id Id) (Entity, bool) {
	e, ok := g.entities[id]
	return e, ok
}

// GetAsMesh returns the Mesh with id, or false if id does not name a Mesh.
func (g *SceneGraph) GetAsMesh(id Id) (Mesh, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Mesh{}, false
	}
	m, ok := e.(Mesh)
	return m, ok
}

// GetAsBody returns the Body with id, or false if id does not name a Body.
func (g *SceneGraph) GetAsBody(id Id) (Body, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Body{}, false
	}
	b, ok := e.(Body)
	return b, ok
}

// GetAsJoint returns the Joint with id, or false if id does not name a Joint.
func (g *SceneGraph) GetAsJoint(id Id) (Joint, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Joint{}, false
	}
	j, ok := e.(Joint)
	return j, ok
}

// GetAsStation returns the Station with id, or false if id does not name a Station.
func (g *SceneGraph) GetAsStation(id Id) (Station, bool) {
	e, ok := g.entities[id]
	if !ok {
		return Station{}, false
	}
	s, ok := e.(Station)
	return s, ok
}

// Iter calls fn for every entity of the given kind, in ascending Id order
// (a stable order, required for deterministic lowering/export).
func (g *SceneGraph) Iter(kind Kind, fn func(Entity)) {
	ids := make([]Id, 0, len(g.entities))
	for id, e := range g.entities {
		if e.EntityKind() == kind {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fn(g.entities[id])
	}
}

// All returns every entity in ascending Id order.
func (g *SceneGraph) All() []Entity {
	ids := make([]Id, 0, len(g.entities))
	for id := range g.entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.entities[id])
	}
	return out
}

// nextLabel returns a default label for a newly created entity of kind k,
// e.g. "Body0", "Body1", ... The counter lives on SceneGraph, not a
// package-level variable, so two graphs built from identical input produce
// identical default labels (see design notes, Id allocator determinism).
func (g *SceneGraph) nextLabel(k Kind) string {
	g.classCounters[k]++
	desc := classDescs[k]
	n := g.classCounters[k]
	return sanitizeLabel(desc.singular, desc.singular) + strconv.Itoa(n-1)
}

// parentOf returns the ParentID of e for kinds that carry one, and false
// for kinds that don't (Ground, Body - a Body's placement comes from its
// attaching Joint, not a ParentID field).
func parentOf(e Entity) (Id, bool) {
	switch v := e.(type) {
	case Mesh:
		return v.ParentID, true
	case Station:
		return v.ParentID, true
	}
	return EmptyId, false
}

// children returns the ids of every entity directly parented to id: Mesh
// and Station entities whose ParentID == id, plus Joints whose ParentID or
// ChildID == id, plus (for a Body) the Body on the far side of any Joint
// rooted at id whose near side is id.
func (g *SceneGraph) children(id Id) []Id {
	var kids []Id
	for cid, e := range g.entities {
		switch v := e.(type) {
		case Mesh:
			if v.ParentID == id {
				kids = append(kids, cid)
			}
		case Station:
			if v.ParentID == id {
				kids = append(kids, cid)
			}
		case Joint:
			if v.ParentID == id {
				kids = append(kids, cid, v.ChildID)
			} else if v.ChildID == id {
				kids = append(kids, cid)
			}
		}
	}
	return kids
}

// Delete removes id and cascades to every descendant (meshes/stations
// parented to it, joints rooted at it or attaching it as a child, and the
// bodies those joints attach). Ground cannot be deleted. Returns the full
// set of ids removed, in no particular order, or a CascadeCycleError if the
// cross-reference graph does not terminate (should never happen if
// actions.go enforced the invariants on every prior mutation). Removed
// entities are not freed: they are moved into a tombstone list, dropped
// only by a later GarbageCollect (spec.md §3.5, §4.1's garbage_collect()).
func (g *SceneGraph) Delete(id Id) ([]Id, error) {
	if id == GroundId {
		return nil, &BadIndexError{Op: "delete", Idx: int(id), Len: 1}
	}
	if _, ok := g.entities[id]; !ok {
		return nil, &UnresolvedReferenceError{From: EmptyId, To: id}
	}

	visited := map[Id]bool{}
	var removed []Id
	var walk func(Id, map[Id]bool) error
	walk = func(cur Id, onPath map[Id]bool) error {
		if onPath[cur] {
			return &CascadeCycleError{Id: cur}
		}
		if visited[cur] {
			return nil
		}
		visited[cur] = true
		onPath[cur] = true
		for _, kid := range g.children(cur) {
			if err := walk(kid, onPath); err != nil {
				return err
			}
		}
		delete(onPath, cur)
		removed = append(removed, cur)
		return nil
	}
	if err := walk(id, map[Id]bool{}); err != nil {
		return nil, err
	}
	for _, rid := range removed {
		g.tombstones = append(g.tombstones, g.entities[rid])
		delete(g.entities, rid)
		delete(g.selected, rid)
	}
	return removed, nil
}

// GarbageCollect drops the tombstone list accumulated by prior Delete calls
// (spec.md §3.5's deferred tombstone list, §4.1's garbage_collect()) and
// returns how many entities were freed.
func (g *SceneGraph) GarbageCollect() int {
	n := len(g.tombstones)
	g.tombstones = nil
	return n
}

// pruneDanglingJoints removes any Joint left attached to neither a live
// body nor ground on one side (a GarbageJointError condition) and returns
// how many were removed. This is a defensive sweep distinct from
// GarbageCollect's tombstone contract: normal deletes cascade fully and
// should never leave a joint dangling, but import from an external model
// (lower_import.go) can produce a partially-resolved graph while it is
// still being built.
func (g *SceneGraph) pruneDanglingJoints() int {
	removed := 0
	for id, e := range g.entities {
		j, ok := e.(Joint)
		if !ok {
			continue
		}
		_, parentOK := g.entities[j.ParentID]
		_, childOK := g.entities[j.ChildID]
		if !parentOK || !childOK {
			delete(g.entities, id)
			delete(g.selected, id)
			removed++
		}
	}
	return removed
}

// Select adds id to the current selection. A no-op if id does not exist.
func (g *SceneGraph) Select(id Id) {
	if _, ok := g.entities[id]; ok {
		g.selected[id] = true
	}
}

// Deselect removes id from the current selection.
func (g *SceneGraph) Deselect(id Id) { delete(g.selected, id) }

// SelectAll selects every live entity, including Ground (spec.md §4.1's
// select_all()). Mirrors ClearSelection's all-or-nothing shape.
func (g *SceneGraph) SelectAll() {
	for id := range g.entities {
		g.selected[id] = true
	}
}

// groupBody returns id's selection group: the first Body reachable by
// walking id's parent chain at most one hop (spec.md §4.1's group-select
// algorithm), or EmptyId if no Body is reachable within that one hop. A
// Body is its own group body (zero hops).
func (g *SceneGraph) groupBody(id Id) Id {
	e, ok := g.entities[id]
	if !ok {
		return EmptyId
	}
	if _, ok := e.(Body); ok {
		return id
	}
	parentID, ok := parentOf(e)
	if !ok {
		return EmptyId
	}
	if _, ok := g.GetAsBody(parentID); ok {
		return parentID
	}
	return EmptyId
}

// SelectGroup selects id together with its selection group body, if it has
// one (spec.md §4.1's group-select UX: "click mesh -> select mesh + its
// body"). A no-op if id does not exist.
func (g *SceneGraph) SelectGroup(id Id) {
	if _, ok := g.entities[id]; !ok {
		return
	}
	g.Select(id)
	if b := g.groupBody(id); b != EmptyId {
		g.Select(b)
	}
}

// ClearSelection empties the current selection.
func (g *SceneGraph) ClearSelection() { g.selected = map[Id]bool{} }

// Selected returns the currently selected ids in ascending order.
func (g *SceneGraph) Selected() []Id {
	ids := make([]Id, 0, len(g.selected))
	for id := range g.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsSelected reports whether id is in the current selection.
func (g *SceneGraph) IsSelected(id Id) bool { return g.selected[id] }

// ShowGround reports the ground visibility toggle.
func (g *SceneGraph) ShowGround() bool { return g.showGround }

// ShowMeshes reports the mesh visibility toggle.
func (g *SceneGraph) ShowMeshes() bool { return g.showMeshes }

// Clone returns a deep copy of g's entities, selection, display flags and
// label counters: changing one of these in the clone never affects g and
// vice versa. The id allocator is shared rather than copied, so an Id
// created through any clone is never issued again by g or by its other
// clones. Used by CommitStore to snapshot a graph into a commit without
// aliasing the live editing graph.
func (g *SceneGraph) Clone() *SceneGraph {
	out := &SceneGraph{
		ids:           g.ids,
		entities:      make(map[Id]Entity, len(g.entities)),
		selected:      make(map[Id]bool, len(g.selected)),
		showGround:    g.showGround,
		showMeshes:    g.showMeshes,
		classCounters: make(map[Kind]int, len(g.classCounters)),
	}
	for id, e := range g.entities {
		out.entities[id] = cloneEntity(e)
	}
	for id := range g.selected {
		out.selected[id] = true
	}
	for k, v := range g.classCounters {
		out.classCounters[k] = v
	}
	if len(g.tombstones) > 0 {
		out.tombstones = make([]Entity, len(g.tombstones))
		for i, e := range g.tombstones {
			out.tombstones[i] = cloneEntity(e)
		}
	}
	return out
}

// cloneEntity returns a copy of e sharing no mutable state (pointer fields
// like *lin.Xform are deep-copied), matching the teacher's Xform.Clone
// independent-copy contract.
func cloneEntity(e Entity) Entity {
	switch v := e.(type) {
	case Ground:
		return v
	case Mesh:
		cp := v
		cp.Xform = v.Xform.Clone()
		return cp
	case Body:
		cp := v
		cp.Xform = v.Xform.Clone()
		return cp
	case Joint:
		cp := v
		cp.ParentXform = v.ParentXform.Clone()
		cp.ChildXform = v.ChildXform.Clone()
		return cp
	case Station:
		cp := v
		cp.Xform = v.Xform.Clone()
		return cp
	default:
		return e
	}
}
