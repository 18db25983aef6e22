// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// history.go implements CommitStore, a content-addressable tree of
// SceneGraph snapshots giving git-like undo/redo/checkout. Grounded on the
// teacher's loader.cache map-keyed-snapshot idiom (see the deleted
// loader.go) and app.update's "keep previous state for interpolation"
// pattern (povs.setPrev, also deleted) - adapted from per-frame
// double-buffering of one value to a full tree of named snapshots.

// commitId identifies one commit in the tree. Commits are never mutated
// after creation, so commitId doubles as a stable snapshot name.
type commitId uint64

// commit is one node in the history tree: a frozen graph snapshot plus a
// link to its parent. The root commit has parent == 0 (no commit is ever
// assigned id 0, so 0 unambiguously means "no parent").
type commit struct {
	id     commitId
	parent commitId
	graph  *SceneGraph
}

// CommitStore owns the full undo/redo tree for one editing session: every
// commit ever made (so redo after a branching edit can still recover a
// pruned branch via for_each_commit_unordered/checkout), plus a
// branch_head pointer decoupled from the "current" commit so checkout can
// move freely without discarding history.
type CommitStore struct {
	nextID  commitId
	commits map[commitId]*commit
	head    commitId // the commit currently checked out / being edited.
	tip     commitId // the most recent commit made via Commit (redo target).

	// LoweringOptions.ExportStationsAsMarkers is a tool preference, not
	// scene data (Open Question 3) - it lives here, not in any commit.
	exportStationsAsMarkers bool
}

// NewCommitStore returns a store with a single root commit holding an
// empty SceneGraph (just Ground).
func NewCommitStore() *CommitStore {
	return FromGraph(NewSceneGraph())
}

// FromGraph returns a store whose root commit is g (cloned, so further
// mutation of g does not alias the store's history).
func FromGraph(g *SceneGraph) *CommitStore {
	s := &CommitStore{commits: map[commitId]*commit{}}
	root := s.newCommit(0, g.Clone())
	s.head = root.id
	s.tip = root.id
	return s
}

func (s *CommitStore) newCommit(parent commitId, g *SceneGraph) *commit {
	s.nextID++
	c := &commit{id: s.nextID, parent: parent, graph: g}
	s.commits[c.id] = c
	return c
}

// Scratch returns a clone of the checked-out graph for the caller to
// mutate freely (via actions.go) before calling Commit. The caller owns
// the clone; it is not part of the store until committed.
func (s *CommitStore) Scratch() *SceneGraph {
	return s.commits[s.head].graph.Clone()
}

// Commit records g (cloned) as a new commit whose parent is the current
// head, advances head and tip to it, and returns the new commit's id.
// Any commits that were reachable via Redo from the old head but are not
// an ancestor of the new commit remain in the store (for_each_commit_unordered
// can still find them) but are no longer reachable via Undo/Redo from tip.
func (s *CommitStore) Commit(g *SceneGraph) commitId {
	c := s.newCommit(s.head, g.Clone())
	s.head = c.id
	s.tip = c.id
	return c.id
}

// Undo moves head to its parent commit and returns the resulting graph
// (a clone - callers get their own copy to edit via Scratch). Undo at the
// root commit is a no-op and returns the root's graph.
func (s *CommitStore) Undo() *SceneGraph {
	cur := s.commits[s.head]
	if cur.parent != 0 {
		s.head = cur.parent
	}
	return s.commits[s.head].graph.Clone()
}

// Redo moves head one step toward tip along the chain that was undone,
// if head is still an ancestor of tip. It is a no-op (returns the current
// graph unchanged) once head == tip or if a Commit since the last Undo
// has abandoned that chain.
func (s *CommitStore) Redo() *SceneGraph {
	if s.head == s.tip {
		return s.commits[s.head].graph.Clone()
	}
	// walk from tip back to head's child.
	next := s.tip
	for {
		c := s.commits[next]
		if c.parent == s.head {
			s.head = next
			break
		}
		if c.parent == 0 {
			break // head is not an ancestor of tip; nothing to redo.
		}
		next = c.parent
	}
	return s.commits[s.head].graph.Clone()
}

// Checkout moves head directly to id and returns its graph, without
// discarding any other commit - git-like checkout, not a truncating reset.
// Returns false if id is not a known commit.
func (s *CommitStore) Checkout(id commitId) (*SceneGraph, bool) {
	c, ok := s.commits[id]
	if !ok {
		return nil, false
	}
	s.head = id
	s.tip = id
	return c.graph.Clone(), true
}

// Head returns the id of the currently checked-out commit.
func (s *CommitStore) Head() commitId { return s.head }

// ForEachCommitUnordered calls fn once per commit ever made in this store,
// in no particular order, including commits pruned from the undo/redo
// chain by a later Commit. Used for garbage-inspection/debugging, not for
// anything order-sensitive.
func (s *CommitStore) ForEachCommitUnordered(fn func(id commitId, g *SceneGraph)) {
	for id, c := range s.commits {
		fn(id, c.graph)
	}
}

// ExportStationsAsMarkers reports the current value of the graph-wide
// lowering preference (Open Question 3: a single flag, not per-station).
func (s *CommitStore) ExportStationsAsMarkers() bool { return s.exportStationsAsMarkers }

// SetExportStationsAsMarkers updates the lowering preference. Not
// versioned by commits: it is a tool setting, like a default directory,
// not scene data subject to undo.
func (s *CommitStore) SetExportStationsAsMarkers(v bool) { s.exportStationsAsMarkers = v }
