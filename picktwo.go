// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// picktwo.go implements the PickTwoMeshPoints modal layer (spec.md §4.6):
// left click sets a first world point on mesh geometry, right click sets
// a second; once both are set, OnTwoPoints decides whether to accept
// (pop) or reject (clear both points and keep picking). Grounded on the
// same Layer shape as interact.go's editLayer and pickn.go's pickNLayer, narrowed to raw
// surface points rather than entity ids since a joint offset frame
// (original_source's AttachJointRecursive) needs a location in space, not
// necessarily an entity.

import "github.com/corvusbio/meshrig/math/lin"

// PickTwoResult describes the outcome of a two-point picking session.
// pickTwoLayer does not construct one: it reports points only through its
// onTwoPoints callback, and a cancel only requests a pop.
type PickTwoResult struct {
	P1, P2    lin.V3
	HaveP1    bool
	HaveP2    bool
	Cancelled bool
}

// pickTwoLayer collects two mesh-surface points and calls onTwoPoints with the
// accept/reject contract: OnTwoPoints(p1, p2) returning false clears both
// points and keeps the layer active.
type pickTwoLayer struct {
	p1, p2      lin.V3
	haveP1      bool
	haveP2      bool
	onTwoPoints func(p1, p2 lin.V3) bool
	done        bool
}

// NewPickTwoMeshPoints returns a Layer collecting two mesh-surface points,
// calling onTwoPoints once both are set, clearing and retrying if it
// returns false.
func NewPickTwoMeshPoints(onTwoPoints func(p1, p2 lin.V3) bool) Layer {
	return &pickTwoLayer{onTwoPoints: onTwoPoints}
}

func (l *pickTwoLayer) OnEvent(g *SceneGraph, cam *PolarCamera, ev Event) bool {
	if l.done {
		return false
	}
	switch ev.Kind {
	case EventCancel:
		l.done = true
		return true
	case EventClick:
		_, p, ok := HitTestPoint(g, cam, ev.Mx, ev.My, ev.Ww, ev.Wh)
		if !ok {
			return false
		}
		l.p1, l.haveP1 = p, true
		l.tryComplete()
		return true
	case EventRightClick:
		_, p, ok := HitTestPoint(g, cam, ev.Mx, ev.My, ev.Ww, ev.Wh)
		if !ok {
			return false
		}
		l.p2, l.haveP2 = p, true
		l.tryComplete()
		return true
	}
	return false
}

func (l *pickTwoLayer) tryComplete() {
	if !l.haveP1 || !l.haveP2 {
		return
	}
	if l.onTwoPoints(l.p1, l.p2) {
		l.done = true
		return
	}
	l.haveP1, l.haveP2 = false, false
}

func (l *pickTwoLayer) Tick(dt float64) {}

// Draw emits the full scene; this layer adds no highlighting of its own
// since candidacy is "any mesh surface point" rather than a fixed id set.
func (l *pickTwoLayer) Draw(g *SceneGraph, cam *PolarCamera, hovered Id) ([]Drawable, error) {
	return Emit(g, hovered)
}

func (l *pickTwoLayer) RequestPop() bool { return l.done }
