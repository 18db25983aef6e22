// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// pickn.go implements the PickN modal layer (spec.md §4.6): the user
// toggles entities from an allowed set of kinds into a chosen list; once
// must_choose entities are chosen, on_choice decides whether to accept
// (pop) or reject (clear and keep picking). Candidate entities animate in
// with an elastic-ease-out scale pop on entry. Grounded on
// phanxgames-willow's gween-based TweenGroup (see that example's
// animation.go/camera.go) for the gween.New(from, to, duration, fn) /
// Update(dt) (val, finished) shape.

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const pickEntryDuration = 0.67 // seconds, per spec.md's "elastic-ease-out scale animation over ~0.67s".

// PickNOptions configures one PickN invocation, per spec.md §4.6's option
// list.
type PickNOptions struct {
	Allow         map[Kind]bool // entity kinds eligible for picking.
	MustChoose    int           // chosen count that triggers OnChoice.
	AttachingTo   map[Id]bool   // ids excluded from candidacy (e.g. the entity being attached).
	BeingReplaced map[Id]bool   // ids excluded from candidacy (e.g. the joint side being reassigned).
	IsToward      bool          // hint for a host cursor/label; unused by the core itself.
	Header        string        // hint for a host prompt; unused by the core itself.
	OnChoice      func(ids []Id) bool
}

// pickNLayer is a modal Layer collecting exactly MustChoose picks among
// candidates, each animating in on a per-entity elastic scale tween.
type pickNLayer struct {
	opts       PickNOptions
	candidates map[Id]bool
	chosen     []Id
	tweens     map[Id]*gween.Tween
	done       bool
}

// NewPickN returns a Layer scanning g for entities matching opts.Allow
// (minus AttachingTo/BeingReplaced) as candidates, calling opts.OnChoice
// once MustChoose of them are toggled chosen.
func NewPickN(g *SceneGraph, opts PickNOptions) Layer {
	l := &pickNLayer{
		opts:       opts,
		candidates: map[Id]bool{},
		tweens:     map[Id]*gween.Tween{},
	}
	for _, e := range g.All() {
		id := e.EntityId()
		if !opts.Allow[e.EntityKind()] || opts.AttachingTo[id] || opts.BeingReplaced[id] {
			continue
		}
		l.candidates[id] = true
		l.tweens[id] = gween.New(0, 1, pickEntryDuration, ease.OutElastic)
	}
	return l
}

func (l *pickNLayer) OnEvent(g *SceneGraph, cam *PolarCamera, ev Event) bool {
	if l.done {
		return false
	}
	switch ev.Kind {
	case EventCancel:
		l.done = true
		return true
	case EventClick:
		id, ok := HitTest(g, cam, ev.Mx, ev.My, ev.Ww, ev.Wh)
		if !ok || !l.candidates[id] {
			return false
		}
		l.toggle(id)
		if len(l.chosen) == l.opts.MustChoose {
			if l.opts.OnChoice(l.chosen) {
				l.done = true
			} else {
				l.chosen = nil
			}
		}
		return true
	}
	return false
}

// toggle adds id to chosen, or removes it if already present.
func (l *pickNLayer) toggle(id Id) {
	for i, c := range l.chosen {
		if c == id {
			l.chosen = append(l.chosen[:i], l.chosen[i+1:]...)
			return
		}
	}
	l.chosen = append(l.chosen, id)
}

func (l *pickNLayer) Tick(dt float64) {
	for _, tw := range l.tweens {
		tw.Update(float32(dt))
	}
}

// Draw emits the full scene (so the edit layer's content stays visible
// underneath the modal), fading every entity that isn't a candidate and
// flagging chosen candidates as Selected.
func (l *pickNLayer) Draw(g *SceneGraph, cam *PolarCamera, hovered Id) ([]Drawable, error) {
	drawables, err := Emit(g, hovered)
	if err != nil {
		return nil, err
	}
	for i := range drawables {
		id := drawables[i].ID
		if !l.candidates[id] {
			drawables[i].Flags |= Faded
			continue
		}
		if id == hovered {
			drawables[i].Flags |= ChildOfHovered
		}
		for _, c := range l.chosen {
			if c == id {
				drawables[i].Flags |= Selected
			}
		}
	}
	return drawables, nil
}

// CandidateScale returns the current tweened scale factor (0..~1.1, since
// an elastic-out ease overshoots before settling) for a candidate entity,
// for the renderer to apply to its highlight effect.
func (l *pickNLayer) CandidateScale(id Id) float64 {
	tw, ok := l.tweens[id]
	if !ok {
		return 1
	}
	v, _ := tw.Update(0)
	return float64(v)
}

func (l *pickNLayer) RequestPop() bool { return l.done }
