// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// hittest.go implements the core's own CPU ray/mesh hit testing (spec.md
// §6.1: "The core uses the rectangle plus the mouse position to do its
// own CPU ray/mesh hit tests"), grounded on camera.go's Ray method (kept
// from the teacher, see its bookofhook.com/mousepick.pdf references) and
// the AABB type added to math/lin for this purpose.

import "github.com/corvusbio/meshrig/math/lin"

// HitTest casts a ray from cam through the mouse position (mx, my) within
// a ww x wh window and returns the nearest visible Mesh's Id it
// intersects, testing against each mesh's world-space AABB. Returns false
// if nothing is hit.
func HitTest(g *SceneGraph, cam *PolarCamera, mx, my, ww, wh int) (Id, bool) {
	id, _, ok := HitTestPoint(g, cam, mx, my, ww, wh)
	return id, ok
}

// HitTestPoint is HitTest plus the world-space point the ray first
// crosses the hit mesh's AABB, needed by modal layers (picktwo.go) that
// read off a surface point rather than just an entity Id.
func HitTestPoint(g *SceneGraph, cam *PolarCamera, mx, my, ww, wh int) (Id, lin.V3, bool) {
	ox, oy, oz := cam.resolve(ww, wh).Location()
	origin := lin.V3{X: ox, Y: oy, Z: oz}
	dx, dy, dz := cam.Ray(mx, my, ww, wh)
	dir := lin.V3{X: dx, Y: dy, Z: dz}

	var best Id
	bestT := 0.0
	found := false

	g.Iter(KindMesh, func(e Entity) {
		m := e.(Mesh)
		if !m.Visible || m.AABB.IsEmpty() {
			return
		}
		world, err := WorldTransform(g, m.ID)
		if err != nil {
			return
		}
		box := transformAABB(m.AABB, world)
		if t, ok := rayAABB(origin, dir, box); ok {
			if !found || t < bestT {
				found, bestT, best = true, t, m.ID
			}
		}
	})
	if !found {
		return EmptyId, lin.V3{}, false
	}
	point := lin.V3{X: origin.X + dir.X*bestT, Y: origin.Y + dir.Y*bestT, Z: origin.Z + dir.Z*bestT}
	return best, point, true
}

// transformAABB returns the world-space AABB enclosing local, transformed
// by xform (all 8 corners transformed, then unioned - the standard way to
// bound a rotated box without overestimating more than necessary).
func transformAABB(local lin.AABB, xform *lin.Xform) lin.AABB {
	out := lin.Empty()
	corners := [8]lin.V3{
		{X: local.Min.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Min.Z},
		{X: local.Min.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Min.Y, Z: local.Max.Z},
		{X: local.Min.X, Y: local.Max.Y, Z: local.Max.Z},
		{X: local.Max.X, Y: local.Max.Y, Z: local.Max.Z},
	}
	for _, c := range corners {
		scaled := lin.V3{X: c.X * xform.Scale.X, Y: c.Y * xform.Scale.Y, Z: c.Z * xform.Scale.Z}
		wx, wy, wz := xform.Unscaled().AppS(scaled.X, scaled.Y, scaled.Z)
		out = out.Union(lin.FromPoint(lin.V3{X: wx, Y: wy, Z: wz}))
	}
	return out
}

// rayAABB performs the standard slab test for a ray (origin, a unit
// direction) against box, returning the nearest positive intersection
// distance t and true if the ray hits the box at all in front of origin.
func rayAABB(origin, dir lin.V3, box lin.AABB) (float64, bool) {
	tmin, tmax := negInf, posInf
	for axis := 0; axis < 3; axis++ {
		o, d, lo, hi := axisOf(origin, axis), axisOf(dir, axis), axisOf(box.Min, axis), axisOf(box.Max, axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, false
		}
	}
	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

const posInf = 1e18
const negInf = -1e18

func axisOf(v lin.V3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}
