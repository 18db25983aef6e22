// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// AABB is an axis-aligned bounding box described by its minimum and
// maximum corners. A zero-value AABB (Min and Max both the zero vector)
// is not "empty" in the geometric sense; use Empty() to get a box whose
// Union with anything returns the other operand unchanged.
type AABB struct {
	Min V3
	Max V3
}

// Empty returns an AABB that contains no points: Min is +Inf, Max is -Inf
// on every axis, so Union(Empty(), b) == b for any box b.
func Empty() AABB {
	inf := math.Inf(1)
	return AABB{
		Min: V3{X: inf, Y: inf, Z: inf},
		Max: V3{X: -inf, Y: -inf, Z: -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b AABB) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Union returns the smallest AABB containing both b and o. Union over an
// empty box returns the other box unchanged.
func (b AABB) Union(o AABB) AABB {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return AABB{
		Min: V3{X: math.Min(b.Min.X, o.Min.X), Y: math.Min(b.Min.Y, o.Min.Y), Z: math.Min(b.Min.Z, o.Min.Z)},
		Max: V3{X: math.Max(b.Max.X, o.Max.X), Y: math.Max(b.Max.Y, o.Max.Y), Z: math.Max(b.Max.Z, o.Max.Z)},
	}
}

// Center returns the midpoint of the box.
func (b AABB) Center() V3 {
	return V3{X: (b.Min.X + b.Max.X) * 0.5, Y: (b.Min.Y + b.Max.Y) * 0.5, Z: (b.Min.Z + b.Max.Z) * 0.5}
}

// FromPoint returns the degenerate AABB containing exactly one point.
func FromPoint(p V3) AABB {
	return AABB{Min: p, Max: p}
}
