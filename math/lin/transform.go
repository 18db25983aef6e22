// Copyright © 2013-2015 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package lin

import "math"

// T is a 3D transform for rotation and translation. It excludes scaling and
// shear information. T is used as a simplification and optimization instead
// of keeping all transform information in a 4x4 matrix.
//
// T supports linear algebra operations that are similar to those supported
// by V3, V4, M3, M4, and Q.  The main ones are:
//      Multiply two transforms together to produce a composite transform.
//      Apply a transform or inverse transform to a vector.
type T struct {
	Loc *V3 // Location (translation, origin).
	Rot *Q  // Rotation (direction, orientation).
}

// Xform is a 3D transform that adds scale on top of T's rotation and
// translation. Composition order is position, then rotation, then scale:
// a point p is transformed as p' = Loc + Rot*(Scale*p).
type Xform struct {
	Loc   *V3 // Location (translation, origin).
	Rot   *Q  // Rotation (direction, orientation).
	Scale *V3 // Per axis scale. (1,1,1) is unscaled.
}

// NewXform creates an identity transform: zero location, identity
// rotation, unit scale.
func NewXform() *Xform {
	return &Xform{Loc: &V3{}, Rot: &Q{W: 1}, Scale: &V3{X: 1, Y: 1, Z: 1}}
}

// SetI resets x to the identity transform. The updated transform is returned.
func (x *Xform) SetI() *Xform {
	x.Loc.SetS(0, 0, 0)
	x.Rot.Set(QI)
	x.Scale.SetS(1, 1, 1)
	return x
}

// Set (=, copy, clone) assigns all element values from a to x.
// The updated transform x is returned.
func (x *Xform) Set(a *Xform) *Xform {
	x.Loc.Set(a.Loc)
	x.Rot.Set(a.Rot)
	x.Scale.Set(a.Scale)
	return x
}

// Clone returns an independent copy of x sharing no mutable state.
func (x *Xform) Clone() *Xform {
	return &Xform{
		Loc:   &V3{X: x.Loc.X, Y: x.Loc.Y, Z: x.Loc.Z},
		Rot:   &Q{X: x.Rot.X, Y: x.Rot.Y, Z: x.Rot.Z, W: x.Rot.W},
		Scale: &V3{X: x.Scale.X, Y: x.Scale.Y, Z: x.Scale.Z},
	}
}

// Eq (==) returns true if every element of x matches the corresponding
// element of a exactly.
func (x *Xform) Eq(a *Xform) bool {
	return x.Loc.Eq(a.Loc) && x.Rot.Eq(a.Rot) && x.Scale.Eq(a.Scale)
}

// Aeq (~=) returns true if every element of x is almost-equal to the
// corresponding element of a.
func (x *Xform) Aeq(a *Xform) bool {
	return x.Loc.Aeq(a.Loc) && x.Rot.Aeq(a.Rot) && x.Scale.Aeq(a.Scale)
}

// Unscaled returns a *T carrying just the rotation and translation of x,
// dropping scale. Used wherever scale must be ignored before composing
// two transforms (parent-frame offset arithmetic during model lowering).
func (x *Xform) Unscaled() *T {
	return &T{Loc: &V3{X: x.Loc.X, Y: x.Loc.Y, Z: x.Loc.Z}, Rot: &Q{X: x.Rot.X, Y: x.Rot.Y, Z: x.Rot.Z, W: x.Rot.W}}
}

// Mat4 returns the 4x4 column-major matrix equivalent of x:
// translate(Loc) * rotate(Rot) * scale(Scale).
func (x *Xform) Mat4() *M4 {
	m := NewM4().SetQ(x.Rot)
	m.ScaleMS(x.Scale.X, x.Scale.Y, x.Scale.Z)
	m.TranslateTM(x.Loc.X, x.Loc.Y, x.Loc.Z)
	return m
}

// Inverse returns the inverse of transform t (ignoring scale: scale is
// never carried on joint/body transforms per the data model, so the
// inverse of an unscaled T is rotation-inverse then translation-inverse).
func (t *T) Inverse() *T {
	inv := &Q{X: -t.Rot.X, Y: -t.Rot.Y, Z: -t.Rot.Z, W: t.Rot.W}
	loc := &V3{X: -t.Loc.X, Y: -t.Loc.Y, Z: -t.Loc.Z}
	loc.MultvQ(loc, inv)
	return &T{Loc: loc, Rot: inv}
}

// ComposeUnscaled returns the composite transform a*b (b expressed in a's
// frame: b's location is rotated by a and offset by a's location) as a new
// *T. Neither a nor b is modified.
func ComposeUnscaled(a, b *T) *T {
	out := NewT()
	out.Mult(a, b)
	return out
}

// Equals (==) returns true of all elements of transform t have the same value as
// the corresponding element of transform a.
func (t *T) Eq(a *T) bool { return t.Rot.Eq(a.Rot) && t.Loc.Eq(a.Loc) }

// Aeq (~=) almost-equals returns true if all the elements in transform t have
// essentially the same value as the corresponding elements in transform a.
// Used where a direct comparison is unlikely to return true due to floats.
func (t *T) Aeq(a *T) bool { return t.Rot.Aeq(a.Rot) && t.Loc.Aeq(a.Loc) }

// Set (=, copy, clone) assigns all the elements values from transform a to the
// corresponding element values in transform t. The updated transform t is returned.
func (t *T) Set(a *T) *T {
	t.Loc.Set(a.Loc)
	t.Rot.Set(a.Rot)
	return t
}

// SetI updates transform t to be the identity transform.
// The updated transform t is returned.
func (t *T) SetI() *T {
	t.Loc.SetS(0, 0, 0)
	t.Rot.Set(QI)
	return t
}

// SetVQ (=) sets the transform t based on the given quaternion rotation and
// translation location. The updated transform t is returned.
func (t *T) SetVQ(loc *V3, rot *Q) *T {
	t.Loc.Set(loc)
	t.Rot.Set(rot)
	return t
}

// SetAa updates transform t to have the rotation specified by the given
// axis and angle in radians. The updated transform t is returned.
func (t *T) SetAa(ax, ay, az, ang float64) *T {
	t.Rot.SetAa(ax, ay, az, ang)
	return t
}

// SetLoc updates transform t to have the location speccified  by lx, ly, lz.
// The updated transform t is returned.
func (t *T) SetLoc(lx, ly, lz float64) *T {
	t.Loc.X, t.Loc.Y, t.Loc.Z = lx, ly, lz
	return t
}

// SetRot updates transform t to have the rotation speccified  by x, y, z, w.
// The updated transform t is returned.
func (t *T) SetRot(x, y, z, w float64) *T {
	t.Rot.X, t.Rot.Y, t.Rot.Z, t.Rot.W = x, y, z, w
	return t
}

// Mult (*) updates the transform t to be the product of the
// transforms a and b. Transform t may be used as one or both of
// the input transforms. The updated transform t is returned.
func (t *T) Mult(a, b *T) *T {
	tx, ty, tz := a.Loc.GetS() // preserve a's translation.
	t.Loc.MultvQ(b.Loc, a.Rot) // apply rotation to incoming translation.
	t.Loc.X, t.Loc.Y, t.Loc.Z = t.Loc.X+tx, t.Loc.Y+ty, t.Loc.Z+tz
	t.Rot.Mult(a.Rot, b.Rot)
	return t
}

// App applies its tranform to vector v. The updated vector v is returned.
func (t *T) App(v *V3) *V3 {
	v.MultvQ(v, t.Rot) // apply rotation.
	v.Add(v, t.Loc)    // apply translation.
	return v
}

// AppS applies transform t, rotation then translation, to input scalar
// vector (x,y,z) returning the transformed scalar vector (vx,vy,vz).
func (t *T) AppS(x, y, z float64) (vx, vy, vz float64) {
	vx, vy, vz = MultSQ(x, y, z, t.Rot)             // apply rotation.
	return vx + t.Loc.X, vy + t.Loc.Y, vz + t.Loc.Z // apply translation.
}

// AppR applies just the transform rotation to input vector (x,y,z)
// returning the rotated vector (vx,vy,vz)
func (t *T) AppR(x, y, z float64) (vx, vy, vz float64) {
	return MultSQ(x, y, z, t.Rot) // apply rotation.
}

// Inv updates vector v to be the inverse transform t applied
// to vector a.  The updated vector v is returned.
func (t *T) Inv(v *V3) *V3 {
	v.Sub(v, t.Loc)                            // apply inverse translation.
	ix, iy, iz := -t.Rot.X, -t.Rot.Y, -t.Rot.Z // apply inverse rotation.
	v.X, v.Y, v.Z = multSQ(v.X, v.Y, v.Z, ix, iy, iz, t.Rot.W)
	return v
}

// InvS applies the inverse transform t, inverse translation, then inverse
// rotation, to input vector (x,y,z) returning the transformed vector (vx,vy,vz).
func (t *T) InvS(x, y, z float64) (vx, vy, vz float64) {
	vx, vy, vz = x-t.Loc.X, y-t.Loc.Y, z-t.Loc.Z // apply inverse translation.
	ix, iy, iz := -t.Rot.X, -t.Rot.Y, -t.Rot.Z   // apply inverse rotation.
	return multSQ(vx, vy, vz, ix, iy, iz, t.Rot.W)
}

// Integrate updates transform t to be the linear integration of
// transform a with the given linear velocity linv, and angular velocity angv
// over the given amount of time dt. Transforms t and a must be distinct.
// The input vectors linv, angv are not changed.
// The updated transform t is returned.
//
// Based on bullet physics: btTransformUtil::integrateTransform.
func (t *T) Integrate(a *T, linv, angv *V3, dt float64) *T {

	// add interpolated linear velocity to current velocity.
	t.Loc.X = a.Loc.X + linv.X*dt
	t.Loc.Y = a.Loc.Y + linv.Y*dt
	t.Loc.Z = a.Loc.Z + linv.Z*dt

	// add interpolated angular velocity to current rotation. Google:
	//    "Practical Parameterization of Rotations Using the Exponential Map",
	//    F. Sebastian Grassia
	angularMotionLimit := 0.5 * HalfPi
	angLen := angv.Len()
	if angLen*dt > angularMotionLimit {
		angLen = angularMotionLimit / dt // limit the angular motion
	}
	fac := 0.0
	if angLen < 0.001 {
		// Taylor's expansions of sync function
		fac = 0.5*dt - dt*dt*dt*0.020833333333*angLen*angLen
	} else {
		fac = math.Sin(0.5*angLen*dt) / angLen
	}

	// apply s rotation to existing rotation r
	rx, ry, rz, rw := a.Rot.X, a.Rot.Y, a.Rot.Z, a.Rot.W
	sx, sy, sz, sw := angv.X*fac, angv.Y*fac, angv.Z*fac, math.Cos(angLen*dt*0.5)
	t.Rot.X = rw*sx + rx*sw - ry*sz + rz*sy
	t.Rot.Y = rw*sy + rx*sz + ry*sw - rz*sx
	t.Rot.Z = rw*sz - rx*sy + ry*sx + rz*sw
	t.Rot.W = rw*sw - rx*sx - ry*sy - rz*sz
	t.Rot.Unit()
	return t
}

// ============================================================================
// convenience functions for allocating transforms. Nothing else should allocate.

// NewT creates and returns a transform at the origin with no rotation.
func NewT() *T {
	return &T{&V3{}, &Q{0, 0, 0, 1}}
}
