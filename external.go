// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

// external.go defines the opaque boundary to the external model/kinematics
// library that Lower/lower_import.go talk to. Grounded on the teacher's
// opaque-handle pattern for GPU resources (the deleted mesh.go wrapped
// render.Mesh by handle; texture.go wrapped render.Texture the same way) -
// the same shape, applied here to an external kinematics library instead
// of a GPU: this package never imports that library directly, it only
// consumes these interfaces, so Lower can be tested against a fake
// implementation without linking the real one.

// BodyRef is an opaque handle to a rigid body created in the external
// model.
type BodyRef interface {
	bodyRef()
}

// PhysicalFrameRef is an opaque handle to a named, offset frame attached
// to a BodyRef or to ground in the external model.
type PhysicalFrameRef interface {
	physicalFrameRef()
}

// JointProtoRef is an opaque handle to a joint type prototype in the
// external model (e.g. its WeldJoint, PinJoint, ...), selected by the
// Joint.TypeIndex being lowered.
type JointProtoRef interface {
	jointProtoRef()
}

// ModelRef is an opaque handle to the external model under construction
// or being read back from. Lower builds one; lower_import.go reads one.
type ModelRef interface {
	// AddBody creates a new body named name with the given mass and
	// returns its handle.
	AddBody(name string, mass float64) (BodyRef, error)

	// AddOffsetFrame creates a named physical frame offset from parent
	// (a BodyRef or the model's ground) by xform.
	AddOffsetFrame(parent PhysicalFrameRef, name string, xform *XformSnapshot) (PhysicalFrameRef, error)

	// GroundFrame returns the model's ground frame, the root every
	// physical frame chain eventually offsets from.
	GroundFrame() PhysicalFrameRef

	// BodyFrame returns the frame at a body's origin, used as the parent
	// for offset frames created on that body.
	BodyFrame(b BodyRef) PhysicalFrameRef

	// AddJoint connects parentFrame to childFrame using jointType and
	// returns nothing further - joints are leaves in the model graph.
	AddJoint(jointType JointProtoRef, name string, parentFrame, childFrame PhysicalFrameRef) error

	// JointType resolves a Joint.TypeIndex to the external model's
	// prototype for that type. An out-of-range index is a BadIndexError.
	JointType(typeIndex int) (JointProtoRef, error)

	// AddMarker records a named point, offset from parent, as a marker
	// (used when LoweringOptions.ExportStationsAsMarkers is set).
	AddMarker(parent PhysicalFrameRef, name string, xform *XformSnapshot) error

	// Bodies enumerates every body in a model being imported, in the
	// external library's native order.
	Bodies() []BodyRef

	// BodyName, BodyMass report a BodyRef's external-model attributes.
	BodyName(b BodyRef) string
	BodyMass(b BodyRef) float64

	// JointOf returns the joint attaching b to its parent, or false if b
	// is attached directly to ground with no intervening joint record.
	JointOf(b BodyRef) (parentFrame, childFrame PhysicalFrameRef, jointType JointProtoRef, ok bool)

	// FrameOwner returns the body that owns f, or false if f is the
	// ground frame (or any other frame with no owning body). Used by
	// import to resolve a marker's or joint's frame back to a body,
	// mirroring the original's TryInclusiveRecurseToBodyOrGround.
	FrameOwner(f PhysicalFrameRef) (BodyRef, bool)

	// JointTypeIndex is the inverse of JointType: given a prototype read
	// back from the model, report its Joint.TypeIndex.
	JointTypeIndex(t JointProtoRef) int

	// FrameXform returns a frame's offset transform relative to whatever
	// it was created offset from.
	FrameXform(f PhysicalFrameRef) *XformSnapshot

	// Markers enumerates every marker recorded in the model, for import.
	Markers() []ImportedMarker
}

// ImportedMarker is one marker read back from a ModelRef during import,
// pairing its name and offset with the frame it was recorded against.
type ImportedMarker struct {
	Name   string
	Parent PhysicalFrameRef
	Xform  *XformSnapshot
}

// XformSnapshot is a plain-data transform (no pointers) used at the
// external.go boundary so ModelRef implementations never need to import
// math/lin - they can be backed by any representation.
type XformSnapshot struct {
	Loc   [3]float64
	Rot   [4]float64 // x, y, z, w
	Scale [3]float64
}
