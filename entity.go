// Copyright © 2024 Galvanized Logic Inc.
// Use is governed by a BSD-style license found in the LICENSE file.

package rig

import "github.com/corvusbio/meshrig/math/lin"

// entity.go defines the closed set of scene graph entity kinds: Ground,
// Mesh, Body, Joint, Station. Each embeds Base for its Id and Label;
// Entity is a closed sum type over the five concrete structs, following
// the same "one struct per concept, common fields first" shape the
// teacher uses for its component types (see the deleted pov/scene split,
// now collapsed into a single per-kind struct since these are value data,
// not GPU-bound components).

// Kind tags which concrete struct an Entity value holds.
type Kind int

const (
	KindGround Kind = iota
	KindMesh
	KindBody
	KindJoint
	KindStation
)

func (k Kind) String() string {
	switch k {
	case KindGround:
		return "ground"
	case KindMesh:
		return "mesh"
	case KindBody:
		return "body"
	case KindJoint:
		return "joint"
	case KindStation:
		return "station"
	default:
		return "unknown"
	}
}

// Entity is implemented by Ground, Mesh, Body, Joint, Station. It is a
// closed sum type: isEntity is unexported so no other package can add a
// sixth kind.
type Entity interface {
	isEntity()
	EntityId() Id
	EntityLabel() string
	EntityKind() Kind
}

// Base holds the fields common to every entity kind.
type Base struct {
	ID    Id
	Label string
}

func (b Base) EntityId() Id        { return b.ID }
func (b Base) EntityLabel() string { return b.Label }

// Ground is the single, always-present root of the scene graph. It has no
// transform of its own; meshes, bodies and joints attach relative to it
// directly or transitively.
type Ground struct {
	Base
	Visible bool // display-only; Emit ignores it and checks SceneGraph.ShowGround (toggle_ground_visibility).
}

func (Ground) isEntity()      {}
func (Ground) EntityKind() Kind { return KindGround }

// Mesh is an immutable-geometry node loaded from disk (outside this core's
// scope - see meshload.go) and placed in the scene with its own transform.
// A Mesh may be reparented under Ground, a Body, or a Joint (spec.md §3.3);
// cascade deletion removes a Mesh when its parent is deleted.
type Mesh struct {
	Base
	Source    string      // opaque path/handle given to the mesh loader.
	Xform     *lin.Xform  // placement relative to its parent.
	ParentID  Id          // Ground, a Body, or a Joint.
	Visible   bool        // per-mesh flag; toggle_mesh_visibility flips the graph-wide ShowMeshes instead.
	AABB      lin.AABB    // local-space bounds, filled once the mesh loads.
}

func (Mesh) isEntity()        {}
func (Mesh) EntityKind() Kind { return KindMesh }

// Body is a rigid body: a named point in the kinematic chain that meshes
// attach to and joints connect. Xform is the body's own world-space edit
// transform (scale pinned to 1,1,1 per spec.md §3.2): a Body not used as
// a Joint's child is a free-floating body placed directly at Xform and is
// welded to ground at lowering time (spec.md §4.4 step 4); a Body that is
// a Joint's child instead has its drawn/exported pose derived from that
// Joint's offset frames (see drawable.go's WorldTransform and lower.go's
// attachJointRecursive), and Xform in that case only records where the
// body was before the joint attached it - useful as the midpoint input to
// CreateJoint, otherwise not consulted.
type Body struct {
	Base
	Mass  float64    // kept for round-tripping through Lower/lower_import; not simulated here.
	Xform *lin.Xform // own world-space placement; scale always (1,1,1).
}

func (Body) isEntity()        {}
func (Body) EntityKind() Kind { return KindBody }

// weldJointType is the joint type index of WeldJoint, index 0 and the
// default per Open Question 2's resolution.
const weldJointType = 0

// Joint connects two bodies (or a body and ground) and carries the offset
// frames used by the Model Lowering Procedure to compute the parent/child
// physical-frame transforms.
type Joint struct {
	Base
	TypeIndex  int        // 0 == WeldJoint, the only type create_joint produces.
	ParentID   Id         // Body or GroundId: the side closer to ground.
	ChildID    Id         // Body: the side further from ground.
	ParentXform *lin.Xform // offset frame on the parent side.
	ChildXform  *lin.Xform // offset frame on the child side.
}

func (Joint) isEntity()        {}
func (Joint) EntityKind() Kind { return KindJoint }

// Station is a labeled point of interest attached to Ground, a Body, or a
// Mesh (spec.md §3.3) used for markers/landmarks in the exported model.
// A Station has no export setting of its own; the graph-wide
// LoweringOptions.ExportStationsAsMarkers flag decides actual export
// behavior per Open Question 3.
type Station struct {
	Base
	ParentID Id // Ground, a Body, or a Mesh.
	Xform    *lin.Xform
}

func (Station) isEntity()        {}
func (Station) EntityKind() Kind { return KindStation }

// classDesc describes one entity kind's naming and default-counter
// metadata, mirroring the teacher's per-component-manager bookkeeping
// (see the deleted app.go's per-manager "create" counters) but keyed by
// Kind on the SceneGraph rather than by a package-level manager type.
type classDesc struct {
	singular string
	plural   string
	icon     string
}

var classDescs = map[Kind]classDesc{
	KindGround:  {"Ground", "Grounds", "⏚"},
	KindMesh:    {"Mesh", "Meshes", "▲"},
	KindBody:    {"Body", "Bodies", "●"},
	KindJoint:   {"Joint", "Joints", "⚭"},
	KindStation: {"Station", "Stations", "⚑"},
}
