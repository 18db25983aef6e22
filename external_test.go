// Copyright © 2024 Galvanized Logic Inc.

package rig

import "fmt"

// fakeModel is an in-memory ModelRef used to test Lower/Import without
// linking a real external kinematics library, the whole point of
// external.go's opaque-interface boundary.
type fakeModel struct {
	ground      *fakeFrame
	bodies      []*fakeBody
	frames      []*fakeFrame
	joints      []*fakeJoint
	markers     []ImportedMarker
	jointProtos []*fakeJointProto
}

type fakeBody struct {
	name string
	mass float64
}

func (*fakeBody) bodyRef() {}

type fakeFrame struct {
	owner  *fakeBody // nil if ground-owned.
	name   string
	offset *XformSnapshot
}

func (*fakeFrame) physicalFrameRef() {}

type fakeJointProto struct {
	typeIndex int
}

func (*fakeJointProto) jointProtoRef() {}

type fakeJoint struct {
	proto         *fakeJointProto
	name          string
	parent, child *fakeFrame
}

func newFakeModel() *fakeModel {
	m := &fakeModel{ground: &fakeFrame{name: "ground"}}
	for i := 0; i < 8; i++ {
		m.jointProtos = append(m.jointProtos, &fakeJointProto{typeIndex: i})
	}
	return m
}

func (m *fakeModel) AddBody(name string, mass float64) (BodyRef, error) {
	b := &fakeBody{name: name, mass: mass}
	m.bodies = append(m.bodies, b)
	return b, nil
}

func (m *fakeModel) AddOffsetFrame(parent PhysicalFrameRef, name string, xform *XformSnapshot) (PhysicalFrameRef, error) {
	pf, ok := parent.(*fakeFrame)
	if !ok {
		return nil, fmt.Errorf("fakeModel: parent is not a fakeFrame")
	}
	f := &fakeFrame{owner: pf.owner, name: name, offset: xform}
	m.frames = append(m.frames, f)
	return f, nil
}

func (m *fakeModel) GroundFrame() PhysicalFrameRef { return m.ground }

func (m *fakeModel) BodyFrame(b BodyRef) PhysicalFrameRef {
	fb := b.(*fakeBody)
	f := &fakeFrame{owner: fb, name: fb.name + "_origin"}
	m.frames = append(m.frames, f)
	return f
}

func (m *fakeModel) AddJoint(jointType JointProtoRef, name string, parentFrame, childFrame PhysicalFrameRef) error {
	m.joints = append(m.joints, &fakeJoint{
		proto:  jointType.(*fakeJointProto),
		name:   name,
		parent: parentFrame.(*fakeFrame),
		child:  childFrame.(*fakeFrame),
	})
	return nil
}

func (m *fakeModel) JointType(typeIndex int) (JointProtoRef, error) {
	if typeIndex < 0 || typeIndex >= len(m.jointProtos) {
		return nil, &BadIndexError{Op: "joint_type", Idx: typeIndex, Len: len(m.jointProtos)}
	}
	return m.jointProtos[typeIndex], nil
}

func (m *fakeModel) AddMarker(parent PhysicalFrameRef, name string, xform *XformSnapshot) error {
	m.markers = append(m.markers, ImportedMarker{Name: name, Parent: parent, Xform: xform})
	return nil
}

func (m *fakeModel) Bodies() []BodyRef {
	out := make([]BodyRef, len(m.bodies))
	for i, b := range m.bodies {
		out[i] = b
	}
	return out
}

func (m *fakeModel) BodyName(b BodyRef) string  { return b.(*fakeBody).name }
func (m *fakeModel) BodyMass(b BodyRef) float64 { return b.(*fakeBody).mass }

func (m *fakeModel) JointOf(b BodyRef) (parentFrame, childFrame PhysicalFrameRef, jointType JointProtoRef, ok bool) {
	fb := b.(*fakeBody)
	for _, j := range m.joints {
		if j.child.owner == fb {
			return j.parent, j.child, j.proto, true
		}
	}
	return nil, nil, nil, false
}

func (m *fakeModel) FrameOwner(f PhysicalFrameRef) (BodyRef, bool) {
	ff := f.(*fakeFrame)
	if ff.owner == nil {
		return nil, false
	}
	return ff.owner, true
}

func (m *fakeModel) JointTypeIndex(t JointProtoRef) int { return t.(*fakeJointProto).typeIndex }

func (m *fakeModel) FrameXform(f PhysicalFrameRef) *XformSnapshot {
	ff := f.(*fakeFrame)
	if ff.offset == nil {
		return &XformSnapshot{Rot: [4]float64{0, 0, 0, 1}}
	}
	return ff.offset
}

func (m *fakeModel) Markers() []ImportedMarker { return m.markers }
