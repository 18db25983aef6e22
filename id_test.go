// Copyright © 2024 Galvanized Logic Inc.

package rig

import "testing"

func TestIdAllocatorNeverRecycles(t *testing.T) {
	a := newIdAllocator()
	first := a.create()
	second := a.create()
	if first == second {
		t.Fatalf("allocator returned the same id twice: %d", first)
	}
	if first <= GroundId {
		t.Fatalf("first allocated id %d did not skip GroundId", first)
	}
	if second != first+1 {
		t.Fatalf("ids are not strictly increasing: %d then %d", first, second)
	}
}

func TestIdAllocatorValid(t *testing.T) {
	a := newIdAllocator()
	if a.valid(EmptyId) {
		t.Fatal("EmptyId should never be valid")
	}
	if a.valid(GroundId) {
		t.Fatal("GroundId should never be valid from idAllocator's perspective")
	}
	id := a.create()
	if !a.valid(id) {
		t.Fatalf("id %d should be valid after being created", id)
	}
	if a.valid(id + 100) {
		t.Fatal("an id never handed out should not be valid")
	}
}
