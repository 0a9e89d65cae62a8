package vdom

import (
	"errors"
	"testing"
)

func TestTeleportMountsIntoTarget(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)
	target := rec.RegisterTarget("#overlay")

	n := NewTeleport("#overlay", TextElement("div", "modal"))
	if err := rc.Mount(n, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}

	var insert *Op
	for i := range rec.Ops() {
		if rec.Ops()[i].Kind == OpInsert {
			insert = &rec.Ops()[i]
		}
	}
	if insert == nil {
		t.Fatal("no insert recorded")
	}
	if insert.Parent != refOf(target) {
		t.Errorf("insert parent = %v, want target %v", insert.Parent, refOf(target))
	}
}

func TestTeleportMovesOnTargetChange(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)
	rec.RegisterTarget("#a")
	targetB := rec.RegisterTarget("#b")

	old := NewTeleport("#a", TextElement("div", "modal"))
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rec.Reset()

	next := NewTeleport("#b", TextElement("div", "modal"))
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if got := rec.Count(OpInsert); got != 1 {
		t.Fatalf("insert count = %d, want 1 (content moved)", got)
	}
	if rec.Ops()[0].Parent != refOf(targetB) {
		t.Errorf("moved into %v, want %v", rec.Ops()[0].Parent, refOf(targetB))
	}
	if got := rec.Count(OpCreateElement); got != 0 {
		t.Errorf("create count = %d, want 0 (moved, not recreated)", got)
	}
}

func TestTeleportSameTargetPatchesInPlace(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)
	rec.RegisterTarget("#a")

	old := NewTeleport("#a", TextElement("div", "one"))
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rec.Reset()

	next := NewTeleport("#a", TextElement("div", "two"))
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := rec.Count(OpInsert); got != 0 {
		t.Errorf("insert count = %d, want 0", got)
	}
	if got := rec.Count(OpSetText); got != 1 {
		t.Errorf("set-text count = %d, want 1", got)
	}
}

func TestTeleportUnresolvableTargetRecovers(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)
	rec.RegisterTarget("#a")

	old := NewTeleport("#a", TextElement("div", "one"))
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rec.Reset()

	// Destination does not exist: patching continues in the old
	// container instead of aborting the walk.
	next := NewTeleport("#missing", TextElement("div", "two"))
	err := rc.Reconcile(old, next, rec.Root())
	if !errors.Is(err, ErrBlockMisaligned) {
		t.Errorf("err = %v, want structural mismatch", err)
	}
	if got := rec.Count(OpSetText); got != 1 {
		t.Errorf("set-text count = %d, want 1", got)
	}
}
