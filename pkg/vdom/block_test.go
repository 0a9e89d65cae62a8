package vdom

import (
	"errors"
	"testing"
)

// buildBlock builds a stable fragment of one static and one dynamic child,
// collecting the block list the way a compiler would.
func buildBlock(staticText, dynText string) *VNode {
	b := OpenBlock()
	return b.Close(Fragment(PatchStableFragment,
		TextElement("span", staticText),
		b.Track(TextElement("span", dynText).WithFlags(PatchText)),
	))
}

func TestBlockTraversalSkipsStatic(t *testing.T) {
	old := buildBlock("static", "one")
	rec, rc := mountTree(t, old)

	// The static child's text "changes" here, but it is not in the
	// block list: optimized traversal must never look at it.
	next := buildBlock("tampered", "two")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	ops := rec.Ops()
	if len(ops) != 1 {
		t.Fatalf("got %d ops %v, want 1", len(ops), opKinds(ops))
	}
	if ops[0].Kind != OpSetText || ops[0].Value != "two" {
		t.Errorf("ops[0] = %v %q, want SetText two", ops[0].Kind, ops[0].Value)
	}
}

func TestBlockWithZeroRootFlagStillUsed(t *testing.T) {
	mk := func(dynText string) *VNode {
		b := OpenBlock()
		return b.Close(Element("div",
			TextElement("span", "static"),
			b.Track(TextElement("span", dynText).WithFlags(PatchText)),
		))
	}
	old := mk("one")
	rec, rc := mountTree(t, old)

	next := mk("two")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := rec.Count(OpSetText); got != 1 {
		t.Errorf("set-text count = %d, want 1", got)
	}
}

func TestBlockMisalignmentDegrades(t *testing.T) {
	old := buildBlock("static", "one")
	rec, rc := mountTree(t, old)

	// A rebuilt tree whose block list length disagrees: the optimized
	// path is abandoned for this subtree and the full diff converges.
	b := OpenBlock()
	next := b.Close(Fragment(PatchStableFragment,
		TextElement("span", "changed"),
		TextElement("span", "two").WithFlags(PatchText),
	))
	next.Dynamics = nil
	next.Dynamics = []*VNode{} // materialized but empty

	err := rc.Reconcile(old, next, rec.Root())
	if !errors.Is(err, ErrBlockMisaligned) {
		t.Errorf("err = %v, want ErrBlockMisaligned", err)
	}
	// Full diff catches both children's changes.
	if got := rec.Count(OpSetText); got != 2 {
		t.Errorf("set-text count = %d, want 2", got)
	}
}

func TestBailIgnoresBlockList(t *testing.T) {
	old := buildBlock("static", "one")
	rec, rc := mountTree(t, old)

	next := buildBlock("edited", "two")
	next.Flags = PatchBail

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	// With BAIL the whole subtree is walked, so the out-of-list edit
	// is found too.
	if got := rec.Count(OpSetText); got != 2 {
		t.Errorf("set-text count = %d, want 2", got)
	}
}

func TestTrackCollectsOnlyDynamic(t *testing.T) {
	b := OpenBlock()
	b.Track(TextElement("span", "static"))
	dyn := b.Track(TextElement("span", "x").WithFlags(PatchText))
	b.Track(Hoisted(TextElement("span", "lifted")))
	root := b.Close(Element("div"))

	if len(root.Dynamics) != 1 || root.Dynamics[0] != dyn {
		t.Errorf("Dynamics = %v, want exactly the flagged child", root.Dynamics)
	}
}

func TestBlockReplacedDynamicDegradesToFullDiff(t *testing.T) {
	// The dynamic child sits one level down from the block root; its
	// list entry carries no parent ref, so replacing it can only be
	// handled by the full diff, which walks the real structure.
	mk := func(tag string) *VNode {
		b := OpenBlock()
		return b.Close(Element("div",
			Element("section",
				b.Track(TextElement(tag, "dyn").WithFlags(PatchText)),
			),
		))
	}
	old := mk("span")
	rec := NewRecorder()
	rc := New(rec)
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	var section RefID
	for _, op := range rec.Ops() {
		if op.Kind == OpCreateElement && op.Value == "section" {
			section = op.Ref
		}
	}
	rec.Reset()

	next := mk("p")
	err := rc.Reconcile(old, next, rec.Root())
	if !errors.Is(err, ErrBlockMisaligned) {
		t.Errorf("err = %v, want ErrBlockMisaligned", err)
	}

	// The replacement lands under its true parent, not the block root.
	var created RefID
	for _, op := range rec.Ops() {
		if op.Kind == OpCreateElement && op.Value == "p" {
			created = op.Ref
		}
	}
	if created == 0 {
		t.Fatalf("no replacement created, ops %v", opKinds(rec.Ops()))
	}
	for _, op := range rec.Ops() {
		if op.Kind == OpInsert && op.Ref == created {
			if op.Parent != section {
				t.Errorf("insert parent = %d, want section %d", op.Parent, section)
			}
			return
		}
	}
	t.Fatalf("replacement never inserted, ops %v", opKinds(rec.Ops()))
}
