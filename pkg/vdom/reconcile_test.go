package vdom

import (
	"errors"
	"sort"
	"testing"
)

// mountTree mounts n into a fresh recorder and clears the mount ops, so a
// test asserts over update ops only.
func mountTree(t *testing.T, n *VNode) (*Recorder, *Reconciler) {
	t.Helper()
	rec := NewRecorder()
	rc := New(rec)
	if err := rc.Mount(n, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rec.Reset()
	return rec, rc
}

func opKinds(ops []Op) []OpKind {
	kinds := make([]OpKind, len(ops))
	for i, op := range ops {
		kinds[i] = op.Kind
	}
	return kinds
}

func TestMountElement(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)

	n := TextElement("div", "hi").WithClass("card").WithProp("id", "main")
	if err := rc.Mount(n, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}

	if rec.Count(OpCreateElement) != 1 {
		t.Errorf("CreateElement count = %d, want 1", rec.Count(OpCreateElement))
	}
	if rec.Count(OpSetClass) != 1 || rec.Count(OpSetAttr) != 1 || rec.Count(OpSetText) != 1 {
		t.Errorf("unexpected mount ops: %v", opKinds(rec.Ops()))
	}
	if rec.Count(OpInsert) != 1 {
		t.Errorf("Insert count = %d, want 1", rec.Count(OpInsert))
	}
	if n.Ref == nil {
		t.Error("Ref not assigned on mount")
	}
}

func TestTextClassScopedPatch(t *testing.T) {
	old := TextElement("div", "Hello").WithClass("a").
		WithStyle("color", "red").WithProp("title", "t")
	old.Flags = PatchText | PatchClass
	rec, rc := mountTree(t, old)

	next := TextElement("div", "World").WithClass("b").
		WithStyle("color", "blue").WithProp("title", "zzz")
	next.Flags = PatchText | PatchClass

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// Exactly class and text fire; style and props are never compared.
	ops := rec.Ops()
	if len(ops) != 2 {
		t.Fatalf("got %d ops %v, want 2", len(ops), opKinds(ops))
	}
	if ops[0].Kind != OpSetClass || ops[0].Value != "b" {
		t.Errorf("ops[0] = %v %q, want SetClass b", ops[0].Kind, ops[0].Value)
	}
	if ops[1].Kind != OpSetText || ops[1].Value != "World" {
		t.Errorf("ops[1] = %v %q, want SetText World", ops[1].Kind, ops[1].Value)
	}
}

func TestHoistedReusedVerbatim(t *testing.T) {
	old := Element("div",
		TextElement("span", "static").WithClass("x"),
	)
	rec, rc := mountTree(t, old)
	oldRef := old.Ref

	next := Element("div",
		TextElement("span", "would-be-different").WithClass("y"),
	)
	Hoisted(next)

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if len(rec.Ops()) != 0 {
		t.Errorf("hoisted node produced %d ops %v, want 0", len(rec.Ops()), opKinds(rec.Ops()))
	}
	if next.Ref != oldRef {
		t.Errorf("Ref = %v, want reused %v", next.Ref, oldRef)
	}
}

func TestBailForcesFullDiff(t *testing.T) {
	// Stale flags claim only text is dynamic; BAIL must still find the
	// class change.
	old := TextElement("div", "x").WithClass("a")
	old.Flags = PatchText
	rec, rc := mountTree(t, old)

	next := TextElement("div", "x").WithClass("b")
	next.Flags = PatchBail

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if rec.Count(OpSetClass) != 1 {
		t.Errorf("SetClass count = %d, want 1", rec.Count(OpSetClass))
	}
	if rec.Count(OpSetText) != 0 {
		t.Errorf("SetText count = %d, want 0 (text unchanged)", rec.Count(OpSetText))
	}
}

func TestDynamicPropsScopedToList(t *testing.T) {
	old := Element("input").WithProp("value", "a").WithProp("title", "t")
	old.Flags = PatchProps
	old.DynamicProps = []string{"value"}
	rec, rc := mountTree(t, old)

	next := Element("input").WithProp("value", "b").WithProp("title", "changed")
	next.Flags = PatchProps
	next.DynamicProps = []string{"value"}

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// Only the listed key is compared; the unlisted change is invisible
	// by contract.
	ops := rec.Ops()
	if len(ops) != 1 || ops[0].Kind != OpSetAttr || ops[0].Key != "value" || ops[0].Value != "b" {
		t.Fatalf("ops = %+v, want single SetAttr value=b", ops)
	}
}

func TestFullPropsDetectsRemovedKeys(t *testing.T) {
	old := Element("div").WithProp("id", "a").WithProp("title", "t")
	old.Flags = PatchFullProps
	rec, rc := mountTree(t, old)

	next := Element("div").WithProp("id", "a").WithProp("role", "note")
	next.Flags = PatchFullProps

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if rec.Count(OpRemoveAttr) != 1 {
		t.Errorf("RemoveAttr count = %d, want 1", rec.Count(OpRemoveAttr))
	}
	if rec.Count(OpSetAttr) != 1 {
		t.Errorf("SetAttr count = %d, want 1 (added key)", rec.Count(OpSetAttr))
	}
}

func TestPropsWithoutListDegrades(t *testing.T) {
	old := Element("div").WithProp("id", "a").WithProp("title", "t")
	old.Flags = PatchProps
	old.DynamicProps = []string{"id"}
	rec, rc := mountTree(t, old)

	// Producer forgot the list: the full walk still finds the removal.
	next := Element("div").WithProp("id", "a")
	next.Flags = PatchProps

	err := rc.Reconcile(old, next, rec.Root())
	if !errors.Is(err, ErrMissingDynamicProps) {
		t.Errorf("err = %v, want ErrMissingDynamicProps", err)
	}
	if rec.Count(OpRemoveAttr) != 1 {
		t.Errorf("RemoveAttr count = %d, want 1", rec.Count(OpRemoveAttr))
	}
}

func TestNeedPatchInvokesRefHook(t *testing.T) {
	old := Element("div")
	old.Flags = PatchNeedPatch
	rec, rc := mountTree(t, old)

	next := Element("div")
	next.Flags = PatchNeedPatch

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	ops := rec.Ops()
	if len(ops) != 1 || ops[0].Kind != OpHook || ops[0].Hook != HookRef {
		t.Fatalf("ops = %+v, want single Ref hook", ops)
	}
}

func TestHydrateEventsAttaches(t *testing.T) {
	old := Element("button").WithEvents("click")
	old.Flags = PatchHydrateEvents
	rec, rc := mountTree(t, old)

	next := Element("button").WithEvents("click", "focus")
	next.Flags = PatchHydrateEvents

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	ops := rec.Ops()
	if len(ops) != 1 || ops[0].Kind != OpAttachEvents || len(ops[0].Events) != 2 {
		t.Fatalf("ops = %+v, want single AttachEvents with 2 events", ops)
	}
}

// runScoped reconciles a node pair where text, class, and one style prop all
// changed, with the given flags, and returns the sorted op kinds.
func runScoped(t *testing.T, flags PatchFlags) []OpKind {
	t.Helper()
	old := TextElement("div", "a").WithClass("x").WithStyle("color", "red")
	old.Flags = flags
	rec, rc := mountTree(t, old)

	next := TextElement("div", "b").WithClass("y").WithStyle("color", "blue")
	next.Flags = flags

	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	kinds := opKinds(rec.Ops())
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func TestScopedActionsCompose(t *testing.T) {
	// actions(f1|f2) == actions(f1) ∪ actions(f2) for independent bits.
	bits := []PatchFlags{PatchText, PatchClass, PatchStyle}
	for _, f1 := range bits {
		for _, f2 := range bits {
			if f1 == f2 {
				continue
			}
			combined := runScoped(t, f1|f2)
			var merged []OpKind
			merged = append(merged, runScoped(t, f1)...)
			merged = append(merged, runScoped(t, f2)...)
			sort.Slice(merged, func(i, j int) bool { return merged[i] < merged[j] })

			if len(combined) != len(merged) {
				t.Fatalf("flags %d|%d: got %v, want %v", f1, f2, combined, merged)
			}
			for i := range combined {
				if combined[i] != merged[i] {
					t.Fatalf("flags %d|%d: got %v, want %v", f1, f2, combined, merged)
				}
			}
		}
	}
}

func TestAmbiguousShapeDegrades(t *testing.T) {
	shape := ShapeElement | ShapeTeleport | ShapeTextChildren

	rec := NewRecorder()
	rc := New(rec)
	old := &VNode{Shape: shape, Tag: "div", Text: "a"}
	if err := rc.Mount(old, rec.Root()); !errors.Is(err, ErrAmbiguousShape) {
		t.Fatalf("mount err = %v, want ErrAmbiguousShape", err)
	}
	rec.Reset()

	next := &VNode{Shape: shape, Tag: "div", Text: "b"}
	err := rc.Reconcile(old, next, rec.Root())
	if !errors.Is(err, ErrAmbiguousShape) {
		t.Errorf("err = %v, want ErrAmbiguousShape", err)
	}
	// Degraded, not crashed: the text change still lands.
	if rec.Count(OpSetText) != 1 {
		t.Errorf("SetText count = %d, want 1", rec.Count(OpSetText))
	}
}

func TestViolationHandlerObserves(t *testing.T) {
	var seen []error
	rec := NewRecorder()
	rc := New(rec, WithViolationHandler(func(err error) { seen = append(seen, err) }))

	old := Element("div").WithProp("id", "a")
	old.Flags = PatchProps
	old.DynamicProps = []string{"id"}
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	rec.Reset()

	next := Element("div").WithProp("id", "b")
	next.Flags = PatchProps

	rc.Reconcile(old, next, rec.Root())
	if len(seen) != 1 || !errors.Is(seen[0], ErrMissingDynamicProps) {
		t.Errorf("handler saw %v, want one ErrMissingDynamicProps", seen)
	}
}

func TestReplaceOnTagChange(t *testing.T) {
	old := TextElement("div", "x")
	rec, rc := mountTree(t, old)

	next := TextElement("span", "x")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if rec.Count(OpCreateElement) != 1 || rec.Count(OpRemove) != 1 {
		t.Errorf("ops = %v, want one create and one remove", opKinds(rec.Ops()))
	}
}

func TestUnmountRoot(t *testing.T) {
	old := TextElement("div", "x")
	rec, rc := mountTree(t, old)

	if err := rc.Reconcile(old, nil, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if rec.Count(OpRemove) != 1 {
		t.Errorf("Remove count = %d, want 1", rec.Count(OpRemove))
	}
}
