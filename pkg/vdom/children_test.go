package vdom

import "testing"

func keyedList(flags PatchFlags, texts ...string) *VNode {
	children := make([]*VNode, len(texts))
	for i, s := range texts {
		children[i] = TextElement("li", s).WithKey(s)
	}
	return Element("ul", children...).WithFlags(flags)
}

func unkeyedList(flags PatchFlags, texts ...string) *VNode {
	children := make([]*VNode, len(texts))
	for i, s := range texts {
		children[i] = TextElement("li", s)
	}
	return Element("ul", children...).WithFlags(flags)
}

// replayOrder applies the recorded Insert and Remove ops for one parent to
// an ordered child list and returns the children's text labels in final
// target order.
func replayOrder(ops []Op, parent RefID) []string {
	labels := make(map[RefID]string)
	var order []RefID
	detach := func(ref RefID) {
		for i, r := range order {
			if r == ref {
				order = append(order[:i], order[i+1:]...)
				return
			}
		}
	}
	for _, op := range ops {
		switch op.Kind {
		case OpSetText:
			labels[op.Ref] = op.Value
		case OpInsert:
			if op.Parent != parent {
				continue
			}
			detach(op.Ref)
			idx := len(order)
			if op.Anchor != 0 {
				for i, r := range order {
					if r == op.Anchor {
						idx = i
						break
					}
				}
			}
			order = append(order[:idx], append([]RefID{op.Ref}, order[idx:]...)...)
		case OpRemove:
			detach(op.Ref)
		}
	}
	out := make([]string, len(order))
	for i, r := range order {
		out[i] = labels[r]
	}
	return out
}

// listRef returns the ref of the first created element, the list container
// every keyed test mounts.
func listRef(t *testing.T, ops []Op) RefID {
	t.Helper()
	for _, op := range ops {
		if op.Kind == OpCreateElement {
			return op.Ref
		}
	}
	t.Fatal("no element created")
	return 0
}

func TestKeyedReorderMinimalMoves(t *testing.T) {
	old := keyedList(PatchKeyedFragment, "a", "b", "c")
	rec, rc := mountTree(t, old)

	next := keyedList(PatchKeyedFragment, "c", "a", "b")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// a and b form the longest stable run; only c moves.
	if got := rec.Count(OpInsert); got != 1 {
		t.Errorf("move count = %d, want 1", got)
	}
	if got := rec.Count(OpCreateElement); got != 0 {
		t.Errorf("create count = %d, want 0", got)
	}
	if got := rec.Count(OpRemove); got != 0 {
		t.Errorf("remove count = %d, want 0", got)
	}
}

// assertOrder replays the full op stream, mount included, and compares the
// final sibling order against want.
func assertOrder(t *testing.T, ops []Op, list RefID, want []string) {
	t.Helper()
	got := replayOrder(ops, list)
	if len(got) != len(want) {
		t.Fatalf("final order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("final order = %v, want %v", got, want)
		}
	}
}

func TestKeyedRotationMovesOnlyRotatedChild(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)
	old := keyedList(PatchKeyedFragment, "a", "b", "c", "d")
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	list := listRef(t, rec.Ops())
	mounted := len(rec.Ops())

	next := keyedList(PatchKeyedFragment, "d", "a", "b", "c")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	moves := 0
	for _, op := range rec.Ops()[mounted:] {
		if op.Kind == OpInsert {
			moves++
		}
	}
	if moves != 1 {
		t.Errorf("move count = %d, want 1", moves)
	}
	assertOrder(t, rec.Ops(), list, []string{"d", "a", "b", "c"})
}

func TestKeyedMiddleInsertionOrder(t *testing.T) {
	rec := NewRecorder()
	rc := New(rec)
	old := keyedList(PatchKeyedFragment, "a", "b", "z")
	if err := rc.Mount(old, rec.Root()); err != nil {
		t.Fatalf("mount: %v", err)
	}
	list := listRef(t, rec.Ops())

	next := keyedList(PatchKeyedFragment, "x", "a", "b")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	assertOrder(t, rec.Ops(), list, []string{"x", "a", "b"})
}

func TestKeyedAddition(t *testing.T) {
	old := keyedList(PatchKeyedFragment, "a", "c")
	rec, rc := mountTree(t, old)

	next := keyedList(PatchKeyedFragment, "a", "b", "c")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if got := rec.Count(OpCreateElement); got != 1 {
		t.Errorf("create count = %d, want 1", got)
	}
	if got := rec.Count(OpRemove); got != 0 {
		t.Errorf("remove count = %d, want 0", got)
	}
}

func TestKeyedRemoval(t *testing.T) {
	old := keyedList(PatchKeyedFragment, "a", "b", "c")
	rec, rc := mountTree(t, old)

	next := keyedList(PatchKeyedFragment, "a", "c")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	if got := rec.Count(OpRemove); got != 1 {
		t.Errorf("remove count = %d, want 1", got)
	}
	if got := rec.Count(OpCreateElement); got != 0 {
		t.Errorf("create count = %d, want 0", got)
	}
}

func TestUnkeyedTailRemoval(t *testing.T) {
	old := unkeyedList(PatchUnkeyedFragment, "x", "y", "z")
	rec, rc := mountTree(t, old)

	next := unkeyedList(PatchUnkeyedFragment, "x", "y")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// Indices 0 and 1 patch positionally (no changes), the trailing
	// element is removed; nothing is keyed or moved.
	if got := rec.Count(OpRemove); got != 1 {
		t.Errorf("remove count = %d, want 1", got)
	}
	if got := rec.Count(OpInsert); got != 0 {
		t.Errorf("insert count = %d, want 0", got)
	}
	if got := rec.Count(OpSetText); got != 0 {
		t.Errorf("set-text count = %d, want 0", got)
	}
}

func TestUnkeyedTailAppend(t *testing.T) {
	old := unkeyedList(PatchUnkeyedFragment, "x")
	rec, rc := mountTree(t, old)

	next := unkeyedList(PatchUnkeyedFragment, "x", "y")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := rec.Count(OpCreateElement); got != 1 {
		t.Errorf("create count = %d, want 1", got)
	}
}

func TestUnkeyedPositionalPatch(t *testing.T) {
	old := unkeyedList(PatchUnkeyedFragment, "x", "y")
	rec, rc := mountTree(t, old)

	next := unkeyedList(PatchUnkeyedFragment, "y", "x")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}

	// Positional matching rewrites both texts instead of moving nodes.
	if got := rec.Count(OpSetText); got != 2 {
		t.Errorf("set-text count = %d, want 2", got)
	}
	if got := rec.Count(OpInsert); got != 0 {
		t.Errorf("insert count = %d, want 0", got)
	}
}

func TestStableFragmentPatchesInPlace(t *testing.T) {
	old := unkeyedList(PatchStableFragment, "a", "b")
	rec, rc := mountTree(t, old)

	next := unkeyedList(PatchStableFragment, "a", "B")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := rec.Count(OpSetText); got != 1 {
		t.Errorf("set-text count = %d, want 1", got)
	}
	if got := rec.Count(OpInsert); got != 0 {
		t.Errorf("insert count = %d, want 0", got)
	}
}

func TestStableFragmentLengthChangeDegrades(t *testing.T) {
	old := unkeyedList(PatchStableFragment, "a", "b")
	rec, rc := mountTree(t, old)

	// A stable fragment must not change length; the engine degrades to
	// the full children diff and still converges.
	next := unkeyedList(PatchStableFragment, "a")
	err := rc.Reconcile(old, next, rec.Root())
	if err == nil {
		t.Error("expected a structural mismatch error")
	}
	if got := rec.Count(OpRemove); got != 1 {
		t.Errorf("remove count = %d, want 1", got)
	}
}

func TestFullChildrenDiffWithoutHints(t *testing.T) {
	// No fragment bits at all: key presence alone picks the strategy.
	old := keyedList(0, "a", "b")
	rec, rc := mountTree(t, old)

	next := keyedList(0, "b", "a")
	if err := rc.Reconcile(old, next, rec.Root()); err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if got := rec.Count(OpInsert); got == 0 {
		t.Error("expected key-based moves for keyed children")
	}
	if got := rec.Count(OpCreateElement); got != 0 {
		t.Errorf("create count = %d, want 0", got)
	}
}
