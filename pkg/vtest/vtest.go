package vtest

import (
	"testing"

	"github.com/velodom/velo/pkg/vdom"
)

// Harness drives a reconciler against a recording render target and keeps
// the current tree between steps.
type Harness struct {
	t    *testing.T
	rec  *vdom.Recorder
	rc   *vdom.Reconciler
	tree *vdom.VNode
}

// New creates a harness. Options are passed through to the reconciler.
//
// Example:
//
//	h := vtest.New(t, vdom.WithKeepAliveCache(cache))
func New(t *testing.T, opts ...vdom.Option) *Harness {
	t.Helper()
	rec := vdom.NewRecorder()
	return &Harness{
		t:   t,
		rec: rec,
		rc:  vdom.New(rec, opts...),
	}
}

// Recorder returns the underlying recorder for direct op inspection.
func (h *Harness) Recorder() *vdom.Recorder {
	return h.rec
}

// Tree returns the current mounted tree.
func (h *Harness) Tree() *vdom.VNode {
	return h.tree
}

// Target registers a teleport destination and returns its handle.
func (h *Harness) Target(selector string) vdom.Ref {
	return h.rec.RegisterTarget(selector)
}

// Mount mounts n as the current tree, failing the test on error. The op
// stream is cleared first so assertions see only the mount.
func (h *Harness) Mount(n *vdom.VNode) {
	h.t.Helper()
	h.rec.Reset()
	if err := h.rc.Mount(n, h.rec.Root()); err != nil {
		h.t.Fatalf("mount: %v", err)
	}
	h.tree = n
}

// Patch reconciles the current tree against next, failing the test on
// error. Use PatchErr when the degradation error itself is under test.
func (h *Harness) Patch(next *vdom.VNode) {
	h.t.Helper()
	if err := h.PatchErr(next); err != nil {
		h.t.Fatalf("patch: %v", err)
	}
}

// PatchErr reconciles the current tree against next and returns the
// traversal error, if any. The new tree becomes current either way, since
// degraded traversals still leave the target matching next.
func (h *Harness) PatchErr(next *vdom.VNode) error {
	h.t.Helper()
	h.rec.Reset()
	err := h.rc.Reconcile(h.tree, next, h.rec.Root())
	h.tree = next
	return err
}

// Unmount removes the current tree, failing the test on error.
func (h *Harness) Unmount() {
	h.t.Helper()
	h.rec.Reset()
	if err := h.rc.Unmount(h.tree); err != nil {
		h.t.Fatalf("unmount: %v", err)
	}
	h.tree = nil
}

// Ops returns the ops recorded since the last step.
func (h *Harness) Ops() []vdom.Op {
	return h.rec.Ops()
}

// Count returns how many recorded ops have the given kind.
func (h *Harness) Count(kind vdom.OpKind) int {
	return h.rec.Count(kind)
}

// ExpectOps asserts the exact kind sequence of the recorded op stream.
//
// Example:
//
//	h.ExpectOps(vdom.OpSetClass, vdom.OpSetText)
func (h *Harness) ExpectOps(kinds ...vdom.OpKind) {
	h.t.Helper()
	ops := h.rec.Ops()
	if len(ops) != len(kinds) {
		h.t.Errorf("recorded %d ops %v, want %d %v", len(ops), kindsOf(ops), len(kinds), kinds)
		return
	}
	for i, op := range ops {
		if op.Kind != kinds[i] {
			h.t.Errorf("op %d = %v, want %v (stream %v)", i, op.Kind, kinds[i], kindsOf(ops))
			return
		}
	}
}

// ExpectCount asserts how many ops of one kind were recorded.
func (h *Harness) ExpectCount(kind vdom.OpKind, want int) {
	h.t.Helper()
	if got := h.rec.Count(kind); got != want {
		h.t.Errorf("%v count = %d, want %d (stream %v)", kind, got, want, kindsOf(h.rec.Ops()))
	}
}

// ExpectQuiet asserts that the last step recorded no ops at all.
func (h *Harness) ExpectQuiet() {
	h.t.Helper()
	if ops := h.rec.Ops(); len(ops) != 0 {
		h.t.Errorf("recorded %d ops %v, want none", len(ops), kindsOf(ops))
	}
}

func kindsOf(ops []vdom.Op) []vdom.OpKind {
	kinds := make([]vdom.OpKind, len(ops))
	for i, op := range ops {
		kinds[i] = op.Kind
	}
	return kinds
}
