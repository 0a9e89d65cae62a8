package vdom

// SuspenseBranch is the content/fallback pair of a suspense node together
// with its resolution state. The reconciler never awaits anything: an
// external async resource completing (or failing) produces a new node via
// Resolve, and the host schedules an ordinary fresh traversal with it.
type SuspenseBranch struct {
	Content  *VNode
	Fallback *VNode

	// Resolved flips once the async dependency completed.
	Resolved bool

	// Err is the async resource failure, if any. A failed resolution
	// shows the fallback branch; it is not a traversal error.
	Err error
}

// NewSuspense creates a suspense node showing fallback until resolved.
func NewSuspense(content, fallback *VNode) *VNode {
	return &VNode{
		Shape:    ShapeSuspense,
		Suspense: &SuspenseBranch{Content: content, Fallback: fallback},
	}
}

// Resolve returns a copy of the suspense node with resolution applied, for
// the host to reconcile against the currently mounted one.
func Resolve(n *VNode, err error) *VNode {
	next := *n
	branch := *n.Suspense
	branch.Resolved = true
	branch.Err = err
	next.Suspense = &branch
	next.Ref = nil
	return &next
}

// activeBranch is the branch currently on screen: content only when the
// dependency resolved cleanly.
func (n *VNode) activeBranch() *VNode {
	if n.Suspense == nil {
		return nil
	}
	if n.Suspense.Resolved && n.Suspense.Err == nil {
		return n.Suspense.Content
	}
	return n.Suspense.Fallback
}

func (w *walk) mountSuspense(n *VNode, parent, anchor Ref) {
	active := n.activeBranch()
	w.mount(active, parent, anchor)
	if active != nil {
		n.Ref = active.Ref
	}
	w.rc.r.InvokeHook(n, HookMounted)
}

// patchSuspense switches between fallback and resolved content when the
// resolution state changed, and otherwise patches the active branch.
func (w *walk) patchSuspense(old, n *VNode, parent, anchor Ref, force bool) {
	oldActive := old.activeBranch()
	newActive := n.activeBranch()
	if old.Suspense == nil || n.Suspense == nil {
		w.patch(oldActive, newActive, parent, anchor, force)
		if newActive != nil {
			n.Ref = newActive.Ref
		}
		return
	}

	oldContent := oldActive == old.Suspense.Content
	newContent := newActive == n.Suspense.Content
	if oldContent != newContent {
		w.mount(newActive, parent, anchor)
		w.unmount(oldActive)
	} else {
		w.patch(oldActive, newActive, parent, anchor, force)
	}
	if newActive != nil {
		n.Ref = newActive.Ref
	}
}
