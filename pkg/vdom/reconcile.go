package vdom

import (
	"errors"
	"fmt"
	"strconv"
)

// Reconciler is the dual-mode diff/patch engine. It is a pure function of
// an (old, new) node pair plus the mutation target: per-pair traversal is
// single-threaded, synchronous, and never yields mid-walk.
type Reconciler struct {
	r           Renderer
	cache       *KeepAliveCache
	onViolation func(error)
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithKeepAliveCache supplies the cache for keep-alive component instances.
func WithKeepAliveCache(c *KeepAliveCache) Option {
	return func(rc *Reconciler) {
		rc.cache = c
	}
}

// WithViolationHandler observes recovered contract and structure errors as
// they happen, in addition to the joined error Reconcile returns.
func WithViolationHandler(fn func(error)) Option {
	return func(rc *Reconciler) {
		rc.onViolation = fn
	}
}

// New creates a Reconciler driving the given mutation target.
func New(r Renderer, opts ...Option) *Reconciler {
	rc := &Reconciler{r: r, cache: NewKeepAliveCache()}
	for _, opt := range opts {
		opt(rc)
	}
	return rc
}

// Mount renders n into container from scratch.
func (rc *Reconciler) Mount(n *VNode, container Ref) error {
	w := &walk{rc: rc}
	w.mount(n, container, nil)
	return errors.Join(w.errs...)
}

// Unmount removes n's rendered output from the target.
func (rc *Reconciler) Unmount(n *VNode) error {
	w := &walk{rc: rc}
	w.unmount(n)
	return errors.Join(w.errs...)
}

// Reconcile patches the target from old to next inside container. Producer
// contract violations and structural mismatches never abort the walk: the
// affected subtree degrades to the full diff and the recovered errors are
// returned joined, for diagnostics.
func (rc *Reconciler) Reconcile(old, next *VNode, container Ref) error {
	w := &walk{rc: rc}
	w.patch(old, next, container, nil, false)
	return errors.Join(w.errs...)
}

// walk is the per-traversal state: the target plus recovered errors.
// Nothing in it survives the traversal.
type walk struct {
	rc   *Reconciler
	errs []error
}

func (w *walk) violation(err error) {
	w.errs = append(w.errs, err)
	if w.rc.onViolation != nil {
		w.rc.onViolation(err)
	}
}

// sameNode reports whether old and n describe the same logical node, so a
// patch in place is valid. Anything else is a replace.
func sameNode(old, n *VNode) bool {
	if old == nil || n == nil {
		return false
	}
	return old.Shape&primaryMask == n.Shape&primaryMask &&
		old.Tag == n.Tag && old.Key == n.Key
}

// patch is the per-pair state machine. force carries the BAIL contract:
// full diff for the whole subtree, block lists and flags ignored.
func (w *walk) patch(old, n *VNode, parent, anchor Ref, force bool) {
	if old == nil && n == nil {
		return
	}
	if old == nil {
		w.mount(n, parent, anchor)
		return
	}
	if n == nil {
		w.unmount(old)
		return
	}
	if !sameNode(old, n) {
		w.replace(old, n, parent, anchor)
		return
	}

	// Special-flag check comes before any comparison.
	if !force && n.Flags.IsHoisted() {
		w.reuseHoisted(old, n)
		return
	}
	if n.Flags.IsBail() || old.Flags.IsBail() {
		force = true
	}

	kind, layout, err := Classify(n.Shape)
	if err != nil {
		// Producer violation: report, then degrade to the full diff
		// with the loosest reading of the mask instead of crashing.
		w.violation(err)
		kind, layout = classifyLoose(n.Shape)
		force = true
	}

	switch kind {
	case KindElement:
		w.patchElement(old, n, layout, force)
	case KindFunctionalComponent, KindStatefulComponent:
		w.patchComponent(old, n, kind, parent, anchor, force)
	case KindTeleport:
		w.patchTeleport(old, n, force)
	case KindSuspense:
		w.patchSuspense(old, n, parent, anchor, force)
	}
}

// classifyLoose resolves an ambiguous mask by first set bit, for the
// degraded path only.
func classifyLoose(f ShapeFlags) (Kind, Layout) {
	kind := KindElement
	switch {
	case f.Has(ShapeElement):
		kind = KindElement
	case f.Has(ShapeFunctionalComponent):
		kind = KindFunctionalComponent
	case f.Has(ShapeStatefulComponent):
		kind = KindStatefulComponent
	case f.Has(ShapeTeleport):
		kind = KindTeleport
	case f.Has(ShapeSuspense):
		kind = KindSuspense
	}
	layout := LayoutNone
	switch {
	case f.Has(ShapeTextChildren):
		layout = LayoutText
	case f.Has(ShapeArrayChildren):
		layout = LayoutArray
	case f.Has(ShapeSlotsChildren):
		layout = LayoutSlots
	}
	return kind, layout
}

// reuseHoisted reuses the prior rendered output verbatim: no comparisons,
// no mutation calls, subtree included.
func (w *walk) reuseHoisted(old, n *VNode) {
	n.Ref = old.Ref
	n.rendered = old.rendered
	if n != old && n.Children == nil {
		n.Children = old.Children
	}
}

func (w *walk) replace(old, n *VNode, parent, anchor Ref) {
	w.mount(n, parent, anchor)
	w.unmount(old)
}

// patchElement runs the element structural path: flag-scoped work when the
// patch flag is positive, the full diff otherwise.
func (w *walk) patchElement(old, n *VNode, layout Layout, force bool) {
	n.Ref = old.Ref

	pf := n.Flags
	if force || pf <= 0 {
		w.fullDiffElement(old, n, force)
		return
	}

	// Each bit is tested independently and scopes exactly its own work.
	if pf.Has(PatchFullProps) {
		// FULL_PROPS supersedes PROPS when both are set: it is the
		// superset capability, detecting removed keys too.
		if pf.Has(PatchProps) {
			w.violation(contractViolation(ErrInvalidFlagCombination,
				"PROPS and FULL_PROPS on one node; FULL_PROPS wins"))
		}
		w.diffProps(old, n)
	} else if pf.Has(PatchProps) {
		if n.DynamicProps == nil {
			w.violation(contractViolation(ErrMissingDynamicProps, "tag %q", n.Tag))
			w.diffProps(old, n)
		} else {
			w.diffDynamicProps(old, n)
		}
	}
	if pf.Has(PatchClass) && old.Class != n.Class {
		w.rc.r.SetClass(n.Ref, n.Class)
	}
	if pf.Has(PatchStyle) {
		w.diffStyle(old, n)
	}
	if pf.Has(PatchText) && old.Text != n.Text {
		w.rc.r.SetText(n.Ref, n.Text)
	}
	if pf.Has(PatchHydrateEvents) {
		w.rc.r.AttachEvents(n.Ref, n.Events)
	}
	if pf.Has(PatchNeedPatch) {
		w.rc.r.InvokeHook(n, HookRef)
	}

	if layout == LayoutArray {
		w.patchArrayChildren(old, n, pf, force)
	}
}

// patchArrayChildren selects the fragment strategy, preferring the block's
// dynamic-descendant list when static recursion can be skipped.
func (w *walk) patchArrayChildren(old, n *VNode, pf PatchFlags, force bool) {
	switch {
	case pf.Has(PatchKeyedFragment):
		w.patchKeyedChildren(old.Children, n.Children, n.Ref, force)
	case pf.Has(PatchUnkeyedFragment):
		w.patchUnkeyedChildren(old.Children, n.Children, n.Ref, force)
	case old.Dynamics != nil && n.Dynamics != nil:
		w.patchBlock(old, n)
	case pf.Has(PatchStableFragment):
		w.patchStableChildren(old, n, force)
	default:
		w.fullDiffChildren(old, n, force)
	}
}

// patchBlock iterates only the block's dynamic descendants, paired by list
// index. Misalignment is fatal for the optimized path of this subtree only.
func (w *walk) patchBlock(old, n *VNode) {
	if len(old.Dynamics) != len(n.Dynamics) {
		w.violation(structureError(ErrBlockMisaligned,
			"old %d dynamic nodes, new %d", len(old.Dynamics), len(n.Dynamics)))
		w.fullDiffChildren(old, n, false)
		return
	}
	// The list pairs descendants positionally but carries no parent refs.
	// A replaced entry would need its true parent to re-insert, so that
	// case degrades to the full diff, which walks the real structure.
	for i := range n.Dynamics {
		if !sameNode(old.Dynamics[i], n.Dynamics[i]) {
			w.violation(structureError(ErrBlockMisaligned,
				"dynamic node %d replaced inside block", i))
			w.fullDiffChildren(old, n, false)
			return
		}
	}
	for i := range n.Dynamics {
		w.patch(old.Dynamics[i], n.Dynamics[i], n.Ref, nil, false)
	}
}

// fullDiffElement is the safety net: every attribute, every child, no
// hints. force propagates the BAIL contract into descendants.
func (w *walk) fullDiffElement(old, n *VNode, force bool) {
	if old.Class != n.Class {
		w.rc.r.SetClass(n.Ref, n.Class)
	}
	w.diffStyle(old, n)
	w.diffProps(old, n)

	switch {
	case n.Shape.Has(ShapeTextChildren):
		if old.Text != n.Text {
			w.rc.r.SetText(n.Ref, n.Text)
		}
	case n.Shape.Has(ShapeArrayChildren):
		// A zero patch flag only means this node's own aspects carry
		// no hints; the block list still stands unless BAIL or a
		// violation forced the whole subtree down.
		if !force && old.Dynamics != nil && n.Dynamics != nil {
			w.patchBlock(old, n)
		} else {
			w.fullDiffChildren(old, n, force)
		}
	}
}

// diffDynamicProps compares only the keys the producer listed. Removed keys
// are by contract impossible here: the key set is stable.
func (w *walk) diffDynamicProps(old, n *VNode) {
	for _, key := range n.DynamicProps {
		prev, next := old.Props[key], n.Props[key]
		if !propsEqual(prev, next) {
			w.rc.r.SetAttr(n.Ref, key, propToString(next))
		}
	}
}

// diffProps enumerates both full prop sets: changed and added keys are set,
// keys absent from the new node are removed.
func (w *walk) diffProps(old, n *VNode) {
	for key, prev := range old.Props {
		next, ok := n.Props[key]
		if !ok {
			w.rc.r.RemoveAttr(n.Ref, key)
		} else if !propsEqual(prev, next) {
			w.rc.r.SetAttr(n.Ref, key, propToString(next))
		}
	}
	for key, next := range n.Props {
		if _, ok := old.Props[key]; !ok {
			w.rc.r.SetAttr(n.Ref, key, propToString(next))
		}
	}
}

func (w *walk) diffStyle(old, n *VNode) {
	for key, prev := range old.Style {
		next, ok := n.Style[key]
		if !ok {
			w.rc.r.RemoveStyle(n.Ref, key)
		} else if prev != next {
			w.rc.r.SetStyle(n.Ref, key, next)
		}
	}
	for key, next := range n.Style {
		if _, ok := old.Style[key]; !ok {
			w.rc.r.SetStyle(n.Ref, key, next)
		}
	}
}

// mount renders n into the target under parent, before anchor.
func (w *walk) mount(n *VNode, parent, anchor Ref) {
	if n == nil {
		return
	}

	kind, layout, err := Classify(n.Shape)
	if err != nil {
		w.violation(err)
		kind, layout = classifyLoose(n.Shape)
	}

	switch kind {
	case KindElement:
		w.mountElement(n, parent, anchor, layout)
	case KindFunctionalComponent, KindStatefulComponent:
		w.mountComponent(n, kind, parent, anchor)
	case KindTeleport:
		w.mountTeleport(n)
	case KindSuspense:
		w.mountSuspense(n, parent, anchor)
	}
}

func (w *walk) mountElement(n *VNode, parent, anchor Ref, layout Layout) {
	r := w.rc.r
	ref := r.CreateElement(n.Tag)
	n.Ref = ref

	if n.Class != "" {
		r.SetClass(ref, n.Class)
	}
	for key, value := range n.Style {
		r.SetStyle(ref, key, value)
	}
	for key, value := range n.Props {
		r.SetAttr(ref, key, propToString(value))
	}
	if len(n.Events) > 0 {
		r.AttachEvents(ref, n.Events)
	}

	switch layout {
	case LayoutText:
		r.SetText(ref, n.Text)
	case LayoutArray:
		for _, child := range n.Children {
			w.mount(child, ref, nil)
		}
	}

	r.Insert(ref, parent, anchor)
	r.InvokeHook(n, HookMounted)
}

// unmount removes n's output, honoring keep-alive for components.
func (w *walk) unmount(n *VNode) {
	if n == nil {
		return
	}
	// Components get their lifecycle teardown even when their render
	// produced no output and left Ref unset.
	if n.Shape.IsComponent() {
		w.unmountComponent(n)
		return
	}
	if n.Ref == nil {
		return
	}
	if n.Shape.Has(ShapeTeleport) {
		for _, child := range n.Children {
			w.unmount(child)
		}
		return
	}
	if n.Shape.Has(ShapeSuspense) {
		w.unmount(n.activeBranch())
		return
	}
	w.rc.r.InvokeHook(n, HookUnmounted)
	w.rc.r.Remove(n.Ref)
}

// propToString renders a prop value for the mutation target.
func propToString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
