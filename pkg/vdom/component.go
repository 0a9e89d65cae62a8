package vdom

// Component is either a RenderFunc (functional) or an Instance (stateful).
// The shape flag on the carrying node decides which path runs.
type Component any

// RenderFunc is a functional component: re-invoked with the new inputs on
// every update, no persistent instance.
type RenderFunc func(props Props) *VNode

// Instance is a stateful component's persistent instance. Exactly one
// traversal at a time touches an instance; the reconciler never retains it
// beyond the nodes that carry it.
type Instance interface {
	// Mount produces the initial subtree for props.
	Mount(props Props) *VNode

	// Update re-renders against the persistent state with new props.
	Update(props Props) *VNode

	// Unmount releases the instance for good.
	Unmount()

	// Deactivate caches the instance instead of destroying it.
	Deactivate()

	// Activate restores a previously deactivated instance.
	Activate()
}

// Functional creates a functional component node.
func Functional(fn RenderFunc) *VNode {
	return &VNode{Shape: ShapeFunctionalComponent, Comp: fn}
}

// Stateful creates a stateful component node around a persistent instance.
func Stateful(inst Instance) *VNode {
	return &VNode{Shape: ShapeStatefulComponent, Comp: inst}
}

// KeepAlive marks a component node for deactivate-and-cache on unmount.
// The flag flips to ShapeKeptAlive once the cached node is restored.
func KeepAlive(n *VNode) *VNode {
	n.Shape |= ShapeShouldKeepAlive
	return n
}

// KeepAliveCache holds deactivated component nodes keyed by their
// reconciliation key (falling back to tag for unkeyed components).
type KeepAliveCache struct {
	entries map[string]*VNode
}

// NewKeepAliveCache creates an empty cache.
func NewKeepAliveCache() *KeepAliveCache {
	return &KeepAliveCache{entries: make(map[string]*VNode)}
}

// Len returns the number of cached instances.
func (c *KeepAliveCache) Len() int {
	return len(c.entries)
}

func (c *KeepAliveCache) store(key string, n *VNode) {
	c.entries[key] = n
}

func (c *KeepAliveCache) take(key string) (*VNode, bool) {
	n, ok := c.entries[key]
	if ok {
		delete(c.entries, key)
	}
	return n, ok
}

func cacheKey(n *VNode) string {
	if n.Key != "" {
		return n.Key
	}
	return n.Tag
}

// patchComponent runs the component update path. force bypasses the
// prop-equality short-circuit, as does DYNAMIC_SLOTS.
func (w *walk) patchComponent(old, n *VNode, kind Kind, parent, anchor Ref, force bool) {
	if n.Comp == nil {
		n.Comp = old.Comp
	}

	if !force && !w.componentNeedsUpdate(old, n) {
		// Nothing dynamic changed: keep the mounted subtree.
		n.rendered = old.rendered
		n.Ref = old.Ref
		return
	}

	var next *VNode
	switch kind {
	case KindFunctionalComponent:
		fn, ok := n.Comp.(RenderFunc)
		if !ok {
			w.violation(contractViolation(ErrAmbiguousShape,
				"functional shape with %T component", n.Comp))
			n.rendered = old.rendered
			n.Ref = old.Ref
			return
		}
		next = fn(n.Props)
	default:
		inst, ok := n.Comp.(Instance)
		if !ok {
			w.violation(contractViolation(ErrAmbiguousShape,
				"stateful shape with %T component", n.Comp))
			n.rendered = old.rendered
			n.Ref = old.Ref
			return
		}
		next = inst.Update(n.Props)
	}

	w.patch(old.rendered, next, parent, anchor, force)
	n.rendered = next
	if next != nil {
		n.Ref = next.Ref
	}
	w.rc.r.InvokeHook(n, HookUpdated)

	if n.Flags > 0 && n.Flags.Has(PatchNeedPatch) {
		w.rc.r.InvokeHook(n, HookRef)
	}
}

// componentNeedsUpdate is the prop-equality short-circuit. DYNAMIC_SLOTS
// forces the full update unconditionally; slot content can change without
// any prop comparison noticing.
func (w *walk) componentNeedsUpdate(old, n *VNode) bool {
	pf := n.Flags
	if pf > 0 {
		if pf.Has(PatchDynamicSlots) {
			return true
		}
		if pf.Has(PatchFullProps) {
			return !propsMapsEqual(old.Props, n.Props)
		}
		if pf.Has(PatchProps) {
			if n.DynamicProps == nil {
				w.violation(contractViolation(ErrMissingDynamicProps,
					"component %q", cacheKey(n)))
				return true
			}
			for _, key := range n.DynamicProps {
				if !propsEqual(old.Props[key], n.Props[key]) {
					return true
				}
			}
			return false
		}
		// Positive flags without prop bits: children/text level changes
		// still require the render to run.
		return pf&(PatchText|PatchClass|PatchStyle|PatchNeedPatch) != 0
	}
	// Unoptimized node: compare what we have.
	return !propsMapsEqual(old.Props, n.Props)
}

func propsMapsEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for key, av := range a {
		bv, ok := b[key]
		if !ok || !propsEqual(av, bv) {
			return false
		}
	}
	return true
}

// mountComponent renders a component for the first time, or reactivates it
// from the keep-alive cache.
func (w *walk) mountComponent(n *VNode, kind Kind, parent, anchor Ref) {
	if n.Shape.Has(ShapeKeptAlive) {
		if cached, ok := w.rc.cache.take(cacheKey(n)); ok {
			n.Comp = cached.Comp
			n.rendered = cached.rendered
			n.Ref = cached.Ref
			if inst, ok := n.Comp.(Instance); ok {
				inst.Activate()
			}
			w.rc.r.Insert(n.Ref, parent, anchor)
			w.rc.r.InvokeHook(n, HookActivated)
			return
		}
		// Cache miss: mount fresh below.
		n.Shape &^= ShapeKeptAlive
	}

	var sub *VNode
	switch kind {
	case KindFunctionalComponent:
		fn, ok := n.Comp.(RenderFunc)
		if !ok {
			w.violation(contractViolation(ErrAmbiguousShape,
				"functional shape with %T component", n.Comp))
			return
		}
		sub = fn(n.Props)
	default:
		inst, ok := n.Comp.(Instance)
		if !ok {
			w.violation(contractViolation(ErrAmbiguousShape,
				"stateful shape with %T component", n.Comp))
			return
		}
		sub = inst.Mount(n.Props)
	}

	w.mount(sub, parent, anchor)
	n.rendered = sub
	if sub != nil {
		n.Ref = sub.Ref
	}
	w.rc.r.InvokeHook(n, HookMounted)
}

// unmountComponent destroys or deactivates the component's output.
func (w *walk) unmountComponent(n *VNode) {
	if n.Shape.Has(ShapeShouldKeepAlive) {
		if inst, ok := n.Comp.(Instance); ok {
			inst.Deactivate()
		}
		cached := &VNode{
			Shape:    (n.Shape &^ ShapeShouldKeepAlive) | ShapeKeptAlive,
			Comp:     n.Comp,
			Ref:      n.Ref,
			rendered: n.rendered,
		}
		w.rc.cache.store(cacheKey(n), cached)
		if n.Ref != nil {
			w.rc.r.Remove(n.Ref)
		}
		w.rc.r.InvokeHook(n, HookDeactivated)
		return
	}
	if inst, ok := n.Comp.(Instance); ok {
		inst.Unmount()
	}
	w.unmount(n.rendered)
	w.rc.r.InvokeHook(n, HookUnmounted)
}
