package vdom

// mountTeleport mounts the teleport's children into its declared target.
// The teleport node itself renders nothing; its ref is the resolved
// container.
func (w *walk) mountTeleport(n *VNode) {
	container, err := w.rc.r.ResolveTarget(n.Target)
	if err != nil {
		w.violation(structureError(ErrBlockMisaligned,
			"teleport target %q: %v", n.Target, err))
		return
	}
	n.Ref = container
	for _, child := range n.Children {
		w.mount(child, container, nil)
	}
	w.rc.r.InvokeHook(n, HookMounted)
}

// patchTeleport resolves the new destination, moves the rendered content
// when it changed, then patches children inside the active container.
func (w *walk) patchTeleport(old, n *VNode, force bool) {
	container := old.Ref
	if n.Target != old.Target {
		resolved, err := w.rc.r.ResolveTarget(n.Target)
		if err != nil {
			// Unresolvable destination: keep patching in place, the
			// move waits for a later traversal with a valid target.
			w.violation(structureError(ErrBlockMisaligned,
				"teleport target %q: %v", n.Target, err))
		} else {
			container = resolved
			for _, child := range old.Children {
				if child != nil && child.Ref != nil {
					w.rc.r.Insert(child.Ref, container, nil)
				}
			}
		}
	}
	n.Ref = container

	if force || n.Flags <= 0 {
		w.fullDiffChildren(old, n, force)
		return
	}
	w.patchArrayChildren(old, n, n.Flags, force)
}
