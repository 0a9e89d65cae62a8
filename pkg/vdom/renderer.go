package vdom

// HookKind identifies a lifecycle hook invocation on the mutation target.
type HookKind uint8

const (
	HookMounted     HookKind = iota // Node entered the target
	HookUpdated                     // Node patched in place
	HookUnmounted                   // Node left the target
	HookActivated                   // Keep-alive reactivation
	HookDeactivated                 // Keep-alive deactivation
	HookRef                         // Ref update (NEED_PATCH)
)

// String returns the string representation of the HookKind.
func (h HookKind) String() string {
	switch h {
	case HookMounted:
		return "Mounted"
	case HookUpdated:
		return "Updated"
	case HookUnmounted:
		return "Unmounted"
	case HookActivated:
		return "Activated"
	case HookDeactivated:
		return "Deactivated"
	case HookRef:
		return "Ref"
	default:
		return "Unknown"
	}
}

// Renderer is the external mutation target. The reconciler drives it with
// primitive operations only; every call is synchronous and idempotent per
// invocation. Implementations bind a real layout backend, record ops for
// the wire, or capture them for tests.
type Renderer interface {
	// CreateElement allocates a target node for tag and returns its handle.
	CreateElement(tag string) Ref

	// CreateText allocates a text node.
	CreateText(text string) Ref

	// SetText replaces the text content of ref.
	SetText(ref Ref, text string)

	// SetClass replaces the class attribute of ref.
	SetClass(ref Ref, class string)

	// SetStyle sets one style property on ref.
	SetStyle(ref Ref, key, value string)

	// RemoveStyle removes one style property from ref.
	RemoveStyle(ref Ref, key string)

	// SetAttr sets one attribute on ref.
	SetAttr(ref Ref, key, value string)

	// RemoveAttr removes one attribute from ref.
	RemoveAttr(ref Ref, key string)

	// Insert places ref under parent before anchor. A nil anchor appends.
	// Moving an already-inserted ref is the same call.
	Insert(ref, parent, anchor Ref)

	// Remove detaches ref from its parent.
	Remove(ref Ref)

	// AttachEvents binds the named listeners to ref.
	AttachEvents(ref Ref, events []string)

	// ResolveTarget resolves a teleport destination selector to a handle.
	ResolveTarget(selector string) (Ref, error)

	// InvokeHook runs a lifecycle hook for node.
	InvokeHook(node *VNode, hook HookKind)
}
