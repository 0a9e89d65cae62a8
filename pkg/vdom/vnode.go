package vdom

import "reflect"

// Props holds attribute values keyed by attribute name.
type Props map[string]any

// Ref is an opaque handle into the mutation target, assigned by the
// Renderer when a node is mounted and carried forward across updates.
type Ref any

// VNode is a node of the virtual tree. Flags and the dynamic-props/block
// lists are owned by the node; the reconciler keeps no state of its own.
type VNode struct {
	Shape ShapeFlags // Structural kind and children layout
	Flags PatchFlags // Compiler-proven dynamic aspects

	Tag   string
	Key   string
	Text  string // For TEXT_CHILDREN layout
	Class string
	Style map[string]string
	Props Props

	// DynamicProps lists exactly the prop keys that may change. Present
	// only when PatchProps is set.
	DynamicProps []string

	Children []*VNode

	// Dynamics is the block list: the materialized, insertion-ordered
	// descendants with nonzero positive patch flags. Membership is fixed
	// after construction; only the referenced nodes' values change.
	Dynamics []*VNode

	// Events names the listeners to attach under PatchHydrateEvents.
	Events []string

	Comp     Component       // Functional or stateful component
	Target   string          // Teleport destination selector
	Suspense *SuspenseBranch // Suspense content/fallback pair

	// Ref is the mutation-target handle for this node's rendered output.
	Ref Ref

	// rendered is the component's current subtree, carried old -> new so
	// updates diff against what is actually mounted.
	rendered *VNode
}

// Element creates an element node. With children it carries array layout;
// bare elements carry no layout bit.
func Element(tag string, children ...*VNode) *VNode {
	n := &VNode{Shape: ShapeElement, Tag: tag}
	if len(children) > 0 {
		n.Shape |= ShapeArrayChildren
		n.Children = children
	}
	return n
}

// TextElement creates an element whose children are a single text run.
func TextElement(tag, text string) *VNode {
	return &VNode{Shape: ShapeElement | ShapeTextChildren, Tag: tag, Text: text}
}

// Fragment creates an unnamed element root with array children and the
// given fragment strategy bit (PatchStableFragment, PatchKeyedFragment or
// PatchUnkeyedFragment; zero selects the full children diff).
func Fragment(strategy PatchFlags, children ...*VNode) *VNode {
	n := &VNode{Shape: ShapeElement | ShapeArrayChildren, Flags: strategy}
	n.Children = children
	return n
}

// NewTeleport creates a teleport node mounting its children into target.
func NewTeleport(target string, children ...*VNode) *VNode {
	return &VNode{
		Shape:    ShapeTeleport | ShapeArrayChildren,
		Target:   target,
		Children: children,
	}
}

// Hoisted marks a node as fully static so updates reuse the prior output.
func Hoisted(n *VNode) *VNode {
	n.Flags = PatchHoisted
	return n
}

// WithKey sets the reconciliation key.
func (n *VNode) WithKey(key string) *VNode {
	n.Key = key
	return n
}

// WithFlags sets the patch flags.
func (n *VNode) WithFlags(flags PatchFlags) *VNode {
	n.Flags = flags
	return n
}

// WithClass sets the class attribute.
func (n *VNode) WithClass(class string) *VNode {
	n.Class = class
	return n
}

// WithStyle sets one style property.
func (n *VNode) WithStyle(key, value string) *VNode {
	if n.Style == nil {
		n.Style = make(map[string]string)
	}
	n.Style[key] = value
	return n
}

// WithProp sets one prop.
func (n *VNode) WithProp(key string, value any) *VNode {
	if n.Props == nil {
		n.Props = make(Props)
	}
	n.Props[key] = value
	return n
}

// WithDynamicProps declares the prop keys that may change.
func (n *VNode) WithDynamicProps(keys ...string) *VNode {
	n.DynamicProps = keys
	return n
}

// WithEvents names the listeners attached under PatchHydrateEvents.
func (n *VNode) WithEvents(events ...string) *VNode {
	n.Events = events
	return n
}

// Block collects dynamic descendants while a subtree is built, the way a
// compiler materializes them, and stamps the list onto the subtree root.
type Block struct {
	dynamics []*VNode
}

// OpenBlock starts collecting dynamic descendants.
func OpenBlock() *Block {
	return &Block{}
}

// Track records n in the block when it carries positive patch flags, and
// returns n unchanged so calls nest inside tree construction.
func (b *Block) Track(n *VNode) *VNode {
	if n != nil && n.Flags > 0 {
		b.dynamics = append(b.dynamics, n)
	}
	return n
}

// Close stamps the collected list onto root and returns it.
func (b *Block) Close(root *VNode) *VNode {
	root.Dynamics = b.dynamics
	if root.Dynamics == nil {
		root.Dynamics = []*VNode{}
	}
	return root
}

// propsEqual compares two prop values, fast paths first.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}
