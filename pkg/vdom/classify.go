package vdom

import "math/bits"

// Kind is a node's primary structural kind.
type Kind uint8

const (
	KindElement Kind = iota
	KindFunctionalComponent
	KindStatefulComponent
	KindTeleport
	KindSuspense
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindFunctionalComponent:
		return "FunctionalComponent"
	case KindStatefulComponent:
		return "StatefulComponent"
	case KindTeleport:
		return "Teleport"
	case KindSuspense:
		return "Suspense"
	default:
		return "Unknown"
	}
}

// Layout is a node's children-layout strategy.
type Layout uint8

const (
	LayoutNone Layout = iota
	LayoutText
	LayoutArray
	LayoutSlots
)

// String returns the string representation of the Layout.
func (l Layout) String() string {
	switch l {
	case LayoutNone:
		return "None"
	case LayoutText:
		return "Text"
	case LayoutArray:
		return "Array"
	case LayoutSlots:
		return "Slots"
	default:
		return "Unknown"
	}
}

const (
	primaryMask = ShapeElement | ShapeFunctionalComponent | ShapeStatefulComponent |
		ShapeTeleport | ShapeSuspense
	layoutMask = ShapeTextChildren | ShapeArrayChildren | ShapeSlotsChildren
)

// Classify maps a shape mask to its primary kind and children layout. More
// than one primary-kind or layout bit is a producer contract violation,
// reported as ErrAmbiguousShape rather than silently resolved.
func Classify(f ShapeFlags) (Kind, Layout, error) {
	primary := f & primaryMask
	if bits.OnesCount32(uint32(primary)) != 1 {
		// FUNCTIONAL|STATEFUL is still one node kind family; anything
		// else doubled up is ambiguous.
		if primary != ShapeComponent {
			return 0, 0, contractViolation(ErrAmbiguousShape,
				"primary bits %v", ShapeFlagNames(f&primaryMask))
		}
	}

	layout := f & layoutMask
	if bits.OnesCount32(uint32(layout)) > 1 {
		return 0, 0, contractViolation(ErrAmbiguousShape,
			"layout bits %v", ShapeFlagNames(layout))
	}

	var kind Kind
	switch {
	case primary.Has(ShapeStatefulComponent):
		kind = KindStatefulComponent
	case primary.Has(ShapeFunctionalComponent):
		kind = KindFunctionalComponent
	case primary.Has(ShapeTeleport):
		kind = KindTeleport
	case primary.Has(ShapeSuspense):
		kind = KindSuspense
	default:
		kind = KindElement
	}

	var lay Layout
	switch layout {
	case ShapeTextChildren:
		lay = LayoutText
	case ShapeArrayChildren:
		lay = LayoutArray
	case ShapeSlotsChildren:
		lay = LayoutSlots
	default:
		lay = LayoutNone
	}

	return kind, lay, nil
}
