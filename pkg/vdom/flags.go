package vdom

// ShapeFlags classifies a node's structural kind and children layout.
// Primary-kind bits and children-layout bits are orthogonal; a well-formed
// node carries exactly one primary-kind bit and at most one layout bit.
type ShapeFlags int32

const (
	ShapeElement             ShapeFlags = 1 << iota // Plain element (<div>, <button>, ...)
	ShapeFunctionalComponent                        // Render function, no persistent instance
	ShapeStatefulComponent                          // Component with a persistent instance
	ShapeTextChildren                               // Children are a single text run
	ShapeArrayChildren                              // Children are a node list
	ShapeSlotsChildren                              // Children are named slots
	ShapeTeleport                                   // Content mounts into a declared target
	ShapeSuspense                                   // Switches between fallback and content
	ShapeShouldKeepAlive                            // Deactivate-and-cache instead of destroy
	ShapeKeptAlive                                  // Restored from the keep-alive cache
)

// ShapeComponent matches either component variant.
const ShapeComponent = ShapeFunctionalComponent | ShapeStatefulComponent

// PatchFlags marks which aspects of a node the producer has proven dynamic.
// Positive values are a bitmask; the negative values are special flags that
// are never combined with anything and are tested by equality.
type PatchFlags int32

const (
	PatchText           PatchFlags = 1 << iota // Dynamic text content
	PatchClass                                 // Dynamic class attribute
	PatchStyle                                 // Dynamic style properties
	PatchProps                                 // Dynamic props listed in DynamicProps
	PatchFullProps                             // Key set itself is dynamic; full walk
	PatchHydrateEvents                         // Listeners absent from server markup
	PatchStableFragment                        // Child order never changes
	PatchKeyedFragment                         // Children carry reconciliation keys
	PatchUnkeyedFragment                       // Positional children, length may change
	PatchNeedPatch                             // Always run ref/hook updates
	PatchDynamicSlots                          // Force the full component update
	PatchDevRootFragment                       // Diagnostics-only root fragment marker
)

const (
	// PatchHoisted marks a node proven fully static. The prior rendered
	// output is reused verbatim, subtree included.
	PatchHoisted PatchFlags = -1

	// PatchBail forces the flag-independent full diff for the subtree.
	PatchBail PatchFlags = -2
)

// Has reports whether any of the given bits are set.
func (f ShapeFlags) Has(bits ShapeFlags) bool {
	return f&bits != 0
}

// IsComponent reports whether the node is either component variant.
func (f ShapeFlags) IsComponent() bool {
	return f.Has(ShapeComponent)
}

// CombineShape ORs shape flags together.
func CombineShape(flags ...ShapeFlags) ShapeFlags {
	var out ShapeFlags
	for _, f := range flags {
		out |= f
	}
	return out
}

// IsSpecial reports whether f is one of the negative special flags.
// Callers must branch on this before testing positive bits.
func (f PatchFlags) IsSpecial() bool {
	return f < 0
}

// IsHoisted reports whether f is exactly PatchHoisted.
func (f PatchFlags) IsHoisted() bool {
	return f == PatchHoisted
}

// IsBail reports whether f is exactly PatchBail.
func (f PatchFlags) IsBail() bool {
	return f == PatchBail
}

// Has reports whether any of the given bits are set. Testing bits against a
// special flag is a caller bug: in diagnostics builds it is reported as a
// usage error, and the result is always false rather than a meaningless
// bitwise value.
func (f PatchFlags) Has(bits PatchFlags) bool {
	if f < 0 {
		reportFlagMisuse(f, bits)
		return false
	}
	return f&bits != 0
}

// CombinePatch ORs patch flags together. Special flags cannot be combined
// with anything; any negative operand yields ErrInvalidFlagCombination.
func CombinePatch(flags ...PatchFlags) (PatchFlags, error) {
	var out PatchFlags
	for _, f := range flags {
		if f < 0 {
			return 0, contractViolation(ErrInvalidFlagCombination,
				"special flag %d cannot be combined", f)
		}
		out |= f
	}
	return out, nil
}
