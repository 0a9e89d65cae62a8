//go:build !velo_prod

package vdom

import "fmt"

// Diagnostics reports whether this is a diagnostics build. Production
// builds (-tags velo_prod) compile the name tables and misuse checks out.
const Diagnostics = true

// shapeFlagNames maps each shape bit to its label.
var shapeFlagNames = map[ShapeFlags]string{
	ShapeElement:             "ELEMENT",
	ShapeFunctionalComponent: "FUNCTIONAL_COMPONENT",
	ShapeStatefulComponent:   "STATEFUL_COMPONENT",
	ShapeTextChildren:        "TEXT_CHILDREN",
	ShapeArrayChildren:       "ARRAY_CHILDREN",
	ShapeSlotsChildren:       "SLOTS_CHILDREN",
	ShapeTeleport:            "TELEPORT",
	ShapeSuspense:            "SUSPENSE",
	ShapeShouldKeepAlive:     "SHOULD_KEEP_ALIVE",
	ShapeKeptAlive:           "KEPT_ALIVE",
}

// patchFlagNames maps each patch bit and special value to its label.
var patchFlagNames = map[PatchFlags]string{
	PatchText:            "TEXT",
	PatchClass:           "CLASS",
	PatchStyle:           "STYLE",
	PatchProps:           "PROPS",
	PatchFullProps:       "FULL_PROPS",
	PatchHydrateEvents:   "HYDRATE_EVENTS",
	PatchStableFragment:  "STABLE_FRAGMENT",
	PatchKeyedFragment:   "KEYED_FRAGMENT",
	PatchUnkeyedFragment: "UNKEYED_FRAGMENT",
	PatchNeedPatch:       "NEED_PATCH",
	PatchDynamicSlots:    "DYNAMIC_SLOTS",
	PatchDevRootFragment: "DEV_ROOT_FRAGMENT",
	PatchHoisted:         "HOISTED",
	PatchBail:            "BAIL",
}

// ShapeFlagNames returns the labels for every bit set in f.
func ShapeFlagNames(f ShapeFlags) []string {
	var names []string
	for bit := ShapeFlags(1); bit <= ShapeKeptAlive; bit <<= 1 {
		if f.Has(bit) {
			names = append(names, shapeFlagNames[bit])
		}
	}
	return names
}

// PatchFlagNames returns the labels for f: the special-flag label when f is
// negative, otherwise one label per set bit.
func PatchFlagNames(f PatchFlags) []string {
	if f < 0 {
		if name, ok := patchFlagNames[f]; ok {
			return []string{name}
		}
		return []string{fmt.Sprintf("UNKNOWN(%d)", f)}
	}
	var names []string
	for bit := PatchText; bit <= PatchDevRootFragment; bit <<= 1 {
		if f&bit != 0 {
			names = append(names, patchFlagNames[bit])
		}
	}
	return names
}

// FlagMisuseHandler receives usage errors such as testing positive bits
// against a special flag. Diagnostics builds only; the default panics so
// misuse is caught in development.
var FlagMisuseHandler = func(err error) {
	panic(err)
}

func reportFlagMisuse(f, bits PatchFlags) {
	FlagMisuseHandler(contractViolation(ErrInvalidFlagCombination,
		"bit test %v against special flag %v", PatchFlagNames(bits), PatchFlagNames(f)))
}
