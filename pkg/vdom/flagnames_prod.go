//go:build velo_prod

package vdom

// Diagnostics reports whether this is a diagnostics build.
const Diagnostics = false

// ShapeFlagNames returns nil in production builds.
func ShapeFlagNames(ShapeFlags) []string { return nil }

// PatchFlagNames returns nil in production builds.
func PatchFlagNames(PatchFlags) []string { return nil }

func reportFlagMisuse(PatchFlags, PatchFlags) {}
