// Package vdom implements a flag-driven virtual tree and its dual-mode
// reconciler.
//
// Nodes carry two orthogonal bit-flag families. ShapeFlags classify what a
// node is (element, component variant, teleport, suspense) and how its
// children are laid out (text, array, slots). PatchFlags mark which aspects
// of a node the producer has proven dynamic, so an update compares only
// those aspects; the negative special values PatchHoisted and PatchBail are
// never combined with bits and are tested by equality.
//
// # Reconciliation
//
// The Reconciler patches a matched (old, new) node pair against a Renderer,
// the external mutation target. Shape flags select the structural path,
// patch flags scope the work inside it, and a block's materialized
// dynamic-descendant list (VNode.Dynamics) replaces whole-subtree recursion
// so cost tracks the number of dynamic nodes, not tree size.
//
// Whenever the optimization hints cannot be trusted — hand-built trees,
// PatchBail, producer contract violations, misaligned block lists — the
// affected subtree degrades to a full, flag-independent diff. The walk is
// never aborted half-applied.
//
// # Diagnostics
//
// Flag name lookups and misuse checks exist only in diagnostics builds;
// compiling with -tags velo_prod removes them entirely.
package vdom
