// Package vtest provides test helpers for reconciler traversals.
//
// A Harness wraps a vdom.Recorder and a vdom.Reconciler and keeps the
// current tree between steps, so a test reads as mount, patch, assert:
//
//	h := vtest.New(t)
//	h.Mount(vdom.TextElement("div", "one"))
//	h.Patch(vdom.TextElement("div", "two"))
//	h.ExpectOps(vdom.OpSetText)
//
// Assertions operate on the op stream recorded since the last step, which
// is what a traversal would ship to a real render target.
package vtest
