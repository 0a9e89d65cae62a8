// Package stream serves reconciler op batches to live clients.
//
// An Engine owns a tree, a reconciler, and a recording render target.
// Each Apply runs one traversal, encodes the recorded ops as a protocol
// frame, and broadcasts the frame to every subscribed connection. The
// Server exposes the engine over HTTP: a WebSocket endpoint for the op
// stream plus health and Prometheus metrics endpoints.
//
// Every traversal is traced with OpenTelemetry and observed in the
// engine's metrics, including recovered contract violations by category.
package stream
