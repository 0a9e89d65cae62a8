// Package protocol implements the binary wire format for Velo op streams.
//
// A traversal over a virtual tree records its mutations as vdom.Op values.
// This package frames and encodes those batches so they can be shipped over
// a WebSocket connection or written to an archive and replayed later.
//
// # Wire Format
//
// All messages are framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Encoding
//
//   - Varint: compact encoding for refs and counts (protobuf-style)
//   - Length-prefixed: strings prefixed with a varint length
//   - Big-endian: fixed-width integers
//
// An op batch is a sequence number, an op count, then one record per op.
// Each record starts with the op kind and target ref; the rest of the
// record depends on the kind. A SetText record is typically under 20
// bytes.
//
// Decoding is strict: unknown op kinds and truncated records fail with an
// error rather than being skipped, since a partially applied batch leaves
// the replayed tree out of sync.
package protocol
