// Package replay archives op-batch frames so a session can be replayed.
//
// A Store keeps encoded frames keyed by session and sequence number.
// DiskStore targets the local filesystem; S3Store targets an S3 bucket
// for durable archives. An Archiver drains an engine subscription into a
// store, and Replay walks a stored session in sequence order, handing
// each decoded batch to a callback.
package replay
