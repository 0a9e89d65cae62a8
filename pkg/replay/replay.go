package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/velodom/velo/pkg/protocol"
)

// ErrNotFound is returned when a session or frame does not exist.
var ErrNotFound = errors.New("replay: frame not found")

// Store is the interface for archive backends.
type Store interface {
	// Put archives one encoded frame under (session, seq).
	Put(ctx context.Context, session string, seq uint64, frame []byte) error

	// Get retrieves the frame archived under (session, seq).
	Get(ctx context.Context, session string, seq uint64) ([]byte, error)

	// List returns the archived sequence numbers for a session, ascending.
	List(ctx context.Context, session string) ([]uint64, error)

	// Prune removes frames older than maxAge.
	// Call this periodically.
	Prune(ctx context.Context, session string, maxAge time.Duration) error
}

// Archiver drains an engine subscription into a store.
type Archiver struct {
	store   Store
	session string
	logger  *slog.Logger
}

// NewArchiver creates an archiver writing frames under the given session.
func NewArchiver(store Store, session string) *Archiver {
	return &Archiver{
		store:   store,
		session: session,
		logger:  slog.Default().With("component", "replay"),
	}
}

// Run consumes frames until the channel closes or the context is
// canceled. Archive failures are logged and skipped: a lossy archive is
// better than stalling the stream.
func (a *Archiver) Run(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			seq, err := frameSeq(frame)
			if err != nil {
				a.logger.Warn("unarchivable frame skipped", "error", err)
				continue
			}
			if err := a.store.Put(ctx, a.session, seq, frame); err != nil {
				a.logger.Error("archive failed", "seq", seq, "error", err)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// frameSeq extracts the batch sequence number from an encoded ops frame.
func frameSeq(frame []byte) (uint64, error) {
	f, err := protocol.DecodeFrame(frame)
	if err != nil {
		return 0, err
	}
	if f.Type != protocol.FrameOps {
		return 0, fmt.Errorf("replay: frame type %s is not archivable", f.Type)
	}
	b, err := protocol.DecodeBatch(f.Payload)
	if err != nil {
		return 0, err
	}
	return b.Seq, nil
}

// Replay walks a session's archived batches in sequence order, decoding
// each and handing it to apply. It stops on the first apply error.
func Replay(ctx context.Context, store Store, session string, apply func(*protocol.Batch) error) error {
	seqs, err := store.List(ctx, session)
	if err != nil {
		return err
	}
	for _, seq := range seqs {
		frame, err := store.Get(ctx, session, seq)
		if err != nil {
			return err
		}
		f, err := protocol.DecodeFrame(frame)
		if err != nil {
			return fmt.Errorf("replay seq %d: %w", seq, err)
		}
		b, err := protocol.DecodeBatch(f.Payload)
		if err != nil {
			return fmt.Errorf("replay seq %d: %w", seq, err)
		}
		if err := apply(b); err != nil {
			return err
		}
	}
	return nil
}
