package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/velodom/velo/pkg/protocol"
	"github.com/velodom/velo/pkg/vdom"
)

const defaultTracerName = "velo"

// Engine owns a tree and broadcasts the op batch of every traversal to
// its subscribers. All traversal state is guarded by one mutex: a batch
// on the wire always reflects exactly one Apply.
type Engine struct {
	mu     sync.Mutex
	rec    *vdom.Recorder
	rc     *vdom.Reconciler
	tree   *vdom.VNode
	seq    uint64
	logger *slog.Logger
	m      *Metrics
	tracer trace.Tracer

	subMu sync.Mutex
	subs  map[chan []byte]struct{}
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger     *slog.Logger
	metrics    *Metrics
	tracerName string
	rcOpts     []vdom.Option
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the engine metrics. Nil disables recording.
func WithMetrics(m *Metrics) EngineOption {
	return func(c *engineConfig) {
		c.metrics = m
	}
}

// WithTracerName sets the tracer name used for traversal spans.
func WithTracerName(name string) EngineOption {
	return func(c *engineConfig) {
		c.tracerName = name
	}
}

// WithReconcilerOptions passes options through to the engine's reconciler.
func WithReconcilerOptions(opts ...vdom.Option) EngineOption {
	return func(c *engineConfig) {
		c.rcOpts = append(c.rcOpts, opts...)
	}
}

// NewEngine creates an engine with an empty tree.
func NewEngine(opts ...EngineOption) *Engine {
	config := engineConfig{
		logger:     slog.Default().With("component", "stream"),
		tracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(&config)
	}

	e := &Engine{
		rec:    vdom.NewRecorder(),
		logger: config.logger,
		m:      config.metrics,
		tracer: otel.Tracer(config.tracerName),
		subs:   make(map[chan []byte]struct{}),
	}

	rcOpts := append([]vdom.Option{
		vdom.WithViolationHandler(e.observeViolation),
	}, config.rcOpts...)
	e.rc = vdom.New(e.rec, rcOpts...)
	return e
}

// observeViolation counts and logs one recovered violation.
func (e *Engine) observeViolation(err error) {
	category := string(vdom.CategoryStructure)
	var verr *vdom.Error
	if errors.As(err, &verr) {
		category = string(verr.Category)
	}
	e.m.RecordViolation(category)
	e.logger.Warn("traversal degraded", "category", category, "error", err)
}

// RegisterTarget registers a teleport destination on the render target.
func (e *Engine) RegisterTarget(selector string) vdom.Ref {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.RegisterTarget(selector)
}

// Mount installs n as the engine's tree and broadcasts the mount batch.
func (e *Engine) Mount(ctx context.Context, n *vdom.VNode) error {
	return e.traverse(ctx, "stream.mount", func() error {
		err := e.rc.Mount(n, e.rec.Root())
		e.tree = n
		return err
	})
}

// Apply reconciles the current tree against next and broadcasts the
// recorded batch. Recovered violations are returned after the batch has
// been sent; the target still matches next.
func (e *Engine) Apply(ctx context.Context, next *vdom.VNode) error {
	return e.traverse(ctx, "stream.apply", func() error {
		err := e.rc.Reconcile(e.tree, next, e.rec.Root())
		e.tree = next
		return err
	})
}

func (e *Engine) traverse(ctx context.Context, spanName string, step func() error) error {
	_, span := e.tracer.Start(ctx, spanName)
	defer span.End()

	e.mu.Lock()
	e.rec.Reset()
	start := time.Now()
	err := step()
	elapsed := time.Since(start)

	ops := make([]vdom.Op, len(e.rec.Ops()))
	copy(ops, e.rec.Ops())
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	status := "ok"
	if err != nil {
		status = "degraded"
		span.RecordError(err)
		span.SetStatus(codes.Error, "traversal degraded")
	}
	span.SetAttributes(
		attribute.Int("velo.ops", len(ops)),
		attribute.Int64("velo.seq", int64(seq)),
	)
	e.m.RecordTraversal(status, elapsed.Seconds(), len(ops))

	frame, encErr := encodeOpsFrame(seq, ops, err != nil)
	if encErr != nil {
		e.logger.Error("batch encode failed", "seq", seq, "error", encErr)
		return encErr
	}
	e.broadcast(frame)
	e.logger.Debug("batch sent", "seq", seq, "ops", len(ops), "status", status)
	return err
}

// encodeOpsFrame encodes a batch into a ready-to-send ops frame.
func encodeOpsFrame(seq uint64, ops []vdom.Op, degraded bool) ([]byte, error) {
	payload, err := protocol.EncodeBatch(&protocol.Batch{Seq: seq, Ops: ops})
	if err != nil {
		return nil, err
	}
	// The 2-byte header length field silently wraps past MaxPayloadSize,
	// so an oversized batch must never reach Encode.
	if len(payload) > protocol.MaxPayloadSize {
		return nil, fmt.Errorf("%w: batch %d encodes %d ops to %d bytes",
			protocol.ErrFrameTooLarge, seq, len(ops), len(payload))
	}
	f := protocol.NewFrame(protocol.FrameOps, payload)
	f.Flags = protocol.FlagFinal
	if degraded {
		f.Flags |= protocol.FlagDegraded
	}
	return f.Encode(), nil
}

// Subscribe registers a subscriber channel for encoded frames. Slow
// subscribers drop frames rather than blocking the traversal path.
func (e *Engine) Subscribe() chan []byte {
	ch := make(chan []byte, 16)
	e.subMu.Lock()
	e.subs[ch] = struct{}{}
	e.subMu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber channel.
func (e *Engine) Unsubscribe(ch chan []byte) {
	e.subMu.Lock()
	delete(e.subs, ch)
	e.subMu.Unlock()
}

func (e *Engine) broadcast(frame []byte) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	for ch := range e.subs {
		select {
		case ch <- frame:
		default:
			e.logger.Warn("subscriber lagging, frame dropped")
		}
	}
	e.m.RecordBatch()
}
