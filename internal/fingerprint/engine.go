package fingerprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// State is the lifecycle position of an Engine.
type State int

const (
	StateIdle State = iota
	StateOpened
	StateScanning
	StateFinalized
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpened:
		return "opened"
	case StateScanning:
		return "scanning"
	case StateFinalized:
		return "finalized"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ProgressFunc receives the cumulative number of payload bytes hashed.
// It runs synchronously on the scanning goroutine and must return quickly.
type ProgressFunc func(bytesHashed int64)

// Option customizes an Engine.
type Option func(*Engine)

// WithAlgorithm selects the stream hash. The default is SHA256.
func WithAlgorithm(alg Algorithm) Option {
	return func(e *Engine) {
		if alg != "" {
			e.alg = alg
		}
	}
}

// WithProgress installs a progress sink. Without one no notifications are
// produced.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithProgressInterval overrides DefaultProgressInterval.
func WithProgressInterval(bytes int64) Option {
	return func(e *Engine) {
		e.interval = bytes
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine drives one scan session: it opens a Source, routes every packet to
// its stream accumulator and combines the sealed digests.
//
// An Engine is not safe for concurrent use. Fingerprint several files in
// parallel by giving each goroutine its own Engine and Source.
type Engine struct {
	src      Source
	alg      Algorithm
	interval int64
	progress ProgressFunc
	logger   *slog.Logger

	state   State
	path    string
	held    bool
	streams int
	acc     *Accumulators
	result  Result
	err     error
}

// New returns an idle engine reading from src.
func New(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:      src,
		alg:      SHA256,
		interval: DefaultProgressInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Path returns the path of the current or last session.
func (e *Engine) Path() string {
	return e.path
}

// Err returns the error that moved the engine to StateFailed.
func (e *Engine) Err() error {
	return e.err
}

// Algorithm returns the configured stream hash.
func (e *Engine) Algorithm() Algorithm {
	return e.alg
}

// Open starts a new session for path. Any previous session is discarded and
// its source released first. On failure the engine is left in StateFailed
// with no accumulators allocated.
func (e *Engine) Open(path string) error {
	e.release()
	e.discard()
	e.state = StateIdle
	e.path = path

	count, err := e.src.Open(path)
	if err != nil {
		_ = e.src.Close()
		return e.fail(err)
	}
	e.held = true
	if count <= 0 {
		return e.fail(fmt.Errorf("%w: %s reports %d streams", ErrEmptyContainer, path, count))
	}

	acc, err := NewAccumulators(count, e.alg)
	if err != nil {
		return e.fail(err)
	}
	e.acc = acc
	e.streams = count
	e.state = StateOpened
	e.logger.Debug("container opened",
		"path", path,
		"streams", count,
		"algorithm", e.alg.String(),
	)
	return nil
}

// Scan drains the open source and finalizes the fingerprint. The context is
// checked between packet reads; cancelling it fails the scan.
func (e *Engine) Scan(ctx context.Context) error {
	if e.state != StateOpened {
		return fmt.Errorf("%w: scan requested while %s", ErrInvalidState, e.state)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	e.state = StateScanning

	throttle := NewThrottle(e.interval)
	var packets int64
	for {
		if err := ctx.Err(); err != nil {
			return e.fail(err)
		}
		pkt, err := e.src.Next()
		if errors.Is(err, ErrEndOfStream) {
			break
		}
		if err != nil {
			if !errors.Is(err, ErrRead) {
				err = fmt.Errorf("%w: %w", ErrRead, err)
			}
			return e.fail(err)
		}
		if err := e.acc.Update(pkt.StreamIndex, pkt.Payload); err != nil {
			return e.fail(err)
		}
		packets++
		throttle.Record(int64(len(pkt.Payload)))
		if e.progress != nil && throttle.ShouldNotify() {
			e.progress(throttle.Hashed())
			throttle.MarkNotified()
		}
	}

	digests, err := e.acc.Finalize()
	e.acc = nil
	if err != nil {
		return e.fail(err)
	}
	combined, err := Combine(digests)
	if err != nil {
		return e.fail(err)
	}
	e.result = Result{
		Path:          e.path,
		Algorithm:     e.alg,
		Digest:        combined,
		StreamDigests: digests,
		BytesHashed:   throttle.Hashed(),
		Packets:       packets,
	}
	e.state = StateFinalized
	e.logger.Debug("scan finalized",
		"path", e.path,
		"fingerprint", combined.Hex(),
		"bytes_hashed", throttle.Hashed(),
		"packets", packets,
	)
	return nil
}

// Rescan repositions the open source to its first packet and scans again
// with fresh accumulators.
func (e *Engine) Rescan(ctx context.Context) error {
	if !e.held || (e.state != StateOpened && e.state != StateFinalized) {
		return fmt.Errorf("%w: rescan requested while %s", ErrInvalidState, e.state)
	}
	if err := e.src.SeekStart(); err != nil {
		return e.fail(fmt.Errorf("seek to start: %w", err))
	}
	acc, err := NewAccumulators(e.streams, e.alg)
	if err != nil {
		return e.fail(err)
	}
	e.result = Result{}
	e.acc = acc
	e.state = StateOpened
	return e.Scan(ctx)
}

// Compute opens path, scans it and returns the result.
func (e *Engine) Compute(ctx context.Context, path string) (Result, error) {
	if err := e.Open(path); err != nil {
		return Result{}, err
	}
	if err := e.Scan(ctx); err != nil {
		return Result{}, err
	}
	return e.Result()
}

// Result returns a copy of the finalized scan result.
func (e *Engine) Result() (Result, error) {
	if e.state != StateFinalized {
		return Result{}, fmt.Errorf("%w: engine is %s", ErrNotFinalized, e.state)
	}
	return e.result.clone(), nil
}

// Digest returns the combined fingerprint of the finalized scan.
func (e *Engine) Digest() (Digest, error) {
	res, err := e.Result()
	if err != nil {
		return nil, err
	}
	return res.Digest, nil
}

// StreamDigests returns the per-stream digests of the finalized scan.
func (e *Engine) StreamDigests() ([]Digest, error) {
	res, err := e.Result()
	if err != nil {
		return nil, err
	}
	return res.StreamDigests, nil
}

// Close releases the source. A finalized or failed session keeps its
// outcome; an opened session is discarded and the engine returns to idle.
func (e *Engine) Close() error {
	err := e.release()
	switch e.state {
	case StateOpened, StateScanning:
		e.discard()
		e.state = StateIdle
	}
	return err
}

func (e *Engine) release() error {
	if !e.held {
		return nil
	}
	e.held = false
	if err := e.src.Close(); err != nil {
		return fmt.Errorf("close source: %w", err)
	}
	return nil
}

func (e *Engine) discard() {
	e.acc = nil
	e.streams = 0
	e.result = Result{}
	e.err = nil
}

func (e *Engine) fail(err error) error {
	if closeErr := e.release(); closeErr != nil {
		e.logger.Debug("release source after failure", "path", e.path, "error", closeErr)
	}
	e.acc = nil
	e.result = Result{}
	e.err = err
	e.state = StateFailed
	e.logger.Debug("scan failed", "path", e.path, "error", err)
	return err
}
