// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// ErrStopped is returned by Add once the batcher has been stopped.
var ErrStopped = errors.New("batcher stopped")

const (
	defaultDrainTimeout   = 10 * time.Second
	defaultPendingBatches = 16
)

// Option configures a Batcher.
type Option func(*options)

type options struct {
	observer     func(size int, err error, started time.Time)
	drainTimeout time.Duration
	maxPending   int
}

// WithObserver reports every flush attempt.
func WithObserver(observer func(size int, err error, started time.Time)) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithDrainTimeout bounds the final flush after Stop or cancellation.
func WithDrainTimeout(d time.Duration) Option {
	return func(o *options) {
		o.drainTimeout = d
	}
}

// WithMaxPending bounds how many items are held while flushes keep
// failing. Once reached, Add blocks until a flush succeeds.
func WithMaxPending(n int) Option {
	return func(o *options) {
		o.maxPending = n
	}
}

// Batcher buffers items and flushes them either by size or interval.
// A failed batch is kept and retried on the next interval. Items still
// queued when it stops are flushed once more with a fresh deadline.
type Batcher[T any] struct {
	flushCallback func(context.Context, []T) error
	itemsCh       chan T
	flushSize     int
	flushInterval time.Duration
	rl            ratelimit.Limiter
	logger        *zap.Logger
	opts          options

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, []T) error, flushSize int, flushInterval time.Duration, rps int, opts ...Option) *Batcher[T] {
	o := options{drainTimeout: defaultDrainTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxPending < flushSize {
		o.maxPending = flushSize * defaultPendingBatches
	}
	return &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		itemsCh:       make(chan T, flushSize*2),
		flushSize:     flushSize,
		flushInterval: flushInterval,
		rl:            ratelimit.New(rps),
		opts:          o,
		stop:          make(chan struct{}),
	}
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes what is queued and waits for the loop to exit.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.flushSize)
	failing := false

	flush := func(ctx context.Context) {
		if len(buf) == 0 {
			return
		}

		b.rl.Take()
		started := time.Now()
		err := b.flushCallback(ctx, buf)
		if b.opts.observer != nil {
			b.opts.observer(len(buf), err, started)
		}
		if err != nil {
			failing = true
			b.logger.Error("batch not flushed, keeping items", zap.Error(err), zap.Int("size", len(buf)))
			return
		}
		failing = false
		b.logger.Debug("batch flushed", zap.Int("size", len(buf)))
		buf = buf[:0]
	}

	drain := func() {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.opts.drainTimeout)
		defer cancel()
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
			default:
				flush(drainCtx)
				if len(buf) > 0 {
					b.logger.Error("items lost on stop", zap.Int("size", len(buf)))
				}
				return
			}
		}
	}

	for {
		// A full pending buffer stops intake so Add pushes back on callers.
		items := b.itemsCh
		if len(buf) >= b.opts.maxPending {
			items = nil
		}

		select {
		case <-ctx.Done():
			drain()
			return

		case <-b.stop:
			drain()
			return

		case item := <-items:
			buf = append(buf, item)
			if len(buf) >= b.flushSize && !failing {
				flush(ctx)
			}

		case <-ticker.C:
			flush(ctx)
		}
	}
}
