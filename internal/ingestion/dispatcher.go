package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/storage"
	"github.com/tally-lab/tally/internal/metrics"
)

// ErrDispatcherClosed is reported for entries dispatched after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// enqueueFailure travels on the dispatcher's error channel.
type enqueueFailure struct {
	entry *v1.QueueEntry
	err   error
}

// Dispatcher runs queue inserts as detached background tasks. The caller
// never waits for the insert and never sees its error: failures go to the
// dispatcher's own error channel and are logged there.
type Dispatcher struct {
	store       storage.QueueStore
	timeout     time.Duration
	maxInFlight int64

	mu       sync.RWMutex
	closed   bool
	tasks    sync.WaitGroup
	inFlight atomic.Int64

	errs     chan enqueueFailure
	loopDone chan struct{}
}

// NewDispatcher starts the error-logging loop. Each insert gets its own
// timeout; maxInFlight only controls when saturation is logged.
func NewDispatcher(store storage.QueueStore, timeout time.Duration, maxInFlight int) *Dispatcher {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxInFlight <= 0 {
		maxInFlight = 1024
	}

	d := &Dispatcher{
		store:       store,
		timeout:     timeout,
		maxInFlight: int64(maxInFlight),
		errs:        make(chan enqueueFailure, maxInFlight),
		loopDone:    make(chan struct{}),
	}
	go d.logFailures()
	return d
}

// Dispatch schedules one insert and returns immediately. The task outlives
// ctx's cancellation but keeps its values.
func (d *Dispatcher) Dispatch(ctx context.Context, entry *v1.QueueEntry) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		metrics.EnqueueFailures.Inc()
		slog.Error("[Dispatcher] Dropped event after shutdown",
			"event_id", entry.ID,
			"site_id", entry.SiteID,
			"error", ErrDispatcherClosed)
		return
	}

	d.tasks.Add(1)
	if n := d.inFlight.Add(1); n > d.maxInFlight {
		slog.Warn("[Dispatcher] Background enqueues above soft limit",
			"in_flight", n,
			"max_in_flight", d.maxInFlight)
	}

	taskCtx := context.WithoutCancel(ctx)
	go d.run(taskCtx, entry)
}

func (d *Dispatcher) run(ctx context.Context, entry *v1.QueueEntry) {
	defer d.tasks.Done()
	defer d.inFlight.Add(-1)

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	start := time.Now()
	err := d.store.Enqueue(ctx, entry)
	metrics.EnqueueDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		d.errs <- enqueueFailure{entry: entry, err: err}
	}
}

func (d *Dispatcher) logFailures() {
	defer close(d.loopDone)
	for f := range d.errs {
		metrics.EnqueueFailures.Inc()
		slog.Error("[Dispatcher] Background enqueue failed",
			"event_id", f.entry.ID,
			"site_id", f.entry.SiteID,
			"event_type", f.entry.EventType,
			"error", f.err)
	}
}

// InFlight is the number of inserts still running.
func (d *Dispatcher) InFlight() int64 {
	return d.inFlight.Load()
}

// Close stops accepting work and waits for running inserts and the logging
// loop, or until ctx is done.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	tasksDone := make(chan struct{})
	go func() {
		d.tasks.Wait()
		close(tasksDone)
	}()

	select {
	case <-tasksDone:
	case <-ctx.Done():
		slog.Warn("[Dispatcher] Drain timed out", "in_flight", d.inFlight.Load())
		return ctx.Err()
	}

	close(d.errs)
	select {
	case <-d.loopDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	slog.Info("[Dispatcher] Drained")
	return nil
}
