package aggregation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/cache"
	coreagg "github.com/tally-lab/tally/internal/core/aggregation"
	coreerrors "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/core/storage"
	"github.com/tally-lab/tally/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize   = 1000
	defaultWorkerCount = 4
	defaultClaimLease  = 5 * time.Minute

	releaseClaimTimeout = 5 * time.Second
)

// BatchJobParameter controls throughput and rollup behavior for a pass.
type BatchJobParameter struct {
	BatchSize   int
	WorkerCount int
	ClaimLease  time.Duration
	Mode        coreagg.RollupMode
}

// DefaultBatchJobOptions returns the defaults used when config omits a value.
func DefaultBatchJobOptions() BatchJobParameter {
	return BatchJobParameter{
		BatchSize:   defaultBatchSize,
		WorkerCount: defaultWorkerCount,
		ClaimLease:  defaultClaimLease,
		Mode:        coreagg.ModeMerge,
	}
}

func (o BatchJobParameter) normalized() BatchJobParameter {
	n := o
	if n.BatchSize <= 0 || n.BatchSize > defaultBatchSize {
		n.BatchSize = defaultBatchSize
	}
	if n.WorkerCount <= 0 {
		n.WorkerCount = defaultWorkerCount
	}
	if n.ClaimLease <= 0 {
		n.ClaimLease = defaultClaimLease
	}
	if n.Mode == "" {
		n.Mode = coreagg.ModeMerge
	}
	return n
}

// EventSink receives copies of newly written canonical events.
type EventSink interface {
	WriteEvents(ctx context.Context, events []*v1.Event) error
}

// Result is what one pass reports.
type Result struct {
	Processed      int
	AggregatedDays int
	// Warnings holds the best-effort failures the pass logged and skipped.
	Warnings []error
}

// BatchJob drains one bounded batch of the queue per RunBatch call.
type BatchJob struct {
	queue   storage.QueueStore
	events  storage.EventStore
	rollups storage.RollupStore
	sink    EventSink
	cache   cache.StatsCache
	opts    BatchJobParameter
	nowFn   func() time.Time
}

// NewBatchJob wires a pass over the three stores.
func NewBatchJob(
	queue storage.QueueStore,
	events storage.EventStore,
	rollups storage.RollupStore,
	opts BatchJobParameter,
) *BatchJob {
	return &BatchJob{
		queue:   queue,
		events:  events,
		rollups: rollups,
		cache:   cache.Noop{},
		opts:    opts.normalized(),
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// WithSink mirrors newly written events into sink.
func (j *BatchJob) WithSink(sink EventSink) *BatchJob {
	j.sink = sink
	return j
}

// WithCache invalidates the stats cache for every group a pass touches.
func (j *BatchJob) WithCache(c cache.StatsCache) *BatchJob {
	if c != nil {
		j.cache = c
	}
	return j
}

// Options returns the normalized parameters.
func (j *BatchJob) Options() BatchJobParameter {
	return j.opts
}

// RunBatch claims up to BatchSize entries and folds them into rollups.
// Only the claim and the canonical insert are fatal; later steps are logged,
// counted and reported in Result.Warnings.
func (j *BatchJob) RunBatch(ctx context.Context) (Result, error) {
	now := j.nowFn().UTC()

	entries, err := j.queue.ClaimBatch(ctx, j.opts.BatchSize, now, j.opts.ClaimLease)
	if err != nil {
		metrics.BatchPasses.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("claim batch: %w", err)
	}
	if len(entries) == 0 {
		slog.Debug("[BatchJob] No events in queue")
		metrics.BatchPasses.WithLabelValues("empty").Inc()
		return Result{}, nil
	}

	slog.Info("[BatchJob] Processing events",
		"count", len(entries),
		"batch_size", j.opts.BatchSize,
		"mode", j.opts.Mode,
	)

	canonical := make([]*v1.Event, len(entries))
	ids := make([]string, len(entries))
	for i, entry := range entries {
		canonical[i] = entry.ToEvent()
		ids[i] = entry.ID
	}

	inserted, err := j.events.InsertEvents(ctx, canonical)
	if err != nil {
		metrics.BatchPasses.WithLabelValues("error").Inc()
		if rerr := j.releaseClaim(ctx, ids); rerr != nil {
			slog.Error("[BatchJob] Failed to release claim, entries wait for the lease to expire",
				"error", rerr,
				"count", len(ids),
				"lease", j.opts.ClaimLease,
			)
		}
		return Result{}, fmt.Errorf("insert events: %w", err)
	}

	res := Result{Processed: len(entries)}
	fresh := toSet(inserted)

	if j.sink != nil && len(inserted) > 0 {
		j.mirror(ctx, canonical, fresh)
	}

	if err := j.queue.MarkProcessed(ctx, ids); err != nil {
		metrics.BatchMarkProcessedFailures.Inc()
		warn := &coreerrors.PartialFailure{Step: "mark processed", Err: err}
		res.Warnings = append(res.Warnings, warn)
		slog.Error("[BatchJob] Failed to mark entries processed, they will be retried after the lease expires",
			"error", err,
			"count", len(ids),
			"lease", j.opts.ClaimLease,
		)
	}

	toFold := entries
	if j.opts.Mode == coreagg.ModeMerge {
		toFold = make([]*v1.QueueEntry, 0, len(inserted))
		for _, entry := range entries {
			if _, ok := fresh[entry.ID]; ok {
				toFold = append(toFold, entry)
			}
		}
		if skipped := len(entries) - len(toFold); skipped > 0 {
			slog.Info("[BatchJob] Skipping entries already folded by an earlier pass", "count", skipped)
		}
	}

	folds := coreagg.Fold(toFold)
	res.Warnings = append(res.Warnings, j.applyFolds(ctx, folds, now)...)
	res.AggregatedDays = len(folds)

	if len(folds) > 0 {
		keys := make([]coreagg.GroupKey, len(folds))
		for i, f := range folds {
			keys[i] = f.Key
		}
		j.cache.Invalidate(ctx, keys)
	}

	metrics.BatchPasses.WithLabelValues("ok").Inc()
	metrics.BatchEntriesProcessed.Add(float64(res.Processed))
	metrics.BatchDaysAggregated.Add(float64(res.AggregatedDays))

	slog.Info("[BatchJob] Batch complete",
		"events_processed", res.Processed,
		"events_inserted", len(inserted),
		"aggregated_days", res.AggregatedDays,
		"warnings", len(res.Warnings),
	)

	return res, nil
}

// applyFolds writes every group with at most WorkerCount writes in flight.
// A failed group is logged and skipped.
func (j *BatchJob) applyFolds(ctx context.Context, folds []coreagg.DayFold, now time.Time) []error {
	var (
		mu       sync.Mutex
		failures []error
		g        errgroup.Group
	)
	g.SetLimit(j.opts.WorkerCount)

	for _, fold := range folds {
		g.Go(func() error {
			if err := j.rollups.ApplyFold(ctx, fold, j.opts.Mode, now); err != nil {
				metrics.BatchFoldFailures.Inc()
				slog.Error("[BatchJob] Failed to upsert daily stat",
					"error", err,
					"group", fold.Key.String(),
					"views", fold.TotalViews,
				)
				mu.Lock()
				failures = append(failures, fmt.Errorf("fold %s: %w", fold.Key, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return failures
}

// releaseClaim is detached from ctx cancellation and bounded by its own timeout.
func (j *BatchJob) releaseClaim(ctx context.Context, ids []string) error {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseClaimTimeout)
	defer cancel()
	return j.queue.ReleaseClaim(rctx, ids)
}

func (j *BatchJob) mirror(ctx context.Context, canonical []*v1.Event, fresh map[string]struct{}) {
	batch := make([]*v1.Event, 0, len(fresh))
	for _, evt := range canonical {
		if _, ok := fresh[evt.ID]; ok {
			batch = append(batch, evt)
		}
	}
	if err := j.sink.WriteEvents(ctx, batch); err != nil {
		slog.Error("[BatchJob] Failed to mirror events to sink", "error", err, "count", len(batch))
	}
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
