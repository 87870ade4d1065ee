package aggregation

import (
	"context"
	"log/slog"
	"time"
)

const (
	defaultMaxConsecutiveBatches = 100
	finalDrainTimeout            = 30 * time.Second
)

// Runner runs one aggregation pass.
type Runner interface {
	RunBatch(ctx context.Context) (Result, error)
}

// Scheduler runs aggregation passes on a periodic interval.
// It is stateless: each tick independently claims whatever is pending.
type Scheduler struct {
	interval   time.Duration
	job        Runner
	batchSize  int
	maxBatches int
}

// NewScheduler creates a cron scheduler draining through job.
// batchSize must match the job's so a full batch can be recognized as backlog.
func NewScheduler(interval time.Duration, job Runner, batchSize, maxConsecutiveBatches int) *Scheduler {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxConsecutiveBatches <= 0 {
		maxConsecutiveBatches = defaultMaxConsecutiveBatches
	}
	return &Scheduler{
		interval:   interval,
		job:        job,
		batchSize:  batchSize,
		maxBatches: maxConsecutiveBatches,
	}
}

// Start begins periodic aggregation.
// Runs until context is cancelled, then performs one bounded final drain.
func (s *Scheduler) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	slog.Info("[Scheduler] Starting batch aggregation scheduler",
		"interval", s.interval,
		"batch_size", s.batchSize,
		"max_consecutive_batches", s.maxBatches,
	)

	// Catch up with any backlog left by a previous run
	s.drainBacklog(ctx)

	for {
		select {
		case <-ticker.C:
			s.drainBacklog(ctx)
		case <-ctx.Done():
			slog.Info("[Scheduler] Stopping (context cancelled)")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), finalDrainTimeout)
			defer cancel()

			slog.Info("[Scheduler] Running final drain before shutdown...")
			s.drainBacklog(shutdownCtx)
			slog.Info("[Scheduler] Final drain complete")

			return nil
		}
	}
}

// drainBacklog runs passes back to back while each one claims a full batch.
// Returns the number of passes run.
func (s *Scheduler) drainBacklog(ctx context.Context) int {
	batchCount := 0

	for batchCount < s.maxBatches {
		select {
		case <-ctx.Done():
			slog.Info("[Scheduler] Drain interrupted by context cancellation",
				"batches_processed", batchCount,
			)
			return batchCount
		default:
		}

		res, err := s.job.RunBatch(ctx)
		if err != nil {
			slog.Error("[Scheduler] Batch aggregation failed",
				"error", err,
				"batch_number", batchCount+1,
			)
			return batchCount
		}

		batchCount++

		// A short batch means the queue is drained
		if res.Processed < s.batchSize {
			if batchCount > 1 {
				slog.Info("[Scheduler] Backlog drained", "total_batches", batchCount)
			}
			return batchCount
		}

		slog.Info("[Scheduler] Backlog detected, continuing to drain",
			"batches_so_far", batchCount,
		)
	}

	slog.Warn("[Scheduler] Max consecutive batches reached, pausing drain",
		"max_batches", s.maxBatches,
		"note", "Will resume on next tick",
	)
	return batchCount
}
