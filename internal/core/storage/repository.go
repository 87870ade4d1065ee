package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/aggregation"
)

// ErrNotFound is returned when a requested rollup row does not exist.
var ErrNotFound = errors.New("not found")

// QueueStore holds accepted-but-unaggregated events.
type QueueStore interface {
	// Enqueue inserts one queue entry. Called from the background dispatcher.
	Enqueue(ctx context.Context, entry *v1.QueueEntry) error

	// ClaimBatch atomically leases up to limit unprocessed entries whose lease
	// is absent or expired at now, oldest created_at first. Claimed entries are
	// invisible to other claimers until now+lease.
	ClaimBatch(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]*v1.QueueEntry, error)

	// MarkProcessed flips processed to true and clears the lease for ids.
	MarkProcessed(ctx context.Context, ids []string) error

	// ReleaseClaim clears the lease on ids so the next ClaimBatch can take
	// them again. Processed entries are left alone.
	ReleaseClaim(ctx context.Context, ids []string) error

	// QueueStatus reports the unprocessed backlog.
	QueueStatus(ctx context.Context) (*v1.QueueStatus, error)
}

// EventStore persists canonical events.
type EventStore interface {
	// InsertEvents writes events in one batch, ignoring ids that already exist.
	// Returns the ids that were newly written.
	InsertEvents(ctx context.Context, events []*v1.Event) ([]string, error)
}

// RollupStore persists per-(site, day) rollups.
type RollupStore interface {
	// ApplyFold writes one pass's contribution for one (site, day).
	ApplyFold(ctx context.Context, fold aggregation.DayFold, mode aggregation.RollupMode, at time.Time) error

	// GetDailyStat returns ErrNotFound when no row exists for (siteID, day).
	GetDailyStat(ctx context.Context, siteID string, day time.Time) (*v1.DailyStat, error)

	// ListDailyStats returns every row for siteID, date descending.
	ListDailyStats(ctx context.Context, siteID string) ([]*v1.DailyStat, error)
}

// Store bundles the three stores behind one backend.
type Store interface {
	QueueStore
	EventStore
	RollupStore
	Ping(ctx context.Context) error
	Close() error
}
