// Package memory is an in-process storage backend with the same semantics as
// the PostgreSQL adapters. It backs local runs (database.type: memory) and
// end-to-end tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/aggregation"
	coreerrors "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/core/storage"
)

type queueRow struct {
	entry        v1.QueueEntry
	claimedUntil time.Time
}

// Store implements storage.Store in memory. Safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	queue    map[string]*queueRow
	events   map[string]v1.Event
	rollups  map[aggregation.GroupKey]*v1.DailyStat
	dayUsers map[aggregation.GroupKey]map[string]struct{}
	closed   bool
}

var _ storage.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		queue:    make(map[string]*queueRow),
		events:   make(map[string]v1.Event),
		rollups:  make(map[aggregation.GroupKey]*v1.DailyStat),
		dayUsers: make(map[aggregation.GroupKey]map[string]struct{}),
	}
}

func (s *Store) checkOpen(op string) error {
	if s.closed {
		return coreerrors.NewStoreError(op, fmt.Errorf("memory store is closed"))
	}
	return nil
}

// Enqueue inserts one entry. A duplicate id is rejected like a primary key.
func (s *Store) Enqueue(ctx context.Context, entry *v1.QueueEntry) error {
	if err := ctx.Err(); err != nil {
		return coreerrors.NewStoreError("enqueue", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("enqueue"); err != nil {
		return err
	}

	if _, exists := s.queue[entry.ID]; exists {
		return coreerrors.NewStoreError("enqueue", fmt.Errorf("duplicate queue entry id %q", entry.ID))
	}
	row := &queueRow{entry: *entry}
	row.entry.Processed = false
	s.queue[entry.ID] = row
	return nil
}

// ClaimBatch leases up to limit claimable entries, oldest first.
func (s *Store) ClaimBatch(ctx context.Context, limit int, now time.Time, lease time.Duration) ([]*v1.QueueEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.NewStoreError("claim batch", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("claim batch"); err != nil {
		return nil, err
	}

	candidates := make([]*queueRow, 0)
	for _, row := range s.queue {
		if row.entry.Processed {
			continue
		}
		if !row.claimedUntil.IsZero() && !row.claimedUntil.Before(now) {
			continue
		}
		candidates = append(candidates, row)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].entry, candidates[j].entry
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	if limit >= 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	claimed := make([]*v1.QueueEntry, 0, len(candidates))
	for _, row := range candidates {
		row.claimedUntil = now.Add(lease)
		entry := row.entry
		claimed = append(claimed, &entry)
	}
	return claimed, nil
}

// MarkProcessed flips processed and clears the lease. Unknown ids are ignored.
func (s *Store) MarkProcessed(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return coreerrors.NewStoreError("mark processed", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("mark processed"); err != nil {
		return err
	}

	for _, id := range ids {
		if row, ok := s.queue[id]; ok {
			row.entry.Processed = true
			row.claimedUntil = time.Time{}
		}
	}
	return nil
}

// ReleaseClaim clears the lease on unprocessed entries. Unknown ids are ignored.
func (s *Store) ReleaseClaim(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return coreerrors.NewStoreError("release claim", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("release claim"); err != nil {
		return err
	}

	for _, id := range ids {
		if row, ok := s.queue[id]; ok && !row.entry.Processed {
			row.claimedUntil = time.Time{}
		}
	}
	return nil
}

// QueueStatus reports the unprocessed backlog.
func (s *Store) QueueStatus(ctx context.Context) (*v1.QueueStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.NewStoreError("queue status", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("queue status"); err != nil {
		return nil, err
	}

	status := &v1.QueueStatus{}
	for _, row := range s.queue {
		if row.entry.Processed {
			continue
		}
		status.Pending++
		created := row.entry.CreatedAt
		if status.OldestPendingAt == nil || created.Before(*status.OldestPendingAt) {
			status.OldestPendingAt = &created
		}
	}
	return status, nil
}

// InsertEvents stores events whose id is new and returns those ids.
func (s *Store) InsertEvents(ctx context.Context, events []*v1.Event) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.NewStoreError("insert events", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("insert events"); err != nil {
		return nil, err
	}

	inserted := make([]string, 0, len(events))
	for _, evt := range events {
		if _, exists := s.events[evt.ID]; exists {
			continue
		}
		s.events[evt.ID] = *evt
		inserted = append(inserted, evt.ID)
	}
	return inserted, nil
}

// ApplyFold writes fold into the (site, day) row according to mode.
func (s *Store) ApplyFold(ctx context.Context, fold aggregation.DayFold, mode aggregation.RollupMode, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return coreerrors.NewStoreError("apply fold", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("apply fold"); err != nil {
		return err
	}

	key := aggregation.GroupKey{SiteID: fold.Key.SiteID, Date: aggregation.DayFor(fold.Key.Date)}
	switch mode {
	case aggregation.ModeReplace:
		s.rollups[key] = aggregation.Replace(fold, at)
	case aggregation.ModeMerge, "":
		users, ok := s.dayUsers[key]
		if !ok {
			users = make(map[string]struct{})
			s.dayUsers[key] = users
		}
		var newUsers int64
		for _, u := range fold.Users {
			if _, seen := users[u]; !seen {
				users[u] = struct{}{}
				newUsers++
			}
		}
		s.rollups[key] = aggregation.Merge(s.rollups[key], fold, newUsers, at)
	default:
		return fmt.Errorf("apply fold: unknown rollup mode %q", mode)
	}
	return nil
}

// GetDailyStat returns a copy of the row or storage.ErrNotFound.
func (s *Store) GetDailyStat(ctx context.Context, siteID string, day time.Time) (*v1.DailyStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.NewStoreError("get daily stat", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("get daily stat"); err != nil {
		return nil, err
	}

	stat, ok := s.rollups[aggregation.GroupKey{SiteID: siteID, Date: aggregation.DayFor(day)}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return copyStat(stat), nil
}

// ListDailyStats returns copies of every row for siteID, newest day first.
func (s *Store) ListDailyStats(ctx context.Context, siteID string) ([]*v1.DailyStat, error) {
	if err := ctx.Err(); err != nil {
		return nil, coreerrors.NewStoreError("list daily stats", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen("list daily stats"); err != nil {
		return nil, err
	}

	var stats []*v1.DailyStat
	for key, stat := range s.rollups {
		if key.SiteID == siteID {
			stats = append(stats, copyStat(stat))
		}
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date.After(stats[j].Date)
	})
	return stats, nil
}

// EventCount is the number of canonical events stored.
func (s *Store) EventCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Ping fails once the store is closed.
func (s *Store) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkOpen("ping")
}

// Close marks the store closed. Later calls fail with a StoreError.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func copyStat(stat *v1.DailyStat) *v1.DailyStat {
	out := *stat
	out.PathStats = make([]v1.PathStat, len(stat.PathStats))
	copy(out.PathStats, stat.PathStats)
	return &out
}
