//go:build integration

package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tally-lab/tally/internal/aggregation"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	coreagg "github.com/tally-lab/tally/internal/core/aggregation"
)

func enqueueDirect(t *testing.T, h *integrationHarness, n int, site string, day time.Time) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < n; i++ {
		created := time.Now().UTC()
		require.NoError(t, h.store.Enqueue(ctx, &v1.QueueEntry{
			ID:        fmt.Sprintf("%s-%04d", site, i),
			SiteID:    site,
			EventType: "page_view",
			Path:      fmt.Sprintf("/p%d", i%3),
			UserID:    fmt.Sprintf("u%d", i%5),
			Timestamp: day.Add(time.Duration(i) * time.Second),
			CreatedAt: created,
		}))
	}
}

// Two passes racing over the same backlog never claim an entry twice.
func TestLifecycle_ConcurrentPassesCountOnce(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)
	require.NoError(t, resetDatabase(t, h.db))

	site := fmt.Sprintf("race-%d", time.Now().UnixNano())
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	enqueueDirect(t, h, 500, site, day)

	opts := aggregation.DefaultBatchJobOptions()
	opts.BatchSize = 100
	jobs := []*aggregation.BatchJob{
		aggregation.NewBatchJob(h.store, h.store, h.store, opts),
		aggregation.NewBatchJob(h.store, h.store, h.store, opts),
	}

	var (
		mu    sync.Mutex
		total int
		wg    sync.WaitGroup
	)
	for _, job := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				res, err := job.RunBatch(context.Background())
				if err != nil {
					t.Error(err)
					return
				}
				if res.Processed == 0 {
					return
				}
				mu.Lock()
				total += res.Processed
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 500, total)

	stat, err := h.store.GetDailyStat(context.Background(), site, day)
	require.NoError(t, err)
	require.Equal(t, int64(500), stat.TotalViews)
	require.Equal(t, int64(5), stat.UniqueUsers)

	var sum int64
	for _, ps := range stat.PathStats {
		sum += ps.Views
	}
	require.Equal(t, stat.TotalViews, sum)
}

// A day split over several passes accumulates instead of being overwritten.
func TestLifecycle_DaySplitAcrossPassesMerges(t *testing.T) {
	h := startHarness(t)
	defer h.close(t)
	require.NoError(t, resetDatabase(t, h.db))

	site := fmt.Sprintf("split-%d", time.Now().UnixNano())
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	enqueueDirect(t, h, 30, site, day)

	opts := aggregation.DefaultBatchJobOptions()
	opts.BatchSize = 7
	job := aggregation.NewBatchJob(h.store, h.store, h.store, opts)

	passes := 0
	for {
		res, err := job.RunBatch(context.Background())
		require.NoError(t, err)
		if res.Processed == 0 {
			break
		}
		passes++
	}
	require.Equal(t, 5, passes)

	stat, err := h.store.GetDailyStat(context.Background(), site, day)
	require.NoError(t, err)
	require.Equal(t, int64(30), stat.TotalViews)
	require.Equal(t, int64(5), stat.UniqueUsers)
	require.Equal(t, []v1.PathStat{{Path: "/p0", Views: 10}, {Path: "/p1", Views: 10}, {Path: "/p2", Views: 10}}, stat.PathStats)

	rows, err := h.store.ListDailyStats(context.Background(), site)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, coreagg.DayFor(day), rows[0].Date)
}
