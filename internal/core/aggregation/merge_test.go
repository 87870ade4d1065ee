package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	v1 "github.com/tally-lab/tally/internal/api/v1"
)

func TestMerge_NoExistingRow(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fold := DayFold{
		Key:        GroupKey{SiteID: "s1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		TotalViews: 4,
		Users:      []string{"u1", "u2"},
		PathStats:  []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}},
	}

	got := Merge(nil, fold, 2, at)
	assert.Equal(t, int64(4), got.TotalViews)
	assert.Equal(t, int64(2), got.UniqueUsers)
	assert.Equal(t, fold.PathStats, got.PathStats)
	assert.Equal(t, at, got.LastUpdated)
}

func TestMerge_AddsToExistingRow(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	existing := &v1.DailyStat{
		SiteID:      "s1",
		Date:        day,
		TotalViews:  5,
		UniqueUsers: 2,
		PathStats:   []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 2}},
	}
	fold := DayFold{
		Key:        GroupKey{SiteID: "s1", Date: day},
		TotalViews: 4,
		Users:      []string{"u2", "u3"},
		PathStats:  []v1.PathStat{{Path: "/b", Views: 2}, {Path: "/c", Views: 1}, {Path: "/d", Views: 1}},
	}

	got := Merge(existing, fold, 1, day.Add(time.Hour))
	assert.Equal(t, int64(9), got.TotalViews)
	assert.Equal(t, int64(3), got.UniqueUsers)
	assert.Equal(t, []v1.PathStat{
		{Path: "/b", Views: 4},
		{Path: "/a", Views: 3},
		{Path: "/c", Views: 1},
		{Path: "/d", Views: 1},
	}, got.PathStats)

	// Inputs are not mutated.
	assert.Equal(t, int64(2), existing.PathStats[1].Views)
}

func TestMerge_TotalRecomputedFromPaths(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	existing := &v1.DailyStat{
		SiteID:     "s1",
		Date:       day,
		TotalViews: 0,
		PathStats:  []v1.PathStat{{Path: "/a", Views: 2}},
	}
	fold := DayFold{
		Key:        GroupKey{SiteID: "s1", Date: day},
		TotalViews: 1,
		Users:      []string{"u1"},
		PathStats:  []v1.PathStat{{Path: "/a", Views: 1}},
	}

	got := Merge(existing, fold, 0, day)
	assert.Equal(t, int64(3), got.TotalViews)
	assert.Equal(t, int64(0), got.UniqueUsers)
}

func TestReplace_IgnoresPriorNumbers(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	fold := DayFold{
		Key:        GroupKey{SiteID: "s1", Date: day},
		TotalViews: 1,
		Users:      []string{"u1"},
		PathStats:  []v1.PathStat{{Path: "/x", Views: 1}},
	}

	got := Replace(fold, day)
	assert.Equal(t, int64(1), got.TotalViews)
	assert.Equal(t, int64(1), got.UniqueUsers)
	assert.Equal(t, []v1.PathStat{{Path: "/x", Views: 1}}, got.PathStats)

	got.PathStats[0].Views = 99
	assert.Equal(t, int64(1), fold.PathStats[0].Views)
}
