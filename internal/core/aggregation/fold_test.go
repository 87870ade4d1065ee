package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	v1 "github.com/tally-lab/tally/internal/api/v1"
)

func entry(id, site, path, user string, ts time.Time) *v1.QueueEntry {
	return &v1.QueueEntry{
		ID:        id,
		SiteID:    site,
		EventType: "page_view",
		Path:      path,
		UserID:    user,
		Timestamp: ts,
		CreatedAt: ts,
	}
}

func TestFold_SingleDay(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*v1.QueueEntry{
		entry("1", "s1", "/a", "u1", ts),
		entry("2", "s1", "/a", "u1", ts.Add(time.Minute)),
		entry("3", "s1", "/a", "u1", ts.Add(2*time.Minute)),
		entry("4", "s1", "/b", "u2", ts.Add(3*time.Minute)),
	}

	folds := Fold(entries)
	require.Len(t, folds, 1)

	f := folds[0]
	assert.Equal(t, "s1", f.Key.SiteID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), f.Key.Date)
	assert.Equal(t, int64(4), f.TotalViews)
	assert.Equal(t, int64(2), f.UniqueUsers())
	assert.Equal(t, []string{"u1", "u2"}, f.Users)
	assert.Equal(t, []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}}, f.PathStats)
}

func TestFold_GroupsBySiteAndUTCDay(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)
	// 2026-03-01T22:30-02:00 is 2026-03-02T00:30Z.
	shifted := time.Date(2026, 3, 1, 22, 30, 0, 0, time.FixedZone("BRT", -2*3600))

	entries := []*v1.QueueEntry{
		entry("1", "s2", "/", "u1", day1),
		entry("2", "s1", "/", "u1", day2),
		entry("3", "s1", "/", "u1", day1),
		entry("4", "s1", "/x", "u2", shifted),
	}

	folds := Fold(entries)
	require.Len(t, folds, 3)

	assert.Equal(t, "s1:2026-03-01", folds[0].Key.String())
	assert.Equal(t, "s1:2026-03-02", folds[1].Key.String())
	assert.Equal(t, "s2:2026-03-01", folds[2].Key.String())

	assert.Equal(t, int64(2), folds[1].TotalViews)
	assert.Equal(t, int64(2), folds[1].UniqueUsers())
}

func TestFold_TiesKeepFirstSeenOrder(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []*v1.QueueEntry{
		entry("1", "s1", "/z", "u1", ts),
		entry("2", "s1", "/m", "u1", ts),
		entry("3", "s1", "/a", "u1", ts),
		entry("4", "s1", "/a", "u1", ts),
	}

	folds := Fold(entries)
	require.Len(t, folds, 1)
	assert.Equal(t, []v1.PathStat{
		{Path: "/a", Views: 2},
		{Path: "/z", Views: 1},
		{Path: "/m", Views: 1},
	}, folds[0].PathStats)
}

func TestFold_TotalViewsMatchesPathSum(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var entries []*v1.QueueEntry
	paths := []string{"/", "/a", "/b", "/a", "/c", "/", "/", "/b"}
	for i, p := range paths {
		entries = append(entries, entry(string(rune('a'+i)), "s1", p, "u", ts))
	}

	for _, f := range Fold(entries) {
		var sum int64
		for _, ps := range f.PathStats {
			sum += ps.Views
		}
		assert.Equal(t, f.TotalViews, sum)
		for i := 1; i < len(f.PathStats); i++ {
			assert.GreaterOrEqual(t, f.PathStats[i-1].Views, f.PathStats[i].Views)
		}
	}
}

func TestFold_Empty(t *testing.T) {
	assert.Empty(t, Fold(nil))
}
