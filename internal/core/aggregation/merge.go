package aggregation

import (
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
)

// Replace builds the row written in ModeReplace: the day's numbers come from
// this fold only.
func Replace(fold DayFold, at time.Time) *v1.DailyStat {
	stats := make([]v1.PathStat, len(fold.PathStats))
	copy(stats, fold.PathStats)

	return &v1.DailyStat{
		SiteID:      fold.Key.SiteID,
		Date:        fold.Key.Date,
		TotalViews:  fold.TotalViews,
		UniqueUsers: fold.UniqueUsers(),
		PathStats:   stats,
		LastUpdated: at.UTC(),
	}
}

// Merge adds fold into existing (nil when the row does not exist yet).
// newUsers is the number of the fold's users never seen before for that day;
// the store computes it against its per-day user set.
//
// Existing paths keep their stored order ahead of paths first seen in this
// fold, then the combined list is stably sorted by views.
func Merge(existing *v1.DailyStat, fold DayFold, newUsers int64, at time.Time) *v1.DailyStat {
	if existing == nil {
		merged := Replace(fold, at)
		merged.UniqueUsers = newUsers
		return merged
	}

	views := make(map[string]int64, len(existing.PathStats)+len(fold.PathStats))
	order := make([]string, 0, len(existing.PathStats)+len(fold.PathStats))
	for _, ps := range existing.PathStats {
		if _, seen := views[ps.Path]; !seen {
			order = append(order, ps.Path)
		}
		views[ps.Path] += ps.Views
	}
	for _, ps := range fold.PathStats {
		if _, seen := views[ps.Path]; !seen {
			order = append(order, ps.Path)
		}
		views[ps.Path] += ps.Views
	}

	stats := make([]v1.PathStat, 0, len(order))
	var total int64
	for _, p := range order {
		stats = append(stats, v1.PathStat{Path: p, Views: views[p]})
		total += views[p]
	}
	SortPathStats(stats)

	return &v1.DailyStat{
		SiteID:      fold.Key.SiteID,
		Date:        fold.Key.Date,
		TotalViews:  total,
		UniqueUsers: existing.UniqueUsers + newUsers,
		PathStats:   stats,
		LastUpdated: at.UTC(),
	}
}
