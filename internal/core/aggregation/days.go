package aggregation

import v1 "github.com/tally-lab/tally/internal/api/v1"

// DaysSummary is the cross-day view of a site's rollups.
type DaysSummary struct {
	TotalViews int64
	// UniqueUsers sums the per-day distinct counts; a user active on three
	// days counts three times.
	UniqueUsers int64
	TopPaths    []v1.PathStat
	Days        int
}

// MergeDays sums rows and merges their path stats. Paths keep the order in
// which they are first met walking rows in the given order, then are stably
// sorted by views and cut to topN (topN <= 0 keeps all).
func MergeDays(rows []*v1.DailyStat, topN int) DaysSummary {
	summary := DaysSummary{Days: len(rows)}

	views := make(map[string]int64)
	var order []string
	for _, row := range rows {
		summary.TotalViews += row.TotalViews
		summary.UniqueUsers += row.UniqueUsers
		for _, ps := range row.PathStats {
			if _, seen := views[ps.Path]; !seen {
				order = append(order, ps.Path)
			}
			views[ps.Path] += ps.Views
		}
	}

	merged := make([]v1.PathStat, 0, len(order))
	for _, p := range order {
		merged = append(merged, v1.PathStat{Path: p, Views: views[p]})
	}
	SortPathStats(merged)

	if topN > 0 && len(merged) > topN {
		merged = merged[:topN]
	}
	summary.TopPaths = merged
	return summary
}
