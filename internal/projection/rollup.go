package projection

import (
	v1 "github.com/tally-lab/tally/internal/api/v1"
	coreagg "github.com/tally-lab/tally/internal/core/aggregation"
)

// emptyResponse is the zero-valued answer for a site or day with no rollups.
func emptyResponse(siteID, date string) *v1.StatsResponse {
	return &v1.StatsResponse{
		SiteID:   siteID,
		Date:     date,
		TopPaths: []v1.PathStat{},
	}
}

// dayResponse returns one stored row as is.
func dayResponse(stat *v1.DailyStat) *v1.StatsResponse {
	paths := stat.PathStats
	if paths == nil {
		paths = []v1.PathStat{}
	}
	return &v1.StatsResponse{
		SiteID:      stat.SiteID,
		Date:        stat.DateString(),
		TotalViews:  stat.TotalViews,
		UniqueUsers: stat.UniqueUsers,
		TopPaths:    paths,
	}
}

// allDaysResponse merges rows (date descending) into the all-days view.
func allDaysResponse(siteID string, rows []*v1.DailyStat) *v1.StatsResponse {
	summary := coreagg.MergeDays(rows, TopPathsLimit)
	return &v1.StatsResponse{
		SiteID:      siteID,
		Date:        scopeAll,
		TotalViews:  summary.TotalViews,
		UniqueUsers: summary.UniqueUsers,
		TopPaths:    summary.TopPaths,
		DaysTracked: summary.Days,
	}
}
