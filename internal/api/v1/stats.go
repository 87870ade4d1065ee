package v1

import "time"

// PathStat is the view count of one path inside a rollup.
type PathStat struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// DailyStat is the rollup for one (site, UTC day).
type DailyStat struct {
	SiteID      string     `json:"site_id"`
	Date        time.Time  `json:"date"` // UTC midnight
	TotalViews  int64      `json:"total_views"`
	UniqueUsers int64      `json:"unique_users"`
	PathStats   []PathStat `json:"path_stats"`
	LastUpdated time.Time  `json:"last_updated"`
}

// DateString formats the rollup day as YYYY-MM-DD.
func (d *DailyStat) DateString() string {
	return d.Date.UTC().Format(DateLayout)
}

// StatsResponse is the body returned by the stats endpoint.
// DaysTracked is only set on the all-days view.
type StatsResponse struct {
	SiteID      string     `json:"site_id"`
	Date        string     `json:"date"`
	TotalViews  int64      `json:"total_views"`
	UniqueUsers int64      `json:"unique_users"`
	TopPaths    []PathStat `json:"top_paths"`
	DaysTracked int        `json:"days_tracked,omitempty"`
}

// QueueStatus summarizes the unprocessed backlog.
type QueueStatus struct {
	Pending         int64      `json:"pending"`
	OldestPendingAt *time.Time `json:"oldest_pending_at"`
}
