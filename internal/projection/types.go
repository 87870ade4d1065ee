package projection

// TopPathsLimit caps top_paths in the all-days view.
const TopPathsLimit = 10

// StatsQuery represents the query parameters of the stats endpoint.
type StatsQuery struct {
	SiteID string `form:"site_id"`
	Date   string `form:"date"` // YYYY-MM-DD; empty means all days
}

// scope names the cache entry and metric label for a query.
func (q StatsQuery) scope() string {
	if q.Date == "" {
		return scopeAll
	}
	return q.Date
}
