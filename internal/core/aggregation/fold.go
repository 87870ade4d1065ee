package aggregation

import (
	"sort"

	v1 "github.com/tally-lab/tally/internal/api/v1"
)

// dayAccumulator collects one group while a pass is folded.
// It lives only for the duration of Fold.
type dayAccumulator struct {
	key       GroupKey
	users     map[string]struct{}
	userOrder []string
	pathViews map[string]int64
	pathOrder []string
	views     int64
}

func newDayAccumulator(key GroupKey) *dayAccumulator {
	return &dayAccumulator{
		key:       key,
		users:     make(map[string]struct{}),
		pathViews: make(map[string]int64),
	}
}

func (a *dayAccumulator) add(entry *v1.QueueEntry) {
	if _, seen := a.users[entry.UserID]; !seen {
		a.users[entry.UserID] = struct{}{}
		a.userOrder = append(a.userOrder, entry.UserID)
	}
	if _, seen := a.pathViews[entry.Path]; !seen {
		a.pathOrder = append(a.pathOrder, entry.Path)
	}
	a.pathViews[entry.Path]++
	a.views++
}

func (a *dayAccumulator) result() DayFold {
	stats := make([]v1.PathStat, 0, len(a.pathOrder))
	for _, p := range a.pathOrder {
		stats = append(stats, v1.PathStat{Path: p, Views: a.pathViews[p]})
	}
	SortPathStats(stats)

	return DayFold{
		Key:        a.key,
		TotalViews: a.views,
		Users:      a.userOrder,
		PathStats:  stats,
	}
}

// Fold groups entries by (site_id, UTC day of timestamp) and counts views per
// path and distinct users per group. Results are ordered by site then day so
// callers touch rollup rows in a stable order.
func Fold(entries []*v1.QueueEntry) []DayFold {
	groups := make(map[GroupKey]*dayAccumulator)
	for _, entry := range entries {
		key := GroupKey{SiteID: entry.SiteID, Date: DayFor(entry.Timestamp)}
		acc, ok := groups[key]
		if !ok {
			acc = newDayAccumulator(key)
			groups[key] = acc
		}
		acc.add(entry)
	}

	folds := make([]DayFold, 0, len(groups))
	for _, acc := range groups {
		folds = append(folds, acc.result())
	}
	sort.Slice(folds, func(i, j int) bool {
		if folds[i].Key.SiteID != folds[j].Key.SiteID {
			return folds[i].Key.SiteID < folds[j].Key.SiteID
		}
		return folds[i].Key.Date.Before(folds[j].Key.Date)
	})
	return folds
}

// SortPathStats orders by views descending. The sort is stable, so equal
// counts keep their incoming (first-seen) order.
func SortPathStats(stats []v1.PathStat) {
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Views > stats[j].Views
	})
}
