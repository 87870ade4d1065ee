package aggregation

import (
	"fmt"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
)

// RollupMode selects how a pass writes into an existing (site, day) row.
type RollupMode string

const (
	// ModeMerge adds a pass's contribution to the stored row.
	ModeMerge RollupMode = "merge"

	// ModeReplace overwrites the stored row with the pass's values only.
	ModeReplace RollupMode = "replace"
)

// ParseRollupMode validates a configured mode. Empty means merge.
func ParseRollupMode(s string) (RollupMode, error) {
	switch RollupMode(s) {
	case "", ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown rollup mode %q (must be merge or replace)", s)
	}
}

// GroupKey uniquely identifies a rollup row.
type GroupKey struct {
	SiteID string
	Date   time.Time // UTC midnight
}

func (k GroupKey) String() string {
	return k.SiteID + ":" + k.Date.Format(v1.DateLayout)
}

// DayFold is what one batch pass contributes to one (site, day) rollup.
type DayFold struct {
	Key        GroupKey
	TotalViews int64
	Users      []string      // distinct user ids, first-seen order
	PathStats  []v1.PathStat // views desc, ties in first-seen order
}

// UniqueUsers is the number of distinct users in this fold alone.
func (f DayFold) UniqueUsers() int64 {
	return int64(len(f.Users))
}
