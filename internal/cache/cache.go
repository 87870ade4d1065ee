// Package cache holds serialized stats responses keyed by site and scope.
// Every backend degrades to a miss on error; callers never fail because of it.
package cache

import (
	"context"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/aggregation"
)

// ScopeAll is the scope of the all-days stats view.
const ScopeAll = "all"

// NoGeneration is returned by Get when the generation could not be read.
// Set ignores it.
const NoGeneration int64 = -1

// StatsCache stores response bodies for stats queries.
//
// Entries are versioned by a per-(site, scope) generation. Get reports the
// generation it looked under and Set writes under the generation it is given,
// so a body computed before an Invalidate lands under a retired generation
// and is never served.
type StatsCache interface {
	// Get returns the cached body and true on a hit, plus the generation the
	// caller must pass to Set after a miss.
	Get(ctx context.Context, siteID, scope string) (body []byte, gen int64, ok bool)
	// Set stores body under gen for the backend's TTL.
	Set(ctx context.Context, siteID, scope string, gen int64, body []byte)
	// Invalidate retires the day and all-days entries of every touched group.
	Invalidate(ctx context.Context, keys []aggregation.GroupKey)
	Close() error
}

// Noop never hits. Used when cache.type is none.
type Noop struct{}

func (Noop) Get(context.Context, string, string) ([]byte, int64, bool) { return nil, NoGeneration, false }

func (Noop) Set(context.Context, string, string, int64, []byte) {}

func (Noop) Invalidate(context.Context, []aggregation.GroupKey) {}

func (Noop) Close() error { return nil }

// staleScopes lists, per site, the scopes a fold into keys makes stale.
func staleScopes(keys []aggregation.GroupKey) map[string][]string {
	out := make(map[string][]string)
	for _, k := range keys {
		if _, ok := out[k.SiteID]; !ok {
			out[k.SiteID] = []string{ScopeAll}
		}
		out[k.SiteID] = append(out[k.SiteID], k.Date.Format(v1.DateLayout))
	}
	return out
}
