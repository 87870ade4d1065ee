package projection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/cache"
	coreagg "github.com/tally-lab/tally/internal/core/aggregation"
	httperr "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/core/storage"
	"github.com/tally-lab/tally/internal/metrics"
)

const (
	scopeAll = cache.ScopeAll

	msgMissingSiteID = "Missing required parameter: site_id"
	msgInvalidDate   = "Invalid date: expected YYYY-MM-DD"
)

// Service implements the stats query layer over stored rollups.
type Service struct {
	rollups storage.RollupStore
	cache   cache.StatsCache
}

// NewService creates a stats service. A nil cache disables caching.
func NewService(rollups storage.RollupStore, c cache.StatsCache) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{rollups: rollups, cache: c}
}

// QueryStats answers one stats query. Validation failures carry a
// ValidationError; store failures are returned wrapped.
func (s *Service) QueryStats(ctx context.Context, q StatsQuery) (*v1.StatsResponse, error) {
	q, err := normalizeAndValidate(q)
	if err != nil {
		return nil, err
	}
	if q.Date != "" {
		return s.queryDay(ctx, q)
	}
	return s.queryAllDays(ctx, q)
}

// QueryStatsBody returns the serialized response, served from the cache when
// an identical query was answered since the last fold touching it.
func (s *Service) QueryStatsBody(ctx context.Context, q StatsQuery) ([]byte, error) {
	q, err := normalizeAndValidate(q)
	if err != nil {
		return nil, err
	}

	kind := "day"
	if q.Date == "" {
		kind = scopeAll
	}

	body, gen, ok := s.cache.Get(ctx, q.SiteID, q.scope())
	if ok {
		metrics.StatsQueries.WithLabelValues(kind, "hit").Inc()
		return body, nil
	}
	metrics.StatsQueries.WithLabelValues(kind, "miss").Inc()

	resp, err := s.QueryStats(ctx, q)
	if err != nil {
		return nil, err
	}
	body, err = json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode stats: %w", err)
	}

	s.cache.Set(ctx, q.SiteID, q.scope(), gen, body)
	return body, nil
}

func (s *Service) queryDay(ctx context.Context, q StatsQuery) (*v1.StatsResponse, error) {
	day, err := coreagg.ParseDay(q.Date)
	if err != nil {
		return nil, httperr.NewValidationError("date", msgInvalidDate)
	}

	stat, err := s.rollups.GetDailyStat(ctx, q.SiteID, day)
	if errors.Is(err, storage.ErrNotFound) {
		slog.Debug("[Projection] No rollup for day", "site_id", q.SiteID, "date", q.Date)
		return emptyResponse(q.SiteID, q.Date), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get daily stat: %w", err)
	}
	return dayResponse(stat), nil
}

func (s *Service) queryAllDays(ctx context.Context, q StatsQuery) (*v1.StatsResponse, error) {
	rows, err := s.rollups.ListDailyStats(ctx, q.SiteID)
	if err != nil {
		return nil, fmt.Errorf("list daily stats: %w", err)
	}
	if len(rows) == 0 {
		return emptyResponse(q.SiteID, scopeAll), nil
	}
	return allDaysResponse(q.SiteID, rows), nil
}

func normalizeAndValidate(q StatsQuery) (StatsQuery, error) {
	q.SiteID = strings.TrimSpace(q.SiteID)
	q.Date = strings.TrimSpace(q.Date)

	if q.SiteID == "" {
		return q, httperr.NewValidationError("site_id", msgMissingSiteID)
	}
	if q.Date != "" {
		if _, err := coreagg.ParseDay(q.Date); err != nil {
			return q, httperr.NewValidationError("date", msgInvalidDate)
		}
	}
	return q, nil
}
