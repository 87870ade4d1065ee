package projection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	httperr "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/core/storage"
	storagemocks "github.com/tally-lab/tally/internal/mocks/storage"
)

var (
	day1 = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day0 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

func TestService_QueryStats_Validation(t *testing.T) {
	svc := NewService(storagemocks.NewRollupStore(t), nil)

	tests := []struct {
		name      string
		query     StatsQuery
		wantField string
	}{
		{name: "missing site_id", query: StatsQuery{}, wantField: "site_id"},
		{name: "blank site_id", query: StatsQuery{SiteID: "  "}, wantField: "site_id"},
		{name: "malformed date", query: StatsQuery{SiteID: "s1", Date: "03/01/2026"}, wantField: "date"},
		{name: "impossible date", query: StatsQuery{SiteID: "s1", Date: "2026-02-30"}, wantField: "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.QueryStats(context.Background(), tt.query)
			require.Error(t, err)
			var verr *httperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestService_QueryStats_SingleDay(t *testing.T) {
	rollups := storagemocks.NewRollupStore(t)
	rollups.EXPECT().GetDailyStat(mock.Anything, "s1", day0).Return(&v1.DailyStat{
		SiteID:      "s1",
		Date:        day0,
		TotalViews:  4,
		UniqueUsers: 2,
		PathStats:   []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}},
	}, nil).Once()

	got, err := NewService(rollups, nil).QueryStats(context.Background(), StatsQuery{SiteID: "s1", Date: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, &v1.StatsResponse{
		SiteID:      "s1",
		Date:        "2026-03-01",
		TotalViews:  4,
		UniqueUsers: 2,
		TopPaths:    []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}},
	}, got)
}

func TestService_QueryStats_MissingDayIsZero(t *testing.T) {
	rollups := storagemocks.NewRollupStore(t)
	rollups.EXPECT().GetDailyStat(mock.Anything, "s1", day0).Return(nil, storage.ErrNotFound).Once()

	got, err := NewService(rollups, nil).QueryStats(context.Background(), StatsQuery{SiteID: "s1", Date: "2026-03-01"})
	require.NoError(t, err)
	assert.Equal(t, &v1.StatsResponse{SiteID: "s1", Date: "2026-03-01", TopPaths: []v1.PathStat{}}, got)
}

func TestService_QueryStats_AllDays(t *testing.T) {
	rollups := storagemocks.NewRollupStore(t)
	rollups.EXPECT().ListDailyStats(mock.Anything, "s1").Return([]*v1.DailyStat{
		{SiteID: "s1", Date: day1, TotalViews: 3, UniqueUsers: 2, PathStats: []v1.PathStat{{Path: "/b", Views: 2}, {Path: "/a", Views: 1}}},
		{SiteID: "s1", Date: day0, TotalViews: 4, UniqueUsers: 2, PathStats: []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}}},
	}, nil).Once()

	got, err := NewService(rollups, nil).QueryStats(context.Background(), StatsQuery{SiteID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, &v1.StatsResponse{
		SiteID:      "s1",
		Date:        "all",
		TotalViews:  7,
		UniqueUsers: 4,
		TopPaths:    []v1.PathStat{{Path: "/a", Views: 4}, {Path: "/b", Views: 3}},
		DaysTracked: 2,
	}, got)
}

func TestService_QueryStats_NoRows(t *testing.T) {
	rollups := storagemocks.NewRollupStore(t)
	rollups.EXPECT().ListDailyStats(mock.Anything, "ghost").Return(nil, nil).Once()

	got, err := NewService(rollups, nil).QueryStats(context.Background(), StatsQuery{SiteID: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, &v1.StatsResponse{SiteID: "ghost", Date: "all", TopPaths: []v1.PathStat{}}, got)
}

func TestService_QueryStats_StoreErrorPropagates(t *testing.T) {
	rollups := storagemocks.NewRollupStore(t)
	storeErr := httperr.NewStoreError("list daily stats", errors.New("connection refused"))
	rollups.EXPECT().ListDailyStats(mock.Anything, "s1").Return(nil, storeErr).Once()

	_, err := NewService(rollups, nil).QueryStats(context.Background(), StatsQuery{SiteID: "s1"})
	require.Error(t, err)
	assert.True(t, httperr.IsStore(err))
	assert.ErrorIs(t, err, storeErr)
}
