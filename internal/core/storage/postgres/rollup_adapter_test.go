package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/aggregation"
	coreerrors "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/core/storage"
)

func testFold() aggregation.DayFold {
	return aggregation.DayFold{
		Key:        aggregation.GroupKey{SiteID: "s1", Date: time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)},
		TotalViews: 4,
		Users:      []string{"u1", "u2"},
		PathStats:  []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}},
	}
}

func dailyStatColumns() []string {
	return []string{"site_id", "date", "total_views", "unique_users", "path_stats", "last_updated"}
}

func TestRollupAdapter_MergeAddsToExistingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewRollupAdapter(db)
	at := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	fold := testFold()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(queryInsertDayUsers)).
		WithArgs("s1", "2026-02-08", pq.Array([]string{"u1", "u2"})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(queryEnsureDailyStat)).
		WithArgs("s1", "2026-02-08", at).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(querySelectDailyStatForUpdate)).
		WithArgs("s1", "2026-02-08").
		WillReturnRows(sqlmock.NewRows(dailyStatColumns()).
			AddRow("s1", fold.Key.Date, int64(2), int64(1), []byte(`[{"path":"/b","views":2}]`), at.Add(-time.Hour)))
	mock.ExpectExec(regexp.QuoteMeta(queryUpsertDailyStat)).
		WithArgs("s1", "2026-02-08", int64(6), int64(2), []byte(`[{"path":"/b","views":3},{"path":"/a","views":3}]`), at).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = adapter.ApplyFold(context.Background(), fold, aggregation.ModeMerge, at)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRollupAdapter_MergeRecordsUsersInSortedOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewRollupAdapter(db)
	at := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	fold := testFold()
	fold.Users = []string{"u3", "u1", "u2"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(queryInsertDayUsers)).
		WithArgs("s1", "2026-02-08", pq.Array([]string{"u1", "u2", "u3"})).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(queryEnsureDailyStat)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(querySelectDailyStatForUpdate)).
		WillReturnRows(sqlmock.NewRows(dailyStatColumns()).
			AddRow("s1", fold.Key.Date, int64(0), int64(0), []byte(`[]`), at))
	mock.ExpectExec(regexp.QuoteMeta(queryUpsertDailyStat)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, adapter.ApplyFold(context.Background(), fold, aggregation.ModeMerge, at))
	require.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, []string{"u3", "u1", "u2"}, fold.Users, "caller's slice is untouched")
}

func TestRollupAdapter_MergeRollsBackOnUpsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewRollupAdapter(db)
	at := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(queryInsertDayUsers)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(queryEnsureDailyStat)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(querySelectDailyStatForUpdate)).
		WillReturnRows(sqlmock.NewRows(dailyStatColumns()).
			AddRow("s1", testFold().Key.Date, int64(0), int64(0), []byte(`[]`), at))
	mock.ExpectExec(regexp.QuoteMeta(queryUpsertDailyStat)).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err = adapter.ApplyFold(context.Background(), testFold(), aggregation.ModeMerge, at)
	require.True(t, coreerrors.IsStore(err))
	require.ErrorContains(t, err, "deadlock detected")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRollupAdapter_ReplaceOverwrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewRollupAdapter(db)
	at := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta(queryUpsertDailyStat)).
		WithArgs("s1", "2026-02-08", int64(4), int64(2), []byte(`[{"path":"/a","views":3},{"path":"/b","views":1}]`), at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = adapter.ApplyFold(context.Background(), testFold(), aggregation.ModeReplace, at)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRollupAdapter_GetDailyStat(t *testing.T) {
	day := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)
	at := day.Add(12 * time.Hour)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(queryGetDailyStat)).
			WithArgs("s1", "2026-02-08").
			WillReturnRows(sqlmock.NewRows(dailyStatColumns()).
				AddRow("s1", day, int64(4), int64(2), []byte(`[{"path":"/a","views":3},{"path":"/b","views":1}]`), at))

		stat, err := NewRollupAdapter(db).GetDailyStat(context.Background(), "s1", day)
		require.NoError(t, err)
		require.Equal(t, int64(4), stat.TotalViews)
		require.Equal(t, int64(2), stat.UniqueUsers)
		require.Equal(t, []v1.PathStat{{Path: "/a", Views: 3}, {Path: "/b", Views: 1}}, stat.PathStats)
		require.Equal(t, "2026-02-08", stat.DateString())
	})

	t.Run("missing row maps to ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(queryGetDailyStat)).
			WithArgs("s1", "2026-02-08").
			WillReturnRows(sqlmock.NewRows(dailyStatColumns()))

		_, err = NewRollupAdapter(db).GetDailyStat(context.Background(), "s1", day)
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestRollupAdapter_ListDailyStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d1 := time.Date(2026, 2, 8, 0, 0, 0, 0, time.UTC)
	d0 := d1.AddDate(0, 0, -1)

	mock.ExpectQuery(regexp.QuoteMeta(queryListDailyStats)).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows(dailyStatColumns()).
			AddRow("s1", d1, int64(1), int64(1), []byte(`[{"path":"/","views":1}]`), d1).
			AddRow("s1", d0, int64(2), int64(1), nil, d0))

	stats, err := NewRollupAdapter(db).ListDailyStats(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.Equal(t, d1, stats[0].Date)
	require.Equal(t, []v1.PathStat{}, stats[1].PathStats)
	require.NoError(t, mock.ExpectationsWereMet())
}
