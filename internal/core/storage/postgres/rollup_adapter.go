package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/lib/pq"
	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/aggregation"
	coreerrors "github.com/tally-lab/tally/internal/core/errors"
	"github.com/tally-lab/tally/internal/core/storage"
)

// RollupAdapter implements storage.RollupStore using PostgreSQL.
// In merge mode the user set, the row lock and the upsert share one
// transaction, so concurrent folds for the same day serialize on the row.
type RollupAdapter struct {
	db *sql.DB
}

// NewRollupAdapter creates a RollupAdapter sharing the given connection.
func NewRollupAdapter(db *sql.DB) *RollupAdapter {
	return &RollupAdapter{db: db}
}

// ApplyFold writes fold into the (site, day) row according to mode.
func (a *RollupAdapter) ApplyFold(ctx context.Context, fold aggregation.DayFold, mode aggregation.RollupMode, at time.Time) error {
	switch mode {
	case aggregation.ModeReplace:
		return a.replace(ctx, fold, at)
	case aggregation.ModeMerge, "":
		return a.merge(ctx, fold, at)
	default:
		return fmt.Errorf("apply fold: unknown rollup mode %q", mode)
	}
}

func (a *RollupAdapter) replace(ctx context.Context, fold aggregation.DayFold, at time.Time) error {
	stat := aggregation.Replace(fold, at)
	if err := upsertDailyStat(ctx, a.db, stat); err != nil {
		return coreerrors.NewStoreError("upsert daily stat", err)
	}
	return nil
}

type execQueryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertDailyStat(ctx context.Context, db execQueryer, stat *v1.DailyStat) error {
	pathJSON, err := marshalPathStats(stat.PathStats)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, queryUpsertDailyStat,
		stat.SiteID,
		dayParam(stat.Date),
		stat.TotalViews,
		stat.UniqueUsers,
		pathJSON,
		stat.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("upsert %s:%s: %w", stat.SiteID, stat.DateString(), err)
	}
	return nil
}

func (a *RollupAdapter) merge(ctx context.Context, fold aggregation.DayFold, at time.Time) error {
	day := dayParam(fold.Key.Date)

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return coreerrors.NewStoreError("merge fold", fmt.Errorf("begin tx: %w", err))
	}
	defer tx.Rollback() //nolint:errcheck

	var newUsers int64
	if len(fold.Users) > 0 {
		users := slices.Clone(fold.Users)
		slices.Sort(users)
		res, err := tx.ExecContext(ctx, queryInsertDayUsers, fold.Key.SiteID, day, pq.Array(users))
		if err != nil {
			return coreerrors.NewStoreError("merge fold", fmt.Errorf("record users: %w", err))
		}
		newUsers, err = res.RowsAffected()
		if err != nil {
			return coreerrors.NewStoreError("merge fold", fmt.Errorf("count new users: %w", err))
		}
	}

	if _, err := tx.ExecContext(ctx, queryEnsureDailyStat, fold.Key.SiteID, day, at.UTC()); err != nil {
		return coreerrors.NewStoreError("merge fold", fmt.Errorf("ensure row: %w", err))
	}

	existing, err := scanDailyStatRow(tx.QueryRowContext(ctx, querySelectDailyStatForUpdate, fold.Key.SiteID, day))
	if err != nil {
		return coreerrors.NewStoreError("merge fold", fmt.Errorf("lock row: %w", err))
	}

	merged := aggregation.Merge(existing, fold, newUsers, at)
	if err := upsertDailyStat(ctx, tx, merged); err != nil {
		return coreerrors.NewStoreError("merge fold", err)
	}

	if err := tx.Commit(); err != nil {
		return coreerrors.NewStoreError("merge fold", fmt.Errorf("commit: %w", err))
	}

	slog.Debug("[RollupAdapter] Merged fold",
		"key", fold.Key.String(),
		"views", fold.TotalViews,
		"new_users", newUsers,
		"total_views", merged.TotalViews)
	return nil
}

// GetDailyStat returns storage.ErrNotFound when the row is missing.
func (a *RollupAdapter) GetDailyStat(ctx context.Context, siteID string, day time.Time) (*v1.DailyStat, error) {
	stat, err := scanDailyStatRow(a.db.QueryRowContext(ctx, queryGetDailyStat, siteID, dayParam(day)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, coreerrors.NewStoreError("get daily stat", err)
	}
	return stat, nil
}

// ListDailyStats returns all rows for siteID, newest day first.
func (a *RollupAdapter) ListDailyStats(ctx context.Context, siteID string) ([]*v1.DailyStat, error) {
	rows, err := a.db.QueryContext(ctx, queryListDailyStats, siteID)
	if err != nil {
		return nil, coreerrors.NewStoreError("list daily stats", err)
	}
	defer rows.Close()

	var stats []*v1.DailyStat
	for rows.Next() {
		stat, err := scanDailyStatRow(rows)
		if err != nil {
			return nil, coreerrors.NewStoreError("list daily stats", err)
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, coreerrors.NewStoreError("list daily stats", fmt.Errorf("iterate rows: %w", err))
	}
	return stats, nil
}
