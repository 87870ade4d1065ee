package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	v1 "github.com/tally-lab/tally/internal/api/v1"
	"github.com/tally-lab/tally/internal/core/aggregation"
)

// marshalPathStats encodes path stats for the JSONB column.
// Nil encodes as an empty array, never JSON null.
func marshalPathStats(stats []v1.PathStat) ([]byte, error) {
	if stats == nil {
		stats = []v1.PathStat{}
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal path_stats: %w", err)
	}
	return raw, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanQueueRow(row scanner) (*v1.QueueEntry, error) {
	var entry v1.QueueEntry
	err := row.Scan(
		&entry.ID,
		&entry.SiteID,
		&entry.EventType,
		&entry.Path,
		&entry.UserID,
		&entry.Timestamp,
		&entry.Processed,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan queue row: %w", err)
	}
	entry.Timestamp = entry.Timestamp.UTC()
	entry.CreatedAt = entry.CreatedAt.UTC()
	return &entry, nil
}

func scanDailyStatRow(row scanner) (*v1.DailyStat, error) {
	var stat v1.DailyStat
	var pathJSON []byte

	err := row.Scan(
		&stat.SiteID,
		&stat.Date,
		&stat.TotalViews,
		&stat.UniqueUsers,
		&pathJSON,
		&stat.LastUpdated,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily_stats row: %w", err)
	}

	stat.Date = aggregation.DayFor(stat.Date)
	stat.LastUpdated = stat.LastUpdated.UTC()
	if len(pathJSON) > 0 {
		if err := json.Unmarshal(pathJSON, &stat.PathStats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal path_stats: %w", err)
		}
	}
	if stat.PathStats == nil {
		stat.PathStats = []v1.PathStat{}
	}
	return &stat, nil
}

// dayParam renders a rollup day for a DATE column.
func dayParam(day time.Time) string {
	return aggregation.DayFor(day).Format(v1.DateLayout)
}

func timeParam(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
