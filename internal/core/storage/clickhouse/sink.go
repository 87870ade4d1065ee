// Package clickhouse mirrors canonical events into a ClickHouse table for
// ad-hoc analytics. It is never on the rollup path.
package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	v1 "github.com/tally-lab/tally/internal/api/v1"
)

const (
	queryCreateEvents = `
		CREATE TABLE IF NOT EXISTS events (
			id         String,
			site_id    String,
			event_type String,
			path       String,
			user_id    String,
			timestamp  DateTime64(3, 'UTC'),
			created_at DateTime64(3, 'UTC')
		)
		ENGINE = ReplacingMergeTree
		ORDER BY (site_id, timestamp, id)
	`

	queryInsertEvents = `
		INSERT INTO events (
			id, site_id, event_type, path, user_id, timestamp, created_at
		)
	`
)

// Options configures the native connection.
type Options struct {
	Addr        string
	Database    string
	Username    string
	Password    string
	DialTimeout time.Duration
}

// conn is the subset of driver.Conn the sink uses.
type conn interface {
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Exec(ctx context.Context, query string, args ...any) error
	Ping(ctx context.Context) error
	Close() error
}

// Sink batch-inserts canonical events. Duplicates collapse on merge
// because the table is a ReplacingMergeTree keyed on id.
type Sink struct {
	conn conn
}

// Open connects over the native protocol and ensures the events table.
func Open(ctx context.Context, opts Options) (*Sink, error) {
	dialTimeout := opts.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	c, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{opts.Addr},
		Auth: clickhouse.Auth{
			Database: opts.Database,
			Username: opts.Username,
			Password: opts.Password,
		},
		ClientInfo: clickhouse.ClientInfo{
			Products: []struct {
				Name    string
				Version string
			}{{Name: "tally", Version: "1.0.0"}},
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout: dialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	sink := newSink(c)
	pingCtx, cancel := context.WithTimeout(ctx, 2*dialTimeout)
	defer cancel()
	if err := c.Ping(pingCtx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}
	if err := sink.EnsureSchema(pingCtx); err != nil {
		c.Close()
		return nil, err
	}

	slog.Info("[ClickHouse] Sink connected", "addr", opts.Addr, "database", opts.Database)
	return sink, nil
}

func newSink(c conn) *Sink {
	return &Sink{conn: c}
}

// EnsureSchema creates the events table if it does not exist.
func (s *Sink) EnsureSchema(ctx context.Context) error {
	if err := s.conn.Exec(ctx, queryCreateEvents); err != nil {
		return fmt.Errorf("failed to create clickhouse events table: %w", err)
	}
	return nil
}

// WriteEvents sends events as one batch. A failed append aborts the batch.
func (s *Sink) WriteEvents(ctx context.Context, events []*v1.Event) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, queryInsertEvents)
	if err != nil {
		return fmt.Errorf("failed to prepare clickhouse batch: %w", err)
	}

	for _, evt := range events {
		if err := batch.Append(
			evt.ID,
			evt.SiteID,
			evt.EventType,
			evt.Path,
			evt.UserID,
			evt.Timestamp.UTC(),
			evt.CreatedAt.UTC(),
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("failed to append event %s to clickhouse batch: %w", evt.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send clickhouse batch: %w", err)
	}

	slog.Debug("[ClickHouse] Wrote events", "count", len(events))
	return nil
}

// Ping checks connectivity.
func (s *Sink) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the connection.
func (s *Sink) Close() error {
	return s.conn.Close()
}
