package postgres

import (
	"database/sql"
	"fmt"
)

// Store serves queue, canonical events and rollups from one connection pool.
type Store struct {
	*Adapter
	*RollupAdapter
}

// NewStore prepares the adapters on an opened and migrated db.
func NewStore(db *sql.DB) (*Store, error) {
	adapter, err := NewAdapter(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres adapter: %w", err)
	}
	return &Store{
		Adapter:       adapter,
		RollupAdapter: NewRollupAdapter(db),
	}, nil
}
