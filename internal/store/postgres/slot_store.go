package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/predledger/internal/domain"
)

// SlotStore implements domain.SlotStore using PostgreSQL. Each slot is one
// bytea blob keyed by slot name.
type SlotStore struct {
	pool *pgxpool.Pool
}

// NewSlotStore creates a SlotStore backed by the given connection pool.
func NewSlotStore(pool *pgxpool.Pool) *SlotStore {
	return &SlotStore{pool: pool}
}

// Load returns the persisted bytes for key, or domain.ErrSlotNotFound when
// the slot has never been saved.
func (s *SlotStore) Load(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT data FROM slots WHERE key = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: load slot %s: %w", key, err)
	}
	return data, nil
}

// Save upserts the slot contents for key.
func (s *SlotStore) Save(ctx context.Context, key string, data []byte) error {
	const query = `
		INSERT INTO slots (key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			data       = EXCLUDED.data,
			updated_at = NOW()`

	if _, err := s.pool.Exec(ctx, query, key, data); err != nil {
		return fmt.Errorf("postgres: save slot %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SlotStore = (*SlotStore)(nil)
