package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mobileshop/billing/internal/platform/db"
	"github.com/mobileshop/billing/internal/shared"
)

// Store is the storage backend the Manager inspects and extends.
type Store interface {
	Ping(ctx context.Context) error
	ExistingCollections(ctx context.Context) (map[string]bool, error)
	CreateCollection(ctx context.Context, c Collection) error
	RecordVersion(ctx context.Context, version int) error
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewPGStore wraps a PostgreSQL pool. A nil pool yields a store that reports
// shared.ErrEnvironmentUnsupported.
func NewPGStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("schema: %w: no database configured", shared.ErrEnvironmentUnsupported)
	}
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("schema: ping: %w: %v", shared.ErrEnvironmentUnsupported, err)
	}
	return nil
}

func (s *pgStore) ExistingCollections(ctx context.Context) (map[string]bool, error) {
	names := make([]string, 0, len(Collections))
	for _, c := range Collections {
		names = append(names, c.Name)
	}
	const query = `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = ANY($1)`
	rows, err := s.pool.Query(ctx, query, names)
	if err != nil {
		return nil, fmt.Errorf("schema: list tables: %w", db.Classify(err))
	}
	defer rows.Close()

	existing := make(map[string]bool, len(names))
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("schema: scan table: %w", db.Classify(err))
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schema: list tables: %w", db.Classify(err))
	}
	return existing, nil
}

func (s *pgStore) CreateCollection(ctx context.Context, c Collection) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		for _, stmt := range c.Statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("schema: create %s: %w", c.Name, db.Classify(err))
			}
		}
		return nil
	})
}

func (s *pgStore) RecordVersion(ctx context.Context, version int) error {
	return db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, metaDDL); err != nil {
			return fmt.Errorf("schema: create schema_meta: %w", db.Classify(err))
		}
		const upsert = `INSERT INTO schema_meta (id, version) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET version = GREATEST(schema_meta.version, EXCLUDED.version), updated_at = NOW()`
		if _, err := tx.Exec(ctx, upsert, version); err != nil {
			return fmt.Errorf("schema: record version: %w", db.Classify(err))
		}
		return nil
	})
}
