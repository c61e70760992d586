// Package schema opens the billing database, creating any missing collections.
package schema

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/mobileshop/billing/internal/shared"
)

// Database describes the storage state after a successful Open.
type Database struct {
	Version     int
	Collections []string
	// Created lists collections this Open call had to create.
	Created []string
}

// Manager opens the database. Open is idempotent and may be called again at
// any time, for example after a write reported shared.ErrSchemaMissing.
type Manager struct {
	store  Store
	logger *slog.Logger
	group  singleflight.Group
}

// NewManager constructs a Manager.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, logger: logger}
}

// Open checks storage and creates missing collections. Existing collections
// are left untouched. Concurrent callers share one run.
func (m *Manager) Open(ctx context.Context) (*Database, error) {
	if m == nil || m.store == nil {
		return nil, fmt.Errorf("schema: open: %w", shared.ErrEnvironmentUnsupported)
	}
	ch := m.group.DoChan("open", func() (interface{}, error) {
		return m.open(ctx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Database), nil
	}
}

func (m *Manager) open(ctx context.Context) (*Database, error) {
	if err := m.store.Ping(ctx); err != nil {
		m.logger.Error("schema open failed", slog.String("op", "ping"), slog.Any("error", err))
		return nil, err
	}
	existing, err := m.store.ExistingCollections(ctx)
	if err != nil {
		m.logger.Error("schema open failed", slog.String("op", "inspect"), slog.Any("error", err))
		return nil, err
	}

	database := &Database{Version: Version}
	for _, c := range Collections {
		database.Collections = append(database.Collections, c.Name)
		if existing[c.Name] {
			continue
		}
		if err := m.store.CreateCollection(ctx, c); err != nil {
			m.logger.Error("schema open failed",
				slog.String("op", "create"),
				slog.String("collection", c.Name),
				slog.Any("error", err))
			return nil, err
		}
		database.Created = append(database.Created, c.Name)
	}
	if err := m.store.RecordVersion(ctx, Version); err != nil {
		m.logger.Error("schema open failed", slog.String("op", "record_version"), slog.Any("error", err))
		return nil, err
	}
	if len(database.Created) > 0 {
		m.logger.Info("schema collections created",
			slog.Any("collections", database.Created),
			slog.Int("version", Version))
	}
	return database, nil
}
