package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/mobileshop/billing/internal/shared"
)

// Store loads, caches and persists Settings.
type Store struct {
	client   *redis.Client
	logger   *slog.Logger
	validate *validator.Validate

	mu      sync.RWMutex
	current Settings
}

// NewStore constructs a Store primed with Defaults.
func NewStore(client *redis.Client, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{client: client, logger: logger, validate: shared.NewValidator(), current: Defaults()}
}

// Current returns the cached settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load overlays persisted values on the defaults and caches the result.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	if s.client == nil {
		return Settings{}, fmt.Errorf("settings: %w", shared.ErrEnvironmentUnsupported)
	}
	loaded := Defaults()
	vals, err := s.client.MGet(ctx, SettingsKey, PathsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return Settings{}, fmt.Errorf("settings: load: %w: %v", shared.ErrTransactionAborted, err)
	}
	if raw, ok := vals[0].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
			s.logger.Warn("stored settings unreadable, using defaults", slog.String("key", SettingsKey), slog.Any("error", err))
			loaded = Defaults()
		}
	}
	if raw, ok := vals[1].(string); ok && raw != "" {
		var paths InvoicePaths
		if err := json.Unmarshal([]byte(raw), &paths); err != nil {
			s.logger.Warn("stored invoice paths unreadable", slog.String("key", PathsKey), slog.Any("error", err))
		} else {
			if paths.GST != "" {
				loaded.InvoicePaths.GST = paths.GST
			}
			if paths.NonGST != "" {
				loaded.InvoicePaths.NonGST = paths.NonGST
			}
		}
	}
	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded, nil
}

// Save validates and persists settings, then replaces the cached copy.
func (s *Store) Save(ctx context.Context, next Settings) (Settings, error) {
	next.InvoicePaths.GST = strings.TrimSpace(next.InvoicePaths.GST)
	next.InvoicePaths.NonGST = strings.TrimSpace(next.InvoicePaths.NonGST)
	if err := shared.ValidationError(s.validate.Struct(next)); err != nil {
		return Settings{}, err
	}
	if s.client == nil {
		return Settings{}, fmt.Errorf("settings: %w", shared.ErrEnvironmentUnsupported)
	}
	doc, err := json.Marshal(next)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: encode: %w", err)
	}
	paths, err := json.Marshal(next.InvoicePaths)
	if err != nil {
		return Settings{}, fmt.Errorf("settings: encode paths: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SettingsKey, doc, 0)
		pipe.Set(ctx, PathsKey, paths, 0)
		return nil
	})
	if err != nil {
		return Settings{}, fmt.Errorf("settings: save: %w: %v", shared.ErrTransactionAborted, err)
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.logger.Info("settings saved", slog.String("shop", next.ShopName))
	return next, nil
}

// SavePaths updates only the invoice export directories.
func (s *Store) SavePaths(ctx context.Context, paths InvoicePaths) (Settings, error) {
	next := s.Current()
	next.InvoicePaths = paths
	return s.Save(ctx, next)
}
