package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mobileshop/billing/internal/shared"
)

// New creates the Redis client backing the shared key/value state (invoice
// counter, settings, refresh signal).
func New(ctx context.Context, addr string) (*redis.Client, error) {
	if addr == "" {
		return nil, fmt.Errorf("platform/cache: %w: empty address", shared.ErrEnvironmentUnsupported)
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping: %w: %v", shared.ErrEnvironmentUnsupported, err)
	}

	return client, nil
}
