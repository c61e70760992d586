// Package refresh tells other open views that GST data changed.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mobileshop/billing/internal/shared"
)

// Key is both the storage key and the pub/sub channel of the signal.
const Key = "gstDataUpdated"

// Signal stores and broadcasts the time GST data last changed. It is advisory
// and last-write-wins.
type Signal struct {
	client *redis.Client
	logger *slog.Logger
	now    func() time.Time
}

// NewSignal constructs a Signal. now defaults to time.Now.
func NewSignal(client *redis.Client, logger *slog.Logger, now func() time.Time) *Signal {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Signal{client: client, logger: logger, now: now}
}

// Signal records the current time and publishes it to live observers.
func (s *Signal) Signal(ctx context.Context) (time.Time, error) {
	if s == nil || s.client == nil {
		return time.Time{}, fmt.Errorf("refresh: %w", shared.ErrEnvironmentUnsupported)
	}
	at := s.now().UTC()
	stamp := at.Format(time.RFC3339Nano)
	if err := s.client.Set(ctx, Key, stamp, 0).Err(); err != nil {
		return time.Time{}, fmt.Errorf("refresh: set %s: %w: %v", Key, shared.ErrTransactionAborted, err)
	}
	if err := s.client.Publish(ctx, Key, stamp).Err(); err != nil {
		// The stored stamp is enough for polling observers.
		s.logger.Warn("refresh publish failed", slog.String("op", "refresh.publish"), slog.Any("error", err))
	}
	return at, nil
}

// Last returns the stored timestamp, zero when nothing was signalled yet.
func (s *Signal) Last(ctx context.Context) (time.Time, error) {
	if s == nil || s.client == nil {
		return time.Time{}, fmt.Errorf("refresh: %w", shared.ErrEnvironmentUnsupported)
	}
	raw, err := s.client.Get(ctx, Key).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("refresh: get %s: %w: %v", Key, shared.ErrTransactionAborted, err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		s.logger.Warn("refresh stamp unreadable", slog.String("value", raw), slog.Any("error", err))
		return time.Time{}, nil
	}
	return at, nil
}

// Observe reports whether data changed after lastSeen, along with the stored
// timestamp.
func (s *Signal) Observe(ctx context.Context, lastSeen time.Time) (bool, time.Time, error) {
	at, err := s.Last(ctx)
	if err != nil {
		return false, time.Time{}, err
	}
	return at.After(lastSeen), at, nil
}

// Subscribe delivers every published timestamp until ctx is done. The
// returned channel is closed when the subscription ends.
func (s *Signal) Subscribe(ctx context.Context) (<-chan time.Time, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("refresh: %w", shared.ErrEnvironmentUnsupported)
	}
	pubsub := s.client.Subscribe(ctx, Key)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("refresh: subscribe: %w: %v", shared.ErrTransactionAborted, err)
	}
	out := make(chan time.Time, 1)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				at, err := time.Parse(time.RFC3339Nano, msg.Payload)
				if err != nil {
					continue
				}
				select {
				case out <- at:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
