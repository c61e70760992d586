// Package numbering issues invoice numbers from a persisted counter.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mobileshop/billing/internal/shared"
)

// CounterKey holds the last issued sequence number.
const CounterKey = "lastInvoiceNumber"

var numberPattern = regexp.MustCompile(`^INV-(\d{3,})-(\d{4})$`)

// Issuer hands out invoice numbers. The counter is shared by every process
// pointed at the same Redis, and INCR keeps issued numbers unique.
type Issuer struct {
	client *redis.Client
	now    func() time.Time
}

// NewIssuer constructs an Issuer. now defaults to time.Now.
func NewIssuer(client *redis.Client, now func() time.Time) *Issuer {
	if now == nil {
		now = time.Now
	}
	return &Issuer{client: client, now: now}
}

// Next increments the counter and returns the formatted number.
func (i *Issuer) Next(ctx context.Context) (string, error) {
	if i == nil || i.client == nil {
		return "", fmt.Errorf("numbering: %w", shared.ErrEnvironmentUnsupported)
	}
	seq, err := i.client.Incr(ctx, CounterKey).Result()
	if err != nil {
		return "", fmt.Errorf("numbering: increment %s: %w: %v", CounterKey, shared.ErrTransactionAborted, err)
	}
	return Format(seq, i.now().Year()), nil
}

// Reset starts a fresh draft number. The counter never goes back, so Reset
// behaves exactly like Next and numbers are never reused.
func (i *Issuer) Reset(ctx context.Context) (string, error) {
	return i.Next(ctx)
}

// Last reports the most recently issued sequence, zero when none was issued.
func (i *Issuer) Last(ctx context.Context) (int64, error) {
	if i == nil || i.client == nil {
		return 0, fmt.Errorf("numbering: %w", shared.ErrEnvironmentUnsupported)
	}
	seq, err := i.client.Get(ctx, CounterKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("numbering: read %s: %w: %v", CounterKey, shared.ErrTransactionAborted, err)
	}
	return seq, nil
}

// Format renders a sequence and year as INV-<seq>-<year>, padding seq to
// three digits.
func Format(seq int64, year int) string {
	return fmt.Sprintf("INV-%03d-%d", seq, year)
}

// Parse splits a formatted invoice number back into its sequence and year.
func Parse(number string) (seq int64, year int, err error) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: malformed invoice number %q", shared.ErrValidation, number)
	}
	seq, err = strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invoice sequence %q: %v", shared.ErrValidation, m[1], err)
	}
	year, _ = strconv.Atoi(m[2])
	return seq, year, nil
}
