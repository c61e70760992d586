package numbering

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/billing/internal/shared"
)

func newIssuer(t *testing.T) (*Issuer, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	fixed := func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return NewIssuer(client, fixed), mr
}

func TestNextStartsAtOneAndIncreases(t *testing.T) {
	issuer, mr := newIssuer(t)
	ctx := context.Background()

	first, err := issuer.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-001-2024", first)

	second, err := issuer.Next(ctx)
	require.NoError(t, err)
	require.Equal(t, "INV-002-2024", second)

	stored, err := mr.Get(CounterKey)
	require.NoError(t, err)
	require.Equal(t, "2", stored)
}

func TestNextContinuesFromStoredCounter(t *testing.T) {
	issuer, mr := newIssuer(t)
	require.NoError(t, mr.Set(CounterKey, "999"))

	number, err := issuer.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "INV-1000-2024", number)
}

func TestResetNeverReusesNumbers(t *testing.T) {
	issuer, _ := newIssuer(t)
	ctx := context.Background()

	a, err := issuer.Next(ctx)
	require.NoError(t, err)
	b, err := issuer.Reset(ctx)
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	last, err := issuer.Last(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), last)
}

func TestConcurrentNextIsUnique(t *testing.T) {
	issuer, _ := newIssuer(t)
	ctx := context.Background()

	const workers = 20
	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		wg   sync.WaitGroup
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			number, err := issuer.Next(ctx)
			require.NoError(t, err)
			mu.Lock()
			seen[number] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, seen, workers)
}

func TestSequencesStrictlyIncrease(t *testing.T) {
	issuer, _ := newIssuer(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		number, err := issuer.Next(ctx)
		require.NoError(t, err)
		seq, year, err := Parse(number)
		require.NoError(t, err)
		require.Equal(t, 2024, year)
		require.Greater(t, seq, prev)
		prev = seq
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "INV-1-2024", "INV-001-24", "BILL-001-2024"} {
		_, _, err := Parse(bad)
		require.ErrorIs(t, err, shared.ErrValidation, bad)
	}
}

func TestNextWithoutRedis(t *testing.T) {
	_, err := NewIssuer(nil, nil).Next(context.Background())
	require.ErrorIs(t, err, shared.ErrEnvironmentUnsupported)
}

func TestNextWhenRedisDown(t *testing.T) {
	issuer, mr := newIssuer(t)
	mr.Close()
	_, err := issuer.Next(context.Background())
	require.ErrorIs(t, err, shared.ErrTransactionAborted)
}
