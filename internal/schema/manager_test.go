package schema

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mobileshop/billing/internal/shared"
)

type fakeStore struct {
	mu       sync.Mutex
	pingErr  error
	existing map[string]bool
	created  []string
	versions []int
	failOn   string
	delay    time.Duration
	inspects atomic.Int32
}

func newFakeStore(existing ...string) *fakeStore {
	s := &fakeStore{existing: make(map[string]bool)}
	for _, name := range existing {
		s.existing[name] = true
	}
	return s
}

func (s *fakeStore) Ping(context.Context) error { return s.pingErr }

func (s *fakeStore) ExistingCollections(context.Context) (map[string]bool, error) {
	s.inspects.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.existing))
	for k, v := range s.existing {
		out[k] = v
	}
	return out, nil
}

func (s *fakeStore) CreateCollection(_ context.Context, c Collection) error {
	if c.Name == s.failOn {
		return shared.ErrTransactionAborted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.existing[c.Name] = true
	s.created = append(s.created, c.Name)
	return nil
}

func (s *fakeStore) RecordVersion(_ context.Context, v int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions = append(s.versions, v)
	return nil
}

func TestOpenCreatesAllCollectionsOnEmptyStore(t *testing.T) {
	store := newFakeStore()
	db, err := NewManager(store, nil).Open(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"products", "invoices", "gst_records"}, db.Created)
	require.Equal(t, []int{Version}, store.versions)
}

func TestOpenOnlyCreatesMissingCollections(t *testing.T) {
	store := newFakeStore("products", "invoices")
	db, err := NewManager(store, nil).Open(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"gst_records"}, db.Created)
	require.Len(t, db.Collections, 3)
}

func TestOpenIsIdempotent(t *testing.T) {
	store := newFakeStore()
	m := NewManager(store, nil)
	_, err := m.Open(context.Background())
	require.NoError(t, err)

	db, err := m.Open(context.Background())
	require.NoError(t, err)
	require.Empty(t, db.Created)
	require.Len(t, store.created, 3)
}

func TestOpenWithoutStorage(t *testing.T) {
	_, err := NewManager(nil, nil).Open(context.Background())
	require.ErrorIs(t, err, shared.ErrEnvironmentUnsupported)

	store := newFakeStore()
	store.pingErr = shared.ErrEnvironmentUnsupported
	_, err = NewManager(store, nil).Open(context.Background())
	require.ErrorIs(t, err, shared.ErrEnvironmentUnsupported)
	require.Zero(t, store.inspects.Load())
}

func TestOpenReportsCreateFailure(t *testing.T) {
	store := newFakeStore()
	store.failOn = "invoices"
	_, err := NewManager(store, nil).Open(context.Background())
	require.True(t, errors.Is(err, shared.ErrTransactionAborted))
	require.Equal(t, []string{"products"}, store.created)
	require.Empty(t, store.versions)
}

func TestConcurrentOpenSharesOneRun(t *testing.T) {
	store := newFakeStore()
	store.delay = 50 * time.Millisecond
	m := NewManager(store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Open(context.Background())
			require.NoError(t, err)
		}()
	}
	wg.Wait()
	require.Len(t, store.created, 3)
	require.Less(t, store.inspects.Load(), int32(8))
}
