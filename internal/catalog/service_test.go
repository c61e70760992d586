package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/billing/internal/shared"
)

type memoryRepo struct {
	products map[int64]Product
	nextID   int64

	gets      int
	updates   int
	conflicts int
}

func newMemoryRepo(products ...Product) *memoryRepo {
	r := &memoryRepo{products: make(map[int64]Product)}
	for _, p := range products {
		if p.Version == 0 {
			p.Version = 1
		}
		r.products[p.ID] = p
		if p.ID > r.nextID {
			r.nextID = p.ID
		}
	}
	return r
}

func (r *memoryRepo) List(context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memoryRepo) Get(_ context.Context, id int64) (Product, error) {
	r.gets++
	p, ok := r.products[id]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *memoryRepo) Create(_ context.Context, p Product) (Product, error) {
	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	p.Version = 1
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Update(_ context.Context, p Product) (Product, error) {
	r.updates++
	current, ok := r.products[p.ID]
	if !ok {
		return Product{}, shared.ErrNotFound
	}
	if r.conflicts > 0 {
		r.conflicts--
		current.Version++
		r.products[p.ID] = current
		return Product{}, shared.ErrConcurrentUpdate
	}
	if current.Version != p.Version {
		return Product{}, shared.ErrConcurrentUpdate
	}
	p.Version++
	r.products[p.ID] = p
	return p, nil
}

func (r *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memoryRepo) Count(context.Context) (int, error) {
	return len(r.products), nil
}

func phone(id int64, name string, stock int) Product {
	return Product{ID: id, Name: name, Price: decimal.NewFromInt(999), Stock: stock, Category: CategoryPhone}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	repo := newMemoryRepo(phone(1, "iPhone 14", 5), phone(2, "Galaxy S23", 5), phone(3, "IPHONE case", 5))
	svc := NewService(repo, nil, ServiceConfig{})

	got, err := svc.Search(context.Background(), "iphone")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(1), got[0].ID)
	require.Equal(t, int64(3), got[1].ID)

	all, err := svc.Search(context.Background(), "   ")
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestGetMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, ServiceConfig{})
	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateQuantityFloorsAtZero(t *testing.T) {
	repo := newMemoryRepo(phone(1, "iPhone 14", 2))
	svc := NewService(repo, nil, ServiceConfig{})

	require.NoError(t, svc.UpdateQuantity(context.Background(), ProductRef(1), 1))
	require.Equal(t, 1, repo.products[1].Stock)

	require.NoError(t, svc.UpdateQuantity(context.Background(), ProductRef(1), 5))
	require.Equal(t, 0, repo.products[1].Stock)
}

func TestUpdateQuantityManualRefSkipsStore(t *testing.T) {
	repo := newMemoryRepo(phone(1, "iPhone 14", 2))
	svc := NewService(repo, nil, ServiceConfig{})

	require.NoError(t, svc.UpdateQuantity(context.Background(), NewManualRef(), 3))
	require.Zero(t, repo.gets)
	require.Zero(t, repo.updates)
}

func TestUpdateQuantityRetriesOnConflict(t *testing.T) {
	repo := newMemoryRepo(phone(1, "iPhone 14", 10))
	repo.conflicts = 2
	svc := NewService(repo, nil, ServiceConfig{StockRetries: 3})

	require.NoError(t, svc.UpdateQuantity(context.Background(), ProductRef(1), 4))
	require.Equal(t, 6, repo.products[1].Stock)
	require.Equal(t, 3, repo.updates)
}

func TestUpdateQuantityGivesUpAfterRetries(t *testing.T) {
	repo := newMemoryRepo(phone(1, "iPhone 14", 10))
	repo.conflicts = 10
	svc := NewService(repo, nil, ServiceConfig{StockRetries: 2})

	err := svc.UpdateQuantity(context.Background(), ProductRef(1), 1)
	require.ErrorIs(t, err, shared.ErrConcurrentUpdate)
	require.Equal(t, 3, repo.updates)
}

func TestUpdateQuantityMissingProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, ServiceConfig{})
	err := svc.UpdateQuantity(context.Background(), ProductRef(9), 1)
	require.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestCreateValidatesProduct(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, ServiceConfig{})

	_, err := svc.Create(context.Background(), Product{Name: "", Price: decimal.NewFromInt(10)})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), Product{Name: "Charger", Price: decimal.Zero})
	require.ErrorIs(t, err, shared.ErrValidation)

	created, err := svc.Create(context.Background(), Product{Name: "Charger", Price: decimal.NewFromInt(499), Stock: 3})
	require.NoError(t, err)
	require.Equal(t, int64(1), created.ID)
}

func TestUpdateKeepsStoredVersion(t *testing.T) {
	repo := newMemoryRepo(phone(1, "iPhone 14", 2))
	svc := NewService(repo, nil, ServiceConfig{})

	edited := phone(0, "iPhone 14 Plus", 4)
	updated, err := svc.Update(context.Background(), 1, edited)
	require.NoError(t, err)
	require.Equal(t, int64(1), updated.ID)
	require.Equal(t, "iPhone 14 Plus", repo.products[1].Name)
	require.Equal(t, int64(2), repo.products[1].Version)
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, ServiceConfig{})
	defaults := DefaultProducts()

	n, err := svc.Seed(context.Background(), defaults)
	require.NoError(t, err)
	require.Equal(t, len(defaults), n)

	n, err = svc.Seed(context.Background(), defaults)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Len(t, repo.products, len(defaults))
}
