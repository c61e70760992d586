package invoices

import (
	"context"
	"sort"
	"sync"

	"github.com/mobileshop/billing/internal/catalog"
	"github.com/mobileshop/billing/internal/ledger"
	"github.com/mobileshop/billing/internal/schema"
	"github.com/mobileshop/billing/internal/shared"
)

type memoryRepo struct {
	mu       sync.Mutex
	invoices map[string]Invoice
	puts     int
	// missingPuts makes the next n Put calls report a missing collection.
	missingPuts int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{invoices: make(map[string]Invoice)}
}

func (r *memoryRepo) Put(_ context.Context, inv Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.puts++
	if r.missingPuts > 0 {
		r.missingPuts--
		return shared.ErrSchemaMissing
	}
	r.invoices[inv.Number] = inv
	return nil
}

func (r *memoryRepo) Get(_ context.Context, number string) (Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[number]
	if !ok {
		return Invoice{}, shared.ErrNotFound
	}
	return inv, nil
}

func (r *memoryRepo) List(context.Context) ([]Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number > out[j].Number })
	return out, nil
}

func (r *memoryRepo) Delete(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[number]; !ok {
		return shared.ErrNotFound
	}
	delete(r.invoices, number)
	return nil
}

type ledgerRepo struct {
	mu           sync.Mutex
	records      []ledger.Record
	failProducts map[string]bool
}

func (r *ledgerRepo) Append(_ context.Context, rec ledger.Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failProducts[rec.ProductName] {
		return 0, shared.ErrTransactionAborted
	}
	rec.ID = int64(len(r.records) + 1)
	r.records = append(r.records, rec)
	return rec.ID, nil
}

func (r *ledgerRepo) ListByInvoice(_ context.Context, number string) ([]ledger.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ledger.Record
	for _, rec := range r.records {
		if rec.InvoiceNumber == number {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *ledgerRepo) List(context.Context, ledger.Filter) ([]ledger.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ledger.Record(nil), r.records...), nil
}

func (r *ledgerRepo) Gaps(context.Context) ([]ledger.Gap, error) { return nil, nil }

type productRepo struct {
	mu       sync.Mutex
	products map[int64]catalog.Product
	calls    int
}

func newProductRepo(products ...catalog.Product) *productRepo {
	r := &productRepo{products: make(map[int64]catalog.Product)}
	for _, p := range products {
		p.Version = 1
		r.products[p.ID] = p
	}
	return r
}

func (r *productRepo) List(context.Context) ([]catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *productRepo) Get(_ context.Context, id int64) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	p, ok := r.products[id]
	if !ok {
		return catalog.Product{}, shared.ErrNotFound
	}
	return p, nil
}

func (r *productRepo) Create(_ context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	p.Version = 1
	r.products[p.ID] = p
	return p, nil
}

func (r *productRepo) Update(_ context.Context, p catalog.Product) (catalog.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	current, ok := r.products[p.ID]
	if !ok {
		return catalog.Product{}, shared.ErrNotFound
	}
	if current.Version != p.Version {
		return catalog.Product{}, shared.ErrConcurrentUpdate
	}
	p.Version++
	r.products[p.ID] = p
	return p, nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	delete(r.products, id)
	return nil
}

func (r *productRepo) Count(context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.products), nil
}

type fakeSchema struct {
	opens int
	err   error
}

func (s *fakeSchema) Open(context.Context) (*schema.Database, error) {
	s.opens++
	if s.err != nil {
		return nil, s.err
	}
	return &schema.Database{Version: schema.Version}, nil
}

type fakeIntegrity struct {
	enqueued []string
}

func (f *fakeIntegrity) EnqueueLedgerIntegrity(_ context.Context, number string) error {
	f.enqueued = append(f.enqueued, number)
	return nil
}
