package ledger

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryRepo struct {
	mu      sync.Mutex
	records []Record
	nextID  int64
	// failProducts makes Append fail for records with these product names.
	failProducts map[string]error
	appends      int
	gaps         []Gap
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{failProducts: make(map[string]error)}
}

func (r *memoryRepo) Append(_ context.Context, rec Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appends++
	if err, ok := r.failProducts[rec.ProductName]; ok {
		return 0, err
	}
	r.nextID++
	rec.ID = r.nextID
	r.records = append(r.records, rec)
	return rec.ID, nil
}

func (r *memoryRepo) ListByInvoice(_ context.Context, number string) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, rec := range r.records {
		if rec.InvoiceNumber == number {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memoryRepo) List(_ context.Context, f Filter) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, rec := range r.records {
		if !f.From.IsZero() && rec.Date.Before(f.From.Truncate(24*time.Hour)) {
			continue
		}
		if !f.To.IsZero() && !rec.Date.Before(f.To.Truncate(24*time.Hour).AddDate(0, 0, 1)) {
			continue
		}
		if f.Customer != "" && !strings.Contains(strings.ToLower(rec.CustomerName), strings.ToLower(f.Customer)) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *memoryRepo) Gaps(context.Context) ([]Gap, error) {
	return r.gaps, nil
}
