package invoices

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mobileshop/billing/internal/platform/db"
	"github.com/mobileshop/billing/internal/shared"
)

// Repository persists invoices keyed by invoice number. Missing tables
// surface as shared.ErrSchemaMissing.
type Repository interface {
	// Put inserts the invoice or overwrites the one with the same number.
	Put(ctx context.Context, inv Invoice) error
	Get(ctx context.Context, number string) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	Delete(ctx context.Context, number string) error
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL invoice repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) Put(ctx context.Context, inv Invoice) error {
	doc, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("invoices: encode %s: %w", inv.Number, err)
	}
	const query = `INSERT INTO invoices (invoice_number, date, customer_name, is_gst, item_count, doc, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (invoice_number) DO UPDATE SET
			date = EXCLUDED.date,
			customer_name = EXCLUDED.customer_name,
			is_gst = EXCLUDED.is_gst,
			item_count = EXCLUDED.item_count,
			doc = EXCLUDED.doc,
			saved_at = EXCLUDED.saved_at`
	_, err = r.db.Exec(ctx, query,
		inv.Number, inv.Date, inv.Customer.Name, inv.IsGSTInvoice, len(inv.Items), doc, inv.SavedAt)
	if err != nil {
		return fmt.Errorf("invoices: put %s: %w", inv.Number, db.Classify(err))
	}
	return nil
}

func (r *repository) Get(ctx context.Context, number string) (Invoice, error) {
	var doc []byte
	err := r.db.QueryRow(ctx, `SELECT doc FROM invoices WHERE invoice_number = $1`, number).Scan(&doc)
	if err != nil {
		return Invoice{}, fmt.Errorf("invoices: get %s: %w", number, db.Classify(err))
	}
	var inv Invoice
	if err := json.Unmarshal(doc, &inv); err != nil {
		return Invoice{}, fmt.Errorf("invoices: decode %s: %w", number, err)
	}
	return inv, nil
}

func (r *repository) List(ctx context.Context) ([]Invoice, error) {
	rows, err := r.db.Query(ctx, `SELECT doc FROM invoices ORDER BY saved_at DESC, invoice_number DESC`)
	if err != nil {
		return nil, fmt.Errorf("invoices: list: %w", db.Classify(err))
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("invoices: scan: %w", db.Classify(err))
		}
		var inv Invoice
		if err := json.Unmarshal(doc, &inv); err != nil {
			return nil, fmt.Errorf("invoices: decode: %w", err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("invoices: list: %w", db.Classify(err))
	}
	return out, nil
}

func (r *repository) Delete(ctx context.Context, number string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE invoice_number = $1`, number)
	if err != nil {
		return fmt.Errorf("invoices: delete %s: %w", number, db.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoices: delete %s: %w", number, shared.ErrNotFound)
	}
	return nil
}
