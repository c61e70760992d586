package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/mobileshop/billing/internal/platform/db"
)

// Repository appends and reads ledger records. Records are never updated or
// deleted.
type Repository interface {
	Append(ctx context.Context, rec Record) (int64, error)
	ListByInvoice(ctx context.Context, number string) ([]Record, error)
	List(ctx context.Context, filter Filter) ([]Record, error)
	Gaps(ctx context.Context) ([]Gap, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL ledger repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) Append(ctx context.Context, rec Record) (int64, error) {
	doc, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("ledger: encode record: %w", err)
	}
	const query = `INSERT INTO gst_records
		(date, invoice_number, customer_name, customer_gstin, product_name, subtotal, cgst, sgst, total, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	var id int64
	err = r.db.QueryRow(ctx, query,
		rec.Date, rec.InvoiceNumber, rec.CustomerName, rec.CustomerGSTIN, rec.ProductName,
		rec.Subtotal, rec.CGST, rec.SGST, rec.Total, doc,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ledger: append %s/%s: %w", rec.InvoiceNumber, rec.ProductName, db.Classify(err))
	}
	return id, nil
}

func (r *repository) ListByInvoice(ctx context.Context, number string) ([]Record, error) {
	rows, err := r.db.Query(ctx, `SELECT id, doc FROM gst_records WHERE invoice_number = $1 ORDER BY id`, number)
	if err != nil {
		return nil, fmt.Errorf("ledger: list %s: %w", number, db.Classify(err))
	}
	return collectRecords(rows)
}

func (r *repository) List(ctx context.Context, filter Filter) ([]Record, error) {
	var (
		where []string
		args  []any
	)
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}
	if c := strings.TrimSpace(filter.Customer); c != "" {
		args = append(args, "%"+c+"%")
		where = append(where, fmt.Sprintf("customer_name ILIKE $%d", len(args)))
	}
	query := `SELECT id, doc FROM gst_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ledger: list: %w", db.Classify(err))
	}
	return collectRecords(rows)
}

func (r *repository) Gaps(ctx context.Context) ([]Gap, error) {
	const query = `SELECT i.invoice_number, i.item_count, COUNT(g.id)
		FROM invoices i
		LEFT JOIN gst_records g ON g.invoice_number = i.invoice_number
		WHERE i.is_gst
		GROUP BY i.invoice_number, i.item_count
		HAVING COUNT(g.id) <> i.item_count
		ORDER BY i.invoice_number`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger: gaps: %w", db.Classify(err))
	}
	defer rows.Close()

	var gaps []Gap
	for rows.Next() {
		var g Gap
		if err := rows.Scan(&g.InvoiceNumber, &g.Expected, &g.Actual); err != nil {
			return nil, fmt.Errorf("ledger: scan gap: %w", db.Classify(err))
		}
		gaps = append(gaps, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: gaps: %w", db.Classify(err))
	}
	return gaps, nil
}

func collectRecords(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	var records []Record
	for rows.Next() {
		var (
			id  int64
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("ledger: scan record: %w", db.Classify(err))
		}
		var rec Record
		if err := json.Unmarshal(doc, &rec); err != nil {
			return nil, fmt.Errorf("ledger: decode record %d: %w", id, err)
		}
		rec.ID = id
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ledger: read records: %w", db.Classify(err))
	}
	return records, nil
}
