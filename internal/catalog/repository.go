package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mobileshop/billing/internal/platform/db"
	"github.com/mobileshop/billing/internal/shared"
)

// Repository persists products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	// Update overwrites the product when its stored version still equals
	// product.Version, returning shared.ErrConcurrentUpdate otherwise.
	Update(ctx context.Context, product Product) (Product, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db db.DBTX
}

// NewRepository constructs the PostgreSQL product repository.
func NewRepository(conn db.DBTX) Repository {
	return &repository{db: conn}
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT id, version, doc FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", db.Classify(err))
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list: %w", db.Classify(err))
	}
	return products, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT id, version, doc FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: get %d: %w", id, err)
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, product Product) (Product, error) {
	doc, err := json.Marshal(product)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: encode product: %w", err)
	}
	if product.ID > 0 {
		// Pre-seeded ids keep their value; the sequence is moved past them.
		const query = `INSERT INTO products (id, name, price, note, doc, version) VALUES ($1, $2, $3, $4, $5, 1)`
		if _, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Price, product.Note, doc); err != nil {
			return Product{}, fmt.Errorf("catalog: create %d: %w", product.ID, db.Classify(err))
		}
		const bump = `SELECT setval(pg_get_serial_sequence('products', 'id'), GREATEST((SELECT MAX(id) FROM products), 1))`
		if _, err := r.db.Exec(ctx, bump); err != nil {
			return Product{}, fmt.Errorf("catalog: advance id sequence: %w", db.Classify(err))
		}
		product.Version = 1
		return product, nil
	}
	const query = `INSERT INTO products (name, price, note, doc, version) VALUES ($1, $2, $3, $4, 1) RETURNING id`
	if err := r.db.QueryRow(ctx, query, product.Name, product.Price, product.Note, doc).Scan(&product.ID); err != nil {
		return Product{}, fmt.Errorf("catalog: create: %w", db.Classify(err))
	}
	product.Version = 1
	return product, nil
}

func (r *repository) Update(ctx context.Context, product Product) (Product, error) {
	doc, err := json.Marshal(product)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: encode product: %w", err)
	}
	const query = `UPDATE products SET name = $2, price = $3, note = $4, doc = $5, version = version + 1
		WHERE id = $1 AND version = $6`
	tag, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Price, product.Note, doc, product.Version)
	if err != nil {
		return Product{}, fmt.Errorf("catalog: update %d: %w", product.ID, db.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, product.ID); err != nil {
			return Product{}, err
		}
		return Product{}, fmt.Errorf("catalog: update %d at version %d: %w", product.ID, product.Version, shared.ErrConcurrentUpdate)
	}
	product.Version++
	return product, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete %d: %w", id, db.Classify(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("catalog: delete %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("catalog: count: %w", db.Classify(err))
	}
	return n, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p   Product
		id  int64
		ver int64
		doc []byte
	)
	if err := row.Scan(&id, &ver, &doc); err != nil {
		return Product{}, db.Classify(err)
	}
	if err := json.Unmarshal(doc, &p); err != nil {
		return Product{}, fmt.Errorf("catalog: decode product %d: %w", id, err)
	}
	p.ID = id
	p.Version = ver
	return p, nil
}
