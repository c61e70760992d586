package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"

	"github.com/mobileshop/billing/internal/shared"
)

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// StockRetries bounds re-reads after an optimistic stock write loses.
	StockRetries int
}

// Service coordinates catalog operations.
type Service struct {
	repo     Repository
	logger   *slog.Logger
	validate *validator.Validate
	retries  int
}

// NewService builds Service.
func NewService(repo Repository, logger *slog.Logger, cfg ServiceConfig) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	retries := cfg.StockRetries
	if retries <= 0 {
		retries = 3
	}
	return &Service{repo: repo, logger: logger, validate: shared.NewValidator(), retries: retries}
}

// List returns every product.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get loads a product by id.
func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id %d", shared.ErrValidation, id)
	}
	return s.repo.Get(ctx, id)
}

// Search matches products whose name contains query, ignoring case. A blank
// query returns the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return products, nil
	}
	fold := cases.Fold()
	needle := fold.String(query)
	matches := make([]Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(fold.String(p.Name), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Create validates and stores a new product.
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if err := shared.ValidationError(s.validate.Struct(product)); err != nil {
		return Product{}, err
	}
	return s.repo.Create(ctx, product)
}

// Update replaces the stored product with the given one.
func (s *Service) Update(ctx context.Context, id int64, product Product) (Product, error) {
	if err := shared.ValidationError(s.validate.Struct(product)); err != nil {
		return Product{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	product.ID = id
	product.Version = current.Version
	return s.repo.Update(ctx, product)
}

// Delete removes a product. Saved invoices keep their line snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id %d", shared.ErrValidation, id)
	}
	return s.repo.Delete(ctx, id)
}

// UpdateQuantity lowers the stock of the referenced product by delta, flooring
// at zero. Manual refs are a no-op and never reach the store.
func (s *Service) UpdateQuantity(ctx context.Context, ref ItemRef, delta int) error {
	if ref.IsManual() {
		return nil
	}
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		product, err := s.repo.Get(ctx, ref.ProductID)
		if err != nil {
			return fmt.Errorf("catalog: update quantity: %w", err)
		}
		product.Stock = max(0, product.Stock-delta)
		updated, err := s.repo.Update(ctx, product)
		if err == nil {
			s.logger.Debug("stock updated",
				slog.Int64("product_id", updated.ID),
				slog.String("product", updated.Name),
				slog.Int("stock", updated.Stock))
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrentUpdate) {
			return fmt.Errorf("catalog: update quantity: %w", err)
		}
		lastErr = err
		s.logger.Warn("stock update lost race, retrying",
			slog.Int64("product_id", ref.ProductID),
			slog.Int("attempt", attempt+1))
	}
	return fmt.Errorf("catalog: update quantity %d after %d retries: %w", ref.ProductID, s.retries, lastErr)
}

// Seed inserts products when the catalog is empty and reports how many were added.
func (s *Service) Seed(ctx context.Context, products []Product) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("catalog already populated, skipping seed", slog.Int("products", n))
		return 0, nil
	}
	for i, p := range products {
		if _, err := s.Create(ctx, p); err != nil {
			return i, fmt.Errorf("catalog: seed %q: %w", p.Name, err)
		}
	}
	return len(products), nil
}
