package invoices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mobileshop/billing/internal/catalog"
	"github.com/mobileshop/billing/internal/ledger"
	"github.com/mobileshop/billing/internal/observability"
	"github.com/mobileshop/billing/internal/schema"
	"github.com/mobileshop/billing/internal/settings"
	"github.com/mobileshop/billing/internal/shared"
)

// SchemaOpener re-creates missing collections.
type SchemaOpener interface {
	Open(ctx context.Context) (*schema.Database, error)
}

// LedgerRecorder appends GST ledger records for a saved invoice.
type LedgerRecorder interface {
	RecordInvoice(ctx context.Context, inv ledger.Invoice) (ledger.BatchResult, error)
}

// StockUpdater lowers catalog stock.
type StockUpdater interface {
	UpdateQuantity(ctx context.Context, ref catalog.ItemRef, delta int) error
}

// NumberIssuer hands out invoice numbers.
type NumberIssuer interface {
	Next(ctx context.Context) (string, error)
	Reset(ctx context.Context) (string, error)
}

// RefreshSignaler tells other views that GST data changed.
type RefreshSignaler interface {
	Signal(ctx context.Context) (time.Time, error)
}

// SettingsSource returns the current shop settings.
type SettingsSource interface {
	Current() settings.Settings
}

// IntegrityEnqueuer schedules a ledger integrity scan.
type IntegrityEnqueuer interface {
	EnqueueLedgerIntegrity(ctx context.Context, invoiceNumber string) error
}

// ServiceDeps groups the collaborators of Service. Integrity and Metrics are
// optional.
type ServiceDeps struct {
	Schema    SchemaOpener
	Ledger    LedgerRecorder
	Stock     StockUpdater
	Numbers   NumberIssuer
	Refresh   RefreshSignaler
	Settings  SettingsSource
	Integrity IntegrityEnqueuer
	Metrics   *observability.Metrics
	Now       func() time.Time
}

// StockFailure is a line whose stock could not be lowered.
type StockFailure struct {
	Ref     catalog.ItemRef `json:"id"`
	Product string          `json:"product"`
	Reason  string          `json:"reason"`
}

// SaveResult reports everything a save did. The invoice is stored whenever
// Save returns a nil error; ledger and stock problems after that point are
// listed here and are not undone.
type SaveResult struct {
	Invoice       Invoice            `json:"invoice"`
	Ledger        ledger.BatchResult `json:"ledger"`
	Refreshed     bool               `json:"refreshed"`
	StockFailures []StockFailure     `json:"stockFailures,omitempty"`
	NextNumber    string             `json:"nextNumber,omitempty"`
}

// PrintView is the fully resolved invoice handed to the printing layer.
type PrintView struct {
	Invoice       Invoice              `json:"invoice"`
	AmountInWords string               `json:"amountInWords"`
	ShopName      string               `json:"shopName"`
	ShopGSTIN     string               `json:"shopGstin"`
	Currency      string               `json:"currencySymbol"`
	Bank          settings.BankDetails `json:"bankDetails"`
	SavePath      string               `json:"savePath"`
}

// Service saves and reads invoices.
type Service struct {
	repo     Repository
	deps     ServiceDeps
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds Service.
func NewService(repo Repository, deps ServiceDeps, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Service{repo: repo, deps: deps, logger: logger, validate: shared.NewValidator()}
}

// Save persists inv, records its GST ledger lines, signals observers, lowers
// stock for catalog lines and issues the next invoice number. Only a failure
// to store the invoice itself is returned as an error.
func (s *Service) Save(ctx context.Context, inv Invoice) (SaveResult, error) {
	if inv.TaxRate.IsZero() {
		inv.TaxRate = s.currentSettings().TaxRate
	}
	inv = inv.Recalculated()
	if inv.Date.IsZero() {
		inv.Date = s.deps.Now()
	}
	inv.SavedAt = s.deps.Now()
	if err := s.Validate(inv); err != nil {
		return SaveResult{}, err
	}

	if err := s.put(ctx, inv); err != nil {
		return SaveResult{}, err
	}
	result := SaveResult{Invoice: inv}
	s.deps.Metrics.InvoiceSaved(inv.IsGSTInvoice)
	s.logger.Info("invoice saved",
		slog.String("invoice", inv.Number),
		slog.Bool("gst", inv.IsGSTInvoice),
		slog.Int("items", len(inv.Items)),
		slog.String("grand_total", inv.GrandTotal.StringFixed(2)))

	if inv.IsGSTInvoice && s.deps.Ledger != nil {
		batch, err := s.deps.Ledger.RecordInvoice(ctx, inv.ledgerInvoice())
		result.Ledger = batch
		if err != nil {
			s.logger.Error("ledger batch incomplete",
				slog.String("op", "invoices.save.ledger"),
				slog.String("invoice", inv.Number),
				slog.Int("written", len(batch.Written)),
				slog.Int("failed", len(batch.Failed)),
				slog.Any("error", err))
			s.enqueueIntegrity(ctx, inv.Number)
		}
		if len(batch.Written) > 0 && s.deps.Refresh != nil {
			if _, err := s.deps.Refresh.Signal(ctx); err != nil {
				s.logger.Warn("refresh signal failed", slog.String("invoice", inv.Number), slog.Any("error", err))
			} else {
				result.Refreshed = true
			}
		}
	}

	result.StockFailures = s.lowerStock(ctx, inv)

	if s.deps.Numbers != nil {
		next, err := s.deps.Numbers.Next(ctx)
		if err != nil {
			s.logger.Error("next invoice number failed", slog.String("after", inv.Number), slog.Any("error", err))
		} else {
			result.NextNumber = next
		}
	}
	return result, nil
}

func (s *Service) put(ctx context.Context, inv Invoice) error {
	err := s.repo.Put(ctx, inv)
	if err == nil || !errors.Is(err, shared.ErrSchemaMissing) || s.deps.Schema == nil {
		if err != nil {
			s.logger.Error("invoice put failed", slog.String("op", "invoices.put"), slog.String("invoice", inv.Number), slog.Any("error", err))
		}
		return err
	}
	s.logger.Warn("invoice collection missing, reopening schema", slog.String("invoice", inv.Number))
	if _, openErr := s.deps.Schema.Open(ctx); openErr != nil {
		s.logger.Error("schema reopen failed", slog.String("invoice", inv.Number), slog.Any("error", openErr))
		return fmt.Errorf("invoices: save %s: %w", inv.Number, openErr)
	}
	if err := s.repo.Put(ctx, inv); err != nil {
		s.logger.Error("invoice put failed after schema reopen", slog.String("op", "invoices.put"), slog.String("invoice", inv.Number), slog.Any("error", err))
		return err
	}
	return nil
}

func (s *Service) lowerStock(ctx context.Context, inv Invoice) []StockFailure {
	if s.deps.Stock == nil {
		return nil
	}
	var failures []StockFailure
	for _, item := range inv.Items {
		if item.Ref.IsManual() {
			continue
		}
		err := s.deps.Stock.UpdateQuantity(ctx, item.Ref, item.Quantity)
		switch {
		case err == nil:
			s.deps.Metrics.StockUpdate(observability.ResultOK)
			continue
		case errors.Is(err, shared.ErrConcurrentUpdate):
			s.deps.Metrics.StockUpdate(observability.ResultConflict)
		default:
			s.deps.Metrics.StockUpdate(observability.ResultFailed)
		}
		s.logger.Warn("stock update failed",
			slog.String("invoice", inv.Number),
			slog.String("product", item.Ref.String()),
			slog.Any("error", err))
		failures = append(failures, StockFailure{Ref: item.Ref, Product: item.Name, Reason: err.Error()})
	}
	return failures
}

func (s *Service) enqueueIntegrity(ctx context.Context, number string) {
	if s.deps.Integrity == nil {
		return
	}
	if err := s.deps.Integrity.EnqueueLedgerIntegrity(ctx, number); err != nil {
		s.logger.Warn("ledger integrity enqueue failed", slog.String("invoice", number), slog.Any("error", err))
	}
}

// Validate checks an invoice snapshot.
func (s *Service) Validate(inv Invoice) error {
	if err := s.validate.Struct(inv); err != nil {
		return shared.ValidationError(err)
	}
	for i, item := range inv.Items {
		if item.Ref.IsZero() {
			return fmt.Errorf("%w: items[%d] has no id", shared.ErrValidation, i)
		}
	}
	return nil
}

func (s *Service) currentSettings() settings.Settings {
	if s.deps.Settings == nil {
		return settings.Defaults()
	}
	return s.deps.Settings.Current()
}

// Get loads an invoice by number.
func (s *Service) Get(ctx context.Context, number string) (Invoice, error) {
	if number == "" {
		return Invoice{}, fmt.Errorf("%w: invoice number required", shared.ErrValidation)
	}
	return s.repo.Get(ctx, number)
}

// List returns saved invoices, newest first.
func (s *Service) List(ctx context.Context) ([]Invoice, error) {
	return s.repo.List(ctx)
}

// Delete removes an invoice. Its GST ledger records stay in place.
func (s *Service) Delete(ctx context.Context, number string) error {
	if number == "" {
		return fmt.Errorf("%w: invoice number required", shared.ErrValidation)
	}
	if err := s.repo.Delete(ctx, number); err != nil {
		return err
	}
	s.logger.Info("invoice deleted", slog.String("invoice", number))
	return nil
}

// PrintView resolves a saved invoice for printing.
func (s *Service) PrintView(ctx context.Context, number string) (PrintView, error) {
	inv, err := s.Get(ctx, number)
	if err != nil {
		return PrintView{}, err
	}
	cfg := s.currentSettings()
	return PrintView{
		Invoice:       inv,
		AmountInWords: AmountInWords(inv.GrandTotal),
		ShopName:      cfg.ShopName,
		ShopGSTIN:     cfg.GSTNumber,
		Currency:      cfg.CurrencySymbol,
		Bank:          cfg.BankDetails,
		SavePath:      cfg.PathFor(inv.IsGSTInvoice),
	}, nil
}

// NextNumber issues a fresh invoice number.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	if s.deps.Numbers == nil {
		return "", fmt.Errorf("invoices: %w", shared.ErrEnvironmentUnsupported)
	}
	return s.deps.Numbers.Next(ctx)
}

// ResetNumber starts a new draft number; numbers are never reused.
func (s *Service) ResetNumber(ctx context.Context) (string, error) {
	if s.deps.Numbers == nil {
		return "", fmt.Errorf("invoices: %w", shared.ErrEnvironmentUnsupported)
	}
	return s.deps.Numbers.Reset(ctx)
}

// NewDraft starts a draft under a freshly issued number.
func (s *Service) NewDraft(ctx context.Context) (*Draft, error) {
	number, err := s.NextNumber(ctx)
	if err != nil {
		return nil, err
	}
	cfg := s.currentSettings()
	return NewDraft(number, cfg), nil
}
