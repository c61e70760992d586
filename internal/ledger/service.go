package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/billing/internal/observability"
	"github.com/mobileshop/billing/internal/shared"
)

// Service records and reports GST ledger entries.
type Service struct {
	repo    Repository
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewService builds Service. metrics may be nil.
func NewService(repo Repository, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, metrics: metrics}
}

// RecordInvoice appends one record per line of a GST invoice. Non-GST and
// empty invoices record nothing. Each append stands alone: a failed append is
// logged and reported in the result while the remaining lines are still
// recorded, and nothing already written is undone. A non-empty Failed list
// is also returned as an error wrapping shared.ErrTransactionAborted.
func (s *Service) RecordInvoice(ctx context.Context, inv Invoice) (BatchResult, error) {
	var result BatchResult
	if !inv.IsGST || len(inv.Lines) == 0 {
		return result, nil
	}
	for i, line := range inv.Lines {
		id, err := s.append(ctx, inv, line)
		if err != nil {
			s.logger.Error("ledger append failed",
				slog.String("op", "ledger.append"),
				slog.String("invoice", inv.Number),
				slog.String("product", line.Name),
				slog.Any("error", err))
			result.Failed = append(result.Failed, RecordFailure{Line: i, ProductName: line.Name, Err: err, Reason: err.Error()})
			continue
		}
		result.Written = append(result.Written, id)
	}
	s.metrics.LedgerRecords(observability.ResultOK, len(result.Written))
	s.metrics.LedgerRecords(observability.ResultFailed, len(result.Failed))
	if result.Partial() {
		errs := make([]error, 0, len(result.Failed))
		for _, f := range result.Failed {
			errs = append(errs, f.Err)
		}
		return result, fmt.Errorf("ledger: %d of %d records for %s failed: %w: %w",
			len(result.Failed), len(inv.Lines), inv.Number, shared.ErrTransactionAborted, errors.Join(errs...))
	}
	return result, nil
}

func (s *Service) append(ctx context.Context, inv Invoice, line Line) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.repo.Append(ctx, NewRecord(inv, line))
}

// ListByInvoice returns the records written for one invoice.
func (s *Service) ListByInvoice(ctx context.Context, number string) ([]Record, error) {
	if number == "" {
		return nil, fmt.Errorf("%w: invoice number required", shared.ErrValidation)
	}
	return s.repo.ListByInvoice(ctx, number)
}

// List returns records matching filter ordered by date.
func (s *Service) List(ctx context.Context, filter Filter) ([]Record, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("%w: date range ends before it starts", shared.ErrValidation)
	}
	return s.repo.List(ctx, filter)
}

// Summary totals the records matching filter.
func (s *Service) Summary(ctx context.Context, filter Filter) (Summary, error) {
	records, err := s.List(ctx, filter)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

// Gaps lists GST invoices whose record count does not match their item count.
func (s *Service) Gaps(ctx context.Context) ([]Gap, error) {
	return s.repo.Gaps(ctx)
}

// Summarize totals records.
func Summarize(records []Record) Summary {
	sum := Summary{Taxable: decimal.Zero, CGST: decimal.Zero, SGST: decimal.Zero, Total: decimal.Zero}
	invoices := make(map[string]struct{})
	for _, r := range records {
		sum.Records++
		invoices[r.InvoiceNumber] = struct{}{}
		sum.Taxable = sum.Taxable.Add(r.Subtotal)
		sum.CGST = sum.CGST.Add(r.CGST)
		sum.SGST = sum.SGST.Add(r.SGST)
		sum.Total = sum.Total.Add(r.Total)
	}
	sum.Invoices = len(invoices)
	return sum
}
