package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/mobileshop/billing/internal/jobs"
	"github.com/mobileshop/billing/internal/ledger"
)

// GapSource lists GST invoices whose ledger is out of step.
type GapSource interface {
	Gaps(ctx context.Context) ([]ledger.Gap, error)
}

// LedgerIntegrityJob reports GST invoices whose ledger record count differs
// from their item count. It never writes to the ledger.
type LedgerIntegrityJob struct {
	Source  GapSource
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewLedgerIntegrityJob initialises the integrity handler.
func NewLedgerIntegrityJob(source GapSource, logger *slog.Logger, metrics *jobmetrics.Metrics) *LedgerIntegrityJob {
	return &LedgerIntegrityJob{
		Source:  source,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle runs one scan.
func (j *LedgerIntegrityJob) Handle(ctx context.Context, t *asynq.Task) error {
	_, err := j.run(ctx, t)
	return err
}

func (j *LedgerIntegrityJob) run(ctx context.Context, t *asynq.Task) ([]ledger.Gap, error) {
	if j == nil || j.Source == nil {
		return nil, errors.New("ledger integrity: handler not configured")
	}
	var payload LedgerIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return nil, asynq.SkipRetry
	}

	tracker := j.Metrics.Track(TaskLedgerIntegrity)
	logger := j.logger().With(
		slog.String("request_id", payload.RequestID),
		slog.String("invoice", payload.InvoiceNumber),
	)
	start := j.clock()

	gaps, err := j.Source.Gaps(ctx)
	if err != nil {
		logger.Error("ledger integrity scan failed", slog.Any("error", err))
		return nil, tracker.End(err)
	}
	if payload.InvoiceNumber == "" {
		j.Metrics.SetLedgerGaps(len(gaps))
	} else {
		gaps = filterGaps(gaps, payload.InvoiceNumber)
	}
	for _, g := range gaps {
		logger.Warn("ledger gap",
			slog.String("gap_invoice", g.InvoiceNumber),
			slog.Int("expected", g.Expected),
			slog.Int("actual", g.Actual))
	}
	logger.Info("ledger integrity scan finished",
		slog.Int("gaps", len(gaps)),
		slog.Duration("duration", j.clock().Sub(start)))
	return gaps, tracker.End(nil)
}

func filterGaps(gaps []ledger.Gap, number string) []ledger.Gap {
	out := gaps[:0:0]
	for _, g := range gaps {
		if g.InvoiceNumber == number {
			out = append(out, g)
		}
	}
	return out
}

func (j *LedgerIntegrityJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
