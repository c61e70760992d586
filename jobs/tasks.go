package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLedgerIntegrity compares GST invoices with their ledger records.
	TaskLedgerIntegrity = "ledger:integrity"
)

// LedgerIntegrityPayload scopes an integrity scan. An empty InvoiceNumber
// scans every GST invoice.
type LedgerIntegrityPayload struct {
	RequestID     string    `json:"request_id"`
	InvoiceNumber string    `json:"invoice_number,omitempty"`
	RequestedAt   time.Time `json:"requested_at"`
}

// NewLedgerIntegrityTask constructs an Asynq task for a ledger integrity scan.
func NewLedgerIntegrityTask(invoiceNumber string, at time.Time) (*asynq.Task, error) {
	payload := LedgerIntegrityPayload{
		RequestID:     uuid.NewString(),
		InvoiceNumber: invoiceNumber,
		RequestedAt:   at.UTC(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerIntegrity, body, asynq.Queue(QueueDefault)), nil
}
