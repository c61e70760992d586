// Package ledger keeps the append-only GST record of every line sold on a GST
// invoice.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/billing/internal/shared"
)

// RatePercent is the GST rate applied to every ledger record, independent of
// the nominal rate configured for invoices.
const RatePercent = 18

// Record is one immutable ledger line.
type Record struct {
	ID            int64           `json:"id"`
	Date          time.Time       `json:"date"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerGSTIN string          `json:"customerGSTIN,omitempty"`
	ProductName   string          `json:"productName"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxRate       int             `json:"taxRate"`
	CGST          decimal.Decimal `json:"cgst"`
	SGST          decimal.Decimal `json:"sgst"`
	Total         decimal.Decimal `json:"total"`
}

// Line is the part of an invoice line the ledger needs.
type Line struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// Invoice is the ledger's view of a saved invoice.
type Invoice struct {
	Number        string
	Date          time.Time
	CustomerName  string
	CustomerGSTIN string
	IsGST         bool
	Lines         []Line
}

// RecordFailure describes one append that did not persist.
type RecordFailure struct {
	Line        int    `json:"line"`
	ProductName string `json:"productName"`
	Err         error  `json:"-"`
	Reason      string `json:"reason"`
}

// BatchResult reports the outcome of recording one invoice. Written holds the
// ids of persisted records in line order; records are never rolled back.
type BatchResult struct {
	Written []int64         `json:"written"`
	Failed  []RecordFailure `json:"failed,omitempty"`
}

// Partial reports whether some but not necessarily all appends failed.
func (b BatchResult) Partial() bool {
	return len(b.Failed) > 0
}

// Filter narrows ledger queries. Zero values mean unbounded.
type Filter struct {
	From     time.Time
	To       time.Time
	Customer string
}

// ParseFilter builds a Filter from YYYY-MM-DD bounds and a customer fragment.
// Empty inputs leave the matching bound open.
func ParseFilter(from, to, customer string) (Filter, error) {
	var filter Filter
	if from = strings.TrimSpace(from); from != "" {
		parsed, err := time.Parse(dateLayout, from)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: from must be YYYY-MM-DD", shared.ErrValidation)
		}
		filter.From = parsed
	}
	if to = strings.TrimSpace(to); to != "" {
		parsed, err := time.Parse(dateLayout, to)
		if err != nil {
			return Filter{}, fmt.Errorf("%w: to must be YYYY-MM-DD", shared.ErrValidation)
		}
		filter.To = parsed
	}
	filter.Customer = strings.TrimSpace(customer)
	return filter, nil
}

// Summary aggregates ledger records.
type Summary struct {
	Records  int             `json:"records"`
	Invoices int             `json:"invoices"`
	Taxable  decimal.Decimal `json:"taxable"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	Total    decimal.Decimal `json:"total"`
}

// Gap is a GST invoice whose ledger record count differs from its item count.
type Gap struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Expected      int    `json:"expected"`
	Actual        int    `json:"actual"`
}
