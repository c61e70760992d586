// Package invoices builds, saves and prints customer invoices.
package invoices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/billing/internal/catalog"
	"github.com/mobileshop/billing/internal/ledger"
)

// Customer is copied onto the invoice by value.
type Customer struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"required,max=20"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty" validate:"max=500"`
	GSTIN   string `json:"gstin,omitempty" validate:"omitempty,len=15,alphanum"`
}

// LineItem is one row of an invoice. Price is GST-inclusive.
type LineItem struct {
	Ref      catalog.ItemRef `json:"id"`
	Name     string          `json:"name" validate:"required,max=200"`
	Price    decimal.Decimal `json:"price" validate:"gt=0"`
	Quantity int             `json:"quantity" validate:"gte=1"`
	Note     string          `json:"note,omitempty" validate:"max=500"`
}

// Total is price times quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals are the computed money fields of an invoice, rounded to paise.
type Totals struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	SubtotalExclTax decimal.Decimal `json:"subtotalWithoutGst"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	GrandTotal      decimal.Decimal `json:"grandTotal"`
}

// Invoice is an immutable snapshot handed from the draft to persistence.
type Invoice struct {
	Number          string          `json:"invoiceNumber" validate:"required,max=40"`
	Date            time.Time       `json:"date"`
	Customer        Customer        `json:"customer"`
	Items           []LineItem      `json:"items" validate:"required,min=1,dive"`
	DiscountPercent decimal.Decimal `json:"discount" validate:"gte=0,lte=100"`
	IsGSTInvoice    bool            `json:"isGstInvoice"`
	TaxRate         decimal.Decimal `json:"tax" validate:"gte=0,lte=1"`
	Totals
	SavedAt time.Time `json:"savedAt"`
}

// Recalculated returns a copy with Totals derived from the items.
func (inv Invoice) Recalculated() Invoice {
	inv.Items = append([]LineItem(nil), inv.Items...)
	inv.Totals = ComputeTotals(inv.Items, inv.DiscountPercent, inv.IsGSTInvoice, inv.TaxRate)
	return inv
}

// ledgerInvoice is the view recorded in the GST ledger.
func (inv Invoice) ledgerInvoice() ledger.Invoice {
	lines := make([]ledger.Line, 0, len(inv.Items))
	for _, item := range inv.Items {
		lines = append(lines, ledger.Line{Name: item.Name, Price: item.Price, Quantity: item.Quantity})
	}
	name := inv.Customer.Name
	if name == "" {
		name = "Unknown Customer"
	}
	return ledger.Invoice{
		Number:        inv.Number,
		Date:          inv.Date,
		CustomerName:  name,
		CustomerGSTIN: inv.Customer.GSTIN,
		IsGST:         inv.IsGSTInvoice,
		Lines:         lines,
	}
}
