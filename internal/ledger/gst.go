package ledger

import "github.com/shopspring/decimal"

var (
	rateFactor = decimal.NewFromInt(100 + RatePercent).Div(decimal.NewFromInt(100))
	two        = decimal.NewFromInt(2)
)

// Split holds the tax-inclusive decomposition of a line total.
type Split struct {
	Taxable decimal.Decimal
	CGST    decimal.Decimal
	SGST    decimal.Decimal
}

// Decompose splits a GST-inclusive line total into its taxable value and two
// equal halves of tax. Values keep full precision.
func Decompose(lineTotal decimal.Decimal) Split {
	taxable := lineTotal.Div(rateFactor)
	half := lineTotal.Sub(taxable).Div(two)
	return Split{Taxable: taxable, CGST: half, SGST: half}
}

// NewRecord builds the ledger record for one invoice line.
func NewRecord(inv Invoice, line Line) Record {
	total := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
	split := Decompose(total)
	return Record{
		Date:          inv.Date,
		InvoiceNumber: inv.Number,
		CustomerName:  inv.CustomerName,
		CustomerGSTIN: inv.CustomerGSTIN,
		ProductName:   line.Name,
		Price:         line.Price,
		Quantity:      line.Quantity,
		Subtotal:      split.Taxable,
		TaxRate:       RatePercent,
		CGST:          split.CGST,
		SGST:          split.SGST,
		Total:         total,
	}
}
