package invoices

import "github.com/shopspring/decimal"

const paise = 2

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives invoice totals. Prices already include tax, so for a
// GST invoice the tax is extracted from the subtotal rather than added to it.
// The discount applies to the tax-inclusive subtotal.
func ComputeTotals(items []LineItem, discountPercent decimal.Decimal, isGST bool, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total())
	}
	subtotal = subtotal.Round(paise)

	discount := subtotal.Mul(discountPercent).Div(hundred).Round(paise)

	exclTax := subtotal
	tax := decimal.Zero
	if isGST {
		exclTax = subtotal.Div(decimal.NewFromInt(1).Add(taxRate)).Round(paise)
		tax = subtotal.Sub(exclTax)
	}
	return Totals{
		Subtotal:        subtotal,
		SubtotalExclTax: exclTax,
		TaxAmount:       tax,
		DiscountAmount:  discount,
		GrandTotal:      subtotal.Sub(discount),
	}
}
