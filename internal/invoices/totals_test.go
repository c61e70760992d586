package invoices

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mobileshop/billing/internal/catalog"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(id int64, price string, qty int) LineItem {
	return LineItem{Ref: catalog.ProductRef(id), Name: "item", Price: dec(price), Quantity: qty}
}

func requireAmount(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

func TestTotalsGSTWithDiscount(t *testing.T) {
	totals := ComputeTotals([]LineItem{item(1, "999", 1), item(2, "249", 2)}, dec("10"), true, dec("0.18"))

	requireAmount(t, "1497", totals.Subtotal)
	requireAmount(t, "1268.64", totals.SubtotalExclTax)
	requireAmount(t, "228.36", totals.TaxAmount)
	requireAmount(t, "149.70", totals.DiscountAmount)
	requireAmount(t, "1347.30", totals.GrandTotal)
}

func TestTotalsNonGST(t *testing.T) {
	totals := ComputeTotals([]LineItem{item(1, "100", 3)}, decimal.Zero, false, dec("0.18"))

	requireAmount(t, "300", totals.Subtotal)
	requireAmount(t, "300", totals.SubtotalExclTax)
	require.True(t, totals.TaxAmount.IsZero())
	require.True(t, totals.DiscountAmount.IsZero())
	requireAmount(t, "300", totals.GrandTotal)
}

func TestTotalsInvariants(t *testing.T) {
	cases := []struct {
		items    []LineItem
		discount string
		gst      bool
	}{
		{[]LineItem{item(1, "79999", 1)}, "0", true},
		{[]LineItem{item(1, "12.34", 7), item(2, "0.99", 3)}, "12.5", true},
		{[]LineItem{item(1, "4599", 2)}, "100", false},
		{nil, "5", true},
	}
	for _, tc := range cases {
		totals := ComputeTotals(tc.items, dec(tc.discount), tc.gst, dec("0.18"))
		require.True(t, totals.GrandTotal.Equal(totals.Subtotal.Sub(totals.DiscountAmount)))
		require.True(t, totals.SubtotalExclTax.Add(totals.TaxAmount).Equal(totals.Subtotal))
		if !tc.gst {
			require.True(t, totals.TaxAmount.IsZero())
		}
	}
}
