package invoices

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mobileshop/billing/internal/catalog"
	"github.com/mobileshop/billing/internal/settings"
	"github.com/mobileshop/billing/internal/shared"
)

// Draft is the invoice being edited. It is owned by a single caller and is
// not safe for concurrent use.
type Draft struct {
	number   string
	customer Customer
	items    []LineItem
	discount decimal.Decimal
	isGST    bool
	taxRate  decimal.Decimal
}

// NewDraft starts an empty GST invoice using the configured tax rate.
func NewDraft(number string, cfg settings.Settings) *Draft {
	return &Draft{
		number:   number,
		discount: decimal.Zero,
		isGST:    true,
		taxRate:  cfg.TaxRate,
	}
}

// Number returns the invoice number the draft will be saved under.
func (d *Draft) Number() string { return d.number }

// SetNumber changes the invoice number, e.g. after the previous one was saved.
func (d *Draft) SetNumber(number string) { d.number = number }

// SetCustomer replaces the customer details, trimming surrounding space.
func (d *Draft) SetCustomer(c Customer) {
	d.customer = Customer{
		Name:    strings.TrimSpace(c.Name),
		Phone:   strings.TrimSpace(c.Phone),
		Email:   strings.TrimSpace(c.Email),
		Address: strings.TrimSpace(c.Address),
		GSTIN:   strings.ToUpper(strings.TrimSpace(c.GSTIN)),
	}
}

// AddProduct adds one unit of a catalog product, merging with an existing
// line for the same product.
func (d *Draft) AddProduct(p catalog.Product) {
	ref := catalog.ProductRef(p.ID)
	for i := range d.items {
		if d.items[i].Ref == ref {
			d.items[i].Quantity++
			return
		}
	}
	d.items = append(d.items, LineItem{Ref: ref, Name: p.Name, Price: p.Price, Quantity: 1, Note: p.Note})
}

// AddManualItem adds an item that is not in the catalog. Manual items never
// touch stock.
func (d *Draft) AddManualItem(name string, price decimal.Decimal, quantity int, note string) (catalog.ItemRef, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return catalog.ItemRef{}, fmt.Errorf("%w: item name required", shared.ErrValidation)
	}
	if !price.IsPositive() {
		return catalog.ItemRef{}, fmt.Errorf("%w: item price must be positive", shared.ErrValidation)
	}
	if quantity < 1 {
		return catalog.ItemRef{}, fmt.Errorf("%w: item quantity must be at least 1", shared.ErrValidation)
	}
	ref := catalog.NewManualRef()
	d.items = append(d.items, LineItem{Ref: ref, Name: name, Price: price, Quantity: quantity, Note: strings.TrimSpace(note)})
	return ref, nil
}

// SetQuantity changes the quantity of line i.
func (d *Draft) SetQuantity(i, quantity int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", shared.ErrValidation)
	}
	d.items[i].Quantity = quantity
	return nil
}

// SetNote changes the note of line i.
func (d *Draft) SetNote(i int, note string) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.items[i].Note = note
	return nil
}

// RemoveItem deletes line i; later lines move up.
func (d *Draft) RemoveItem(i int) error {
	if err := d.checkIndex(i); err != nil {
		return err
	}
	d.items = append(d.items[:i], d.items[i+1:]...)
	return nil
}

// SetDiscount sets the discount percentage, between 0 and 100.
func (d *Draft) SetDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return fmt.Errorf("%w: discount must be between 0 and 100", shared.ErrValidation)
	}
	d.discount = percent
	return nil
}

// SetGST toggles whether prices are treated as GST-inclusive.
func (d *Draft) SetGST(isGST bool) { d.isGST = isGST }

// Items returns a copy of the current lines.
func (d *Draft) Items() []LineItem {
	return append([]LineItem(nil), d.items...)
}

// Totals computes the totals of the current lines.
func (d *Draft) Totals() Totals {
	return ComputeTotals(d.items, d.discount, d.isGST, d.taxRate)
}

// Snapshot freezes the draft into an Invoice dated now.
func (d *Draft) Snapshot(now time.Time) Invoice {
	inv := Invoice{
		Number:          d.number,
		Date:            now,
		Customer:        d.customer,
		Items:           d.Items(),
		DiscountPercent: d.discount,
		IsGSTInvoice:    d.isGST,
		TaxRate:         d.taxRate,
	}
	inv.Totals = ComputeTotals(inv.Items, inv.DiscountPercent, inv.IsGSTInvoice, inv.TaxRate)
	return inv
}

func (d *Draft) checkIndex(i int) error {
	if i < 0 || i >= len(d.items) {
		return fmt.Errorf("%w: no line %d on invoice %s", shared.ErrValidation, i, d.number)
	}
	return nil
}
