// Package settings holds the process-wide shop configuration persisted in
// Redis.
package settings

import (
	"github.com/shopspring/decimal"
)

// Redis keys.
const (
	SettingsKey = "appSettings"
	PathsKey    = "invoicePaths"
)

// InvoicePaths are the directories invoices are exported to.
type InvoicePaths struct {
	GST    string `json:"gst" validate:"required"`
	NonGST string `json:"nonGst" validate:"required"`
}

// BankDetails are printed on every invoice.
type BankDetails struct {
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	Branch        string `json:"branch"`
	IFSCCode      string `json:"ifscCode"`
}

// Settings is the shop configuration.
type Settings struct {
	ShopName       string          `json:"shopName" validate:"required,max=120"`
	CurrencySymbol string          `json:"currencySymbol" validate:"required,max=8"`
	TaxRate        decimal.Decimal `json:"taxRate" validate:"gte=0,lte=1"`
	GSTNumber      string          `json:"gstNumber" validate:"max=15"`
	AppVersion     string          `json:"appVersion"`
	InvoicePaths   InvoicePaths    `json:"invoicePaths"`
	BankDetails    BankDetails     `json:"bankDetails"`
}

// Defaults returns the settings used before anything is saved.
func Defaults() Settings {
	return Settings{
		ShopName:       "Invoice Generator",
		CurrencySymbol: "₹",
		TaxRate:        decimal.RequireFromString("0.18"),
		GSTNumber:      "XXXXXXXXXX",
		AppVersion:     "1.0.0",
		InvoicePaths: InvoicePaths{
			GST:    `C:\Invoices\GST`,
			NonGST: `C:\Invoices\NonGST`,
		},
		BankDetails: BankDetails{
			Name:          "XXXX",
			AccountNumber: "XXXXXXX",
			Branch:        "XXXX",
			IFSCCode:      "XXXXXX",
		},
	}
}

// PathFor selects the export directory for an invoice.
func (s Settings) PathFor(isGST bool) string {
	if isGST {
		return s.InvoicePaths.GST
	}
	return s.InvoicePaths.NonGST
}
