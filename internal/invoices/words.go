package invoices

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ones = []string{"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
		"Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen", "Seventeen", "Eighteen", "Nineteen"}
	tens = []string{"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety"}
)

// AmountInWords spells an amount using the Indian system of Crore, Lakh and
// Thousand, with paise after "And".
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Abs().Round(paise)
	whole := amount.IntPart()
	fraction := amount.Sub(decimal.NewFromInt(whole)).Mul(hundred).IntPart()

	var parts []string
	if whole == 0 {
		parts = append(parts, "Zero")
	} else {
		if crore := whole / 10000000; crore > 0 {
			// Amounts beyond 999 crore keep counting in crore.
			parts = append(parts, wordsBelowCrore(crore), "Crore")
		}
		if lakh := (whole % 10000000) / 100000; lakh > 0 {
			parts = append(parts, belowThousand(lakh), "Lakh")
		}
		if thousand := (whole % 100000) / 1000; thousand > 0 {
			parts = append(parts, belowThousand(thousand), "Thousand")
		}
		if rest := whole % 1000; rest > 0 {
			parts = append(parts, belowThousand(rest))
		}
	}
	if fraction > 0 {
		parts = append(parts, "And", belowThousand(fraction), "Paise")
	}
	return strings.Join(parts, " ")
}

func wordsBelowCrore(n int64) string {
	if n < 1000 {
		return belowThousand(n)
	}
	return AmountInWords(decimal.NewFromInt(n))
}

func belowThousand(n int64) string {
	switch {
	case n == 0:
		return ""
	case n < 20:
		return ones[n]
	case n < 100:
		if n%10 == 0 {
			return tens[n/10]
		}
		return tens[n/10] + " " + ones[n%10]
	default:
		if n%100 == 0 {
			return ones[n/100] + " Hundred"
		}
		return ones[n/100] + " Hundred " + belowThousand(n%100)
	}
}
