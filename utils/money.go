package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD formats an amount as a string like "$1,234.50".
// Uses comma as thousands separator and always two decimals.
func FormatUSD(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	if rounded.IsNegative() {
		return "-$" + usdPrinter.Sprintf("%.2f", rounded.Abs().InexactFloat64())
	}
	return "$" + usdPrinter.Sprintf("%.2f", rounded.InexactFloat64())
}

// RoundCents rounds half away from zero to two decimals
func RoundCents(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
