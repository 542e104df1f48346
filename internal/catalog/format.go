package catalog

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price with thousands separators, e.g. "$1,299".
func FormatPrice(price float64) string {
	return pricePrinter.Sprintf("$%.0f", price)
}

// Discount returns the rounded percentage saved off the original price, or
// 0 when the original price is missing or not above the sale price.
func Discount(original, sale float64) int {
	if original <= 0 || sale >= original {
		return 0
	}
	return int(math.Round((original - sale) / original * 100))
}

// BatteryBand buckets a battery health percentage for display.
func BatteryBand(health int) string {
	switch {
	case health >= 90:
		return "good"
	case health >= 80:
		return "fair"
	default:
		return "poor"
	}
}
