package compose

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatCurrency renders a dollar amount with thousands separators and at most
// two fraction digits. Non-finite values are printed as-is.
func FormatCurrency(v float64) string {
	switch {
	case math.IsNaN(v):
		return "$NaN"
	case math.IsInf(v, 1):
		return "$Infinity"
	case math.IsInf(v, -1):
		return "-$Infinity"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	p := message.NewPrinter(language.AmericanEnglish)
	return sign + "$" + p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
