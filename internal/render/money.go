package render

import (
	"math"
	"strconv"
	"strings"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "$",
	"AUD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// FormatMoney renders an amount in the store's display currency, e.g.
// "$1,234.50". Rounding to cents happens here and nowhere earlier, so
// accumulated subtotals carry no compounded rounding error.
func FormatMoney(amount float64, currency string) string {
	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	prefix := symbol
	if !ok {
		prefix = strings.ToUpper(currency) + " "
	}

	neg := amount < 0
	cents := int64(math.Round(math.Abs(amount) * 100))
	whole := cents / 100
	frac := cents % 100

	var b strings.Builder
	if neg && cents != 0 {
		b.WriteByte('-')
	}
	b.WriteString(prefix)
	b.WriteString(groupThousands(strconv.FormatInt(whole, 10)))
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// groupThousands inserts comma separators from the left ("1234567" ->
// "1,234,567").
func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/3)
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
