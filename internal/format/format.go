// Package format renders ratings and money amounts for display.
package format

import (
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

// NotAvailable is rendered for missing or non-numeric values.
const NotAvailable = "N/A"

// Rating renders a 0-10 score with one decimal, e.g. "8.5/10".
func Rating(v float64) string {
	if math.IsNaN(v) {
		return NotAvailable
	}
	return toFixed(v, 1) + "/10"
}

// Int renders v with thousands separators, keeping up to three decimals.
func Int(v float64) string {
	switch {
	case math.IsNaN(v):
		return NotAvailable
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	}
	return humanize.Commaf(math.Round(v*1000) / 1000)
}

// Currency renders a dollar amount, abbreviating thousands, millions and
// billions. Zero is treated as unknown. Thresholds are checked before
// rounding, so 999999 renders as "$1000K" rather than "$1.0M".
func Currency(v float64) string {
	switch {
	case math.IsNaN(v) || v == 0:
		return NotAvailable
	case v >= 1e9:
		return "$" + toFixed(v/1e9, 1) + "B"
	case v >= 1e6:
		return "$" + toFixed(v/1e6, 1) + "M"
	case v >= 1e3:
		return "$" + toFixed(v/1e3, 0) + "K"
	}
	return "$" + Int(v)
}

// toFixed rounds the exact binary value of v to digits decimals, halves
// away from zero.
func toFixed(v float64, digits int) string {
	if math.IsInf(v, 0) {
		return Int(v)
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	scaled := new(big.Float).SetPrec(256).SetFloat64(v)
	scaled.Mul(scaled, new(big.Float).SetPrec(256).SetFloat64(math.Pow10(digits)))
	scaled.Add(scaled, big.NewFloat(0.5))
	n, _ := scaled.Int(nil)

	s := n.String()
	if digits == 0 {
		return sign + s
	}
	if len(s) <= digits {
		s = strings.Repeat("0", digits-len(s)+1) + s
	}
	return sign + s[:len(s)-digits] + "." + s[len(s)-digits:]
}
