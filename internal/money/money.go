// Package money formats computed amounts for display. Rounding happens here
// and only here; stored and computed values keep full float precision.
package money

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// Cents rounds v to two decimals.
func Cents(v float64) float64 {
	return Round(v, 2)
}

// Format renders v as dollars with cents, for example "$370,350.49".
func Format(v float64) string {
	return sign(v) + "$" + humanize.FormatFloat("#,###.##", abs(Cents(v)))
}

// FormatWhole renders v as whole dollars, for example "$370,350".
func FormatWhole(v float64) string {
	return sign(v) + "$" + humanize.FormatFloat("#,###.", abs(Round(v, 0)))
}

// Percent renders p with one decimal and a percent sign.
func Percent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

func sign(v float64) string {
	if Cents(v) < 0 {
		return "-"
	}
	return ""
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
