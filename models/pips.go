package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	pipJPY      = decimal.NewFromFloat(0.01)
	pipStandard = decimal.NewFromFloat(0.0001)
)

// PipUnit returns the price size of one pip: 0.01 for yen crosses, 0.0001 otherwise.
func PipUnit(pair string) float64 {
	u, _ := pipUnit(pair).Float64()
	return u
}

func pipUnit(pair string) decimal.Decimal {
	if strings.Contains(strings.ToUpper(pair), "JPY") {
		return pipJPY
	}
	return pipStandard
}

// PipChange is the unsigned move from start to end expressed in pips.
// Prices go through decimal so 1.1000 -> 1.1025 is exactly 25.
func PipChange(start, end float64, pair string) float64 {
	diff := decimal.NewFromFloat(end).Sub(decimal.NewFromFloat(start)).Abs()
	pips, _ := diff.Div(pipUnit(pair)).Float64()
	return pips
}
