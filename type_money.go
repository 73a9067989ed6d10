package fundiff

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Rupees is an amount of Indian rupees, like the unit price of a holding.
type Rupees float64

// String formats the amount with the rupee sign and thousands separators, "₹10,666.67".
func (r Rupees) String() string {
	// to get a never nil currency I need to call the Money constructor
	cur := *money.New(0, money.INR).Currency()
	minor := decimal.NewFromFloat(float64(r)).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}
