package fundiff

import "fmt"

// Percent is a fraction of the fund net assets, 0.0811 reads as 8.11%.
type Percent float64

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p)*100)
}

// SignedString is like String with a '+' sign for gains. A change rounding to zero reads "0.00%".
func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p)*100)
	switch res {
	case "+0.00%", "-0.00%":
		return "0.00%"
	}
	return res
}
