package fundiff

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// parseNumber parses a cell text as a decimal number, surrounding spaces allowed.
func parseNumber(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// isNumeric reports whether the cell holds a number rather than text.
func isNumeric(raw string) bool {
	_, ok := parseNumber(raw)
	return ok
}

// ParsePercent converts a raw percent cell into a fraction.
//
// "8.11%" and "8.11" both become 0.0811, because any value marked with '%' or greater than 1 is
// read as percentage points. Values up to 1 without a '%' are already fractions: "0.0811" stays
// 0.0811 and "1" stays 1. ok is false when the text is not a number.
func ParsePercent(raw string) (percent float64, ok bool) {
	d, ok := parsePercent(raw)
	if !ok {
		return 0, false
	}
	return d.InexactFloat64(), true
}

func parsePercent(raw string) (decimal.Decimal, bool) {
	d, ok := parseNumber(strings.ReplaceAll(raw, "%", ""))
	if !ok {
		return decimal.Zero, false
	}
	if strings.Contains(raw, "%") || d.GreaterThan(one) {
		d = d.Div(hundred)
	}
	return d, true
}

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

// ParseQuantity converts a raw quantity cell like "1,23,456" into a number of units.
// Text that is not a number, a negative number or one beyond int64 yields 0.
func ParseQuantity(raw string) int64 {
	d, ok := parseNumber(strings.ReplaceAll(raw, ",", ""))
	if !ok || d.IsNegative() || d.GreaterThan(maxQuantity) {
		return 0
	}
	return d.IntPart()
}

// ParseMarketValue converts a raw market value cell (in lakhs) like "12,345.67" into a number.
// Text that is not a number, or a negative number, yields 0.
func ParseMarketValue(raw string) float64 {
	d, ok := parseNumber(strings.ReplaceAll(raw, ",", ""))
	if !ok || d.IsNegative() {
		return 0
	}
	return d.InexactFloat64()
}

// legalSuffixes are checked in order, only the first one matching is removed.
var legalSuffixes = []string{
	" Limited",
	" Ltd",
	" Ltd.",
	" Pvt Ltd",
	" Private Limited",
}

// nameAliases replaces a whole name by its canonical form when it contains the alias.
var nameAliases = []struct {
	alias     string
	canonical string
}{
	{"Central Depository Services (India)", "Central Depository Services (India)"},
	{"GAIL (India)", "GAIL (India)"},
}

var spaces = regexp.MustCompile(`\s+`)

func collapseSpaces(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

// NormalizeName returns the key used to match the same company across reports.
//
// "Foo Ltd", "Foo Limited" and " Foo  Limited " are all "Foo".
// NormalizeName(NormalizeName(x)) == NormalizeName(x) for names carrying at most one legal suffix.
func NormalizeName(name string) string {
	n := collapseSpaces(name)

	for _, suffix := range legalSuffixes {
		if cut := len(n) - len(suffix); cut >= 0 && strings.EqualFold(n[cut:], suffix) {
			n = n[:cut]
			break
		}
	}
	n = collapseSpaces(n)

	lower := strings.ToLower(n)
	for _, a := range nameAliases {
		if strings.Contains(lower, strings.ToLower(a.alias)) {
			return a.canonical
		}
	}
	return n
}
