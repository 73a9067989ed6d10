package fundiff

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// DiffEntry is the change of one company's holding between two reports.
type DiffEntry struct {
	Name      string `json:"name"`
	HasTraded bool   `json:"has_traded"`
	// PercentDiff is the change of weight, used for ranking.
	PercentDiff float64 `json:"percent_diff"`
	// DisplayPercentDiff is PercentDiff when shares were traded, 0 otherwise: a weight drifts
	// with prices even when the fund did not trade.
	DisplayPercentDiff float64 `json:"display_percent_diff"`
	OldPercent         float64 `json:"old_percent"`
	NewPercent         float64 `json:"new_percent"`
	QuantityDiff       int64   `json:"quantity_diff"`
	OldPrice           float64 `json:"old_price"` // per unit, 0 when no unit was held
	NewPrice           float64 `json:"new_price"`
}

// MinPercentDiff is the smallest weight change reported.
const MinPercentDiff = 1e-5

// lakh converts market values expressed in lakhs into rupees.
var lakh = decimal.NewFromInt(100000)

// position is the aggregated holding of one company.
type position struct {
	percent     decimal.Decimal
	quantity    int64
	marketValue decimal.Decimal
}

// price returns the unit price in rupees, 0 without units.
func (p position) price() decimal.Decimal {
	if p.quantity <= 0 {
		return decimal.Zero
	}
	return p.marketValue.Mul(lakh).Div(decimal.NewFromInt(p.quantity))
}

// aggregate sums the records by normalized name, a holding may be reported in several lots.
func aggregate(into map[string]position, records []HoldingRecord) map[string]position {
	for _, r := range records {
		name := NormalizeName(r.Name)
		p := into[name]
		p.percent = p.percent.Add(decimal.NewFromFloat(r.Percent))
		p.quantity += r.Quantity
		p.marketValue = p.marketValue.Add(decimal.NewFromFloat(r.MarketValue))
		into[name] = p
	}
	return into
}

// flatten aggregates all sections together.
func flatten(m SectionMap) map[string]position {
	positions := make(map[string]position)
	for _, key := range m.Keys() {
		aggregate(positions, m[key].Records)
	}
	return positions
}

func sectionPositions(m SectionMap, key SectionKey) map[string]position {
	positions := make(map[string]position)
	if s, ok := m[key]; ok {
		aggregate(positions, s.Records)
	}
	return positions
}

// compare computes the ranked changes between two aggregated reports.
func compare(old, new map[string]position) []DiffEntry {
	names := slices.Collect(maps.Keys(old))
	for name := range new {
		if _, ok := old[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	var entries []DiffEntry
	for _, name := range names {
		o, n := old[name], new[name]
		percentDiff := n.percent.Sub(o.percent)
		if percentDiff.Abs().InexactFloat64() <= MinPercentDiff {
			continue
		}
		e := DiffEntry{
			Name:         name,
			PercentDiff:  percentDiff.InexactFloat64(),
			OldPercent:   o.percent.InexactFloat64(),
			NewPercent:   n.percent.InexactFloat64(),
			QuantityDiff: n.quantity - o.quantity,
			OldPrice:     o.price().InexactFloat64(),
			NewPrice:     n.price().InexactFloat64(),
		}
		e.HasTraded = e.QuantityDiff != 0
		if e.HasTraded {
			e.DisplayPercentDiff = e.PercentDiff
		}
		entries = append(entries, e)
	}
	Rank(entries)
	return entries
}

// Rank sorts entries: traded companies first, then by decreasing absolute weight change.
// The sort is stable.
func Rank(entries []DiffEntry) {
	slices.SortStableFunc(entries, func(a, b DiffEntry) int {
		if a.HasTraded != b.HasTraded {
			if a.HasTraded {
				return -1
			}
			return 1
		}
		return cmp.Compare(abs(b.PercentDiff), abs(a.PercentDiff))
	})
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Diff compares two reports of the same fund.
//
// flat ranks the changes over the whole portfolio, sections merged. bySection ranks the changes
// within each section present in either report; sections without a significant change are
// left out.
func Diff(old, new SectionMap) (flat []DiffEntry, bySection map[SectionKey][]DiffEntry) {
	flat = compare(flatten(old), flatten(new))

	bySection = make(map[SectionKey][]DiffEntry)
	keys := old.Keys()
	for _, key := range new.Keys() {
		if _, ok := old[key]; !ok {
			keys = append(keys, key)
		}
	}
	for _, key := range keys {
		if entries := compare(sectionPositions(old, key), sectionPositions(new, key)); len(entries) > 0 {
			bySection[key] = entries
		}
	}
	return flat, bySection
}
