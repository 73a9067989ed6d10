package fundiff

import (
	"strings"
)

// Terminator is the anchor text of the row that ends the holdings of a worksheet.
const Terminator = "GRAND TOTAL"

// noiseTokens mark rows that are not holdings: totals, return tables, listing qualifiers,
// sub-headers. A name containing any of them, ignoring case, is skipped.
var noiseTokens = []string{
	"Total",
	"Sub Total",
	"Last 3 year",
	"Last 1 year",
	"Last 5 year",
	"Since Inception",
	"Clearing Corporation of India Ltd",
	"TOTAL",
	"Equity & Equity related",
	"Listed / awaiting listing",
	"awaiting listing",
	"(MD ",
	"Tbill",
	"Days",
	"#",
	"(a)",
	"(b)",
	"(c)",
	"(d)",
	"(e)",
	"(a) Listed",
	"(b) Listed",
	"Listed",
	"Unlisted",
	"Foreign",
}

// RowKind is the role of a worksheet row.
type RowKind int

const (
	RowNoise RowKind = iota
	RowData
	RowSectionHeader
	RowTerminator
)

func (k RowKind) String() string {
	switch k {
	case RowData:
		return "data"
	case RowSectionHeader:
		return "section header"
	case RowTerminator:
		return "terminator"
	default:
		return "noise"
	}
}

// ReasonShortName is the rejection reason of rows without a usable name, blank rows included.
const ReasonShortName = "name too short"

// Classification is the outcome of Classify for one row.
type Classification struct {
	Kind    RowKind
	Section SectionKey    // set for RowSectionHeader
	Record  HoldingRecord // set for RowData
	Reason  string        // why a row is RowNoise
}

// ClassifyAnchor tells whether the anchor text is the terminator or a known section header.
// The terminator wins over any header.
func ClassifyAnchor(anchor string) (RowKind, SectionKey) {
	anchor = strings.TrimSpace(anchor)
	if strings.EqualFold(anchor, Terminator) {
		return RowTerminator, ""
	}
	if key, ok := LookupSection(anchor); ok {
		return RowSectionHeader, key
	}
	return RowNoise, ""
}

// noiseToken returns the first noise token contained in name, ignoring case.
func noiseToken(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, token := range noiseTokens {
		if strings.Contains(lower, strings.ToLower(token)) {
			return token, true
		}
	}
	return "", false
}

// Classify decides the role of a row using the anchor column and the detected columns.
//
// A data row needs a name longer than 2 characters that contains no noise token, and a
// positive percent. Quantity and market value default to zero when unreadable.
func Classify(row Row, cols Columns) Classification {
	if kind, key := ClassifyAnchor(row.Cell(AnchorColumn)); kind != RowNoise {
		return Classification{Kind: kind, Section: key}
	}

	name := strings.TrimSpace(row.Cell(cols.Name))
	if len(name) <= 2 {
		return Classification{Kind: RowNoise, Reason: ReasonShortName}
	}
	if token, ok := noiseToken(name); ok {
		return Classification{Kind: RowNoise, Reason: "contains " + token}
	}

	raw := row.Cell(cols.Percent)
	percent, ok := ParsePercent(raw)
	if !ok {
		return Classification{Kind: RowNoise, Reason: "percent is not a number: " + raw}
	}
	if percent <= 0 {
		return Classification{Kind: RowNoise, Reason: "percent is not positive: " + raw}
	}

	return Classification{
		Kind: RowData,
		Record: HoldingRecord{
			Name:        name,
			Percent:     percent,
			Quantity:    ParseQuantity(row.Cell(cols.Quantity)),
			MarketValue: ParseMarketValue(row.Cell(cols.MarketValue)),
		},
	}
}
