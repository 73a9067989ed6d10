package fundiff

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HoldingRecord is one security held by the fund as reported on one row of a disclosure.
//
// Percent is a fraction of the net assets in (0, 1], MarketValue is expressed in lakhs.
type HoldingRecord struct {
	Name        string  `json:"name"`
	Percent     float64 `json:"percent"`
	Quantity    int64   `json:"quantity"`
	MarketValue float64 `json:"market_value"`
}

// SectionKey is the normalized identifier of a report section.
type SectionKey string

// Known sections of a PPFAS portfolio disclosure.
const (
	EquityAndEquityRelated   SectionKey = "equity_and_equity_related"
	Arbitrage                SectionKey = "arbitrage"
	REITs                    SectionKey = "b_reits"
	EquityForeignInvestments SectionKey = "equity_foreign_investments"
	CertificateOfDeposit     SectionKey = "certificate_of_deposit"
	CommercialPaper          SectionKey = "commercial_paper"
	TreasuryBill             SectionKey = "treasury_bill"
	MutualFundUnits          SectionKey = "mutual_fund_units"
	ReverseRepoTREPS         SectionKey = "reverse_repo_treps"
)

// sectionHeaders maps the header text found in the anchor column to its key.
var sectionHeaders = []struct {
	header string
	key    SectionKey
}{
	{"Equity & Equity related", EquityAndEquityRelated},
	{"Arbitrage", Arbitrage},
	{"(b) Reits", REITs},
	{"Equity & Equity related Foreign Investments", EquityForeignInvestments},
	{"Certificate of Deposit", CertificateOfDeposit},
	{"Commercial Paper", CommercialPaper},
	{"Treasury Bill", TreasuryBill},
	{"Mutual Fund Units", MutualFundUnits},
	{"Reverse Repo / TREPS", ReverseRepoTREPS},
}

var sectionDisplayNames = map[SectionKey]string{
	EquityAndEquityRelated:   "Equity & Equity Related",
	Arbitrage:                "Arbitrage",
	REITs:                    "REITs",
	EquityForeignInvestments: "Foreign Equity Investments",
	CertificateOfDeposit:     "Certificate of Deposit",
	CommercialPaper:          "Commercial Paper",
	TreasuryBill:             "Treasury Bills",
	MutualFundUnits:          "Mutual Fund Units",
	ReverseRepoTREPS:         "Reverse Repo / TREPS",
}

// LookupSection returns the key of the section whose header equals text, ignoring case.
func LookupSection(text string) (SectionKey, bool) {
	for _, h := range sectionHeaders {
		if strings.EqualFold(text, h.header) {
			return h.key, true
		}
	}
	return "", false
}

// DisplayName returns a human readable name for the section.
// Unknown keys are title-cased with underscores replaced by spaces.
func (k SectionKey) DisplayName() string {
	if name, ok := sectionDisplayNames[k]; ok {
		return name
	}
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(string(k), "_", " "))
}

// Section is the ordered list of records found under one section header.
type Section struct {
	Key     SectionKey      `json:"key"`
	Records []HoldingRecord `json:"records"`
}

// SectionMap is the content of one report for one fund, indexed by section.
type SectionMap map[SectionKey]*Section

// set stores records as the content of the section key, replacing a previous block of the
// same section.
func (m SectionMap) set(key SectionKey, records ...HoldingRecord) {
	m[key] = &Section{Key: key, Records: records}
}

// Keys returns the section keys in lexical order.
func (m SectionMap) Keys() []SectionKey {
	keys := make([]SectionKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the total number of records across sections.
func (m SectionMap) Len() int {
	n := 0
	for _, s := range m {
		n += len(s.Records)
	}
	return n
}
