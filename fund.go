package fundiff

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFund is returned for a fund code missing from the fund table.
var ErrUnknownFund = errors.New("unknown fund")

// Fund describes a scheme published in the monthly disclosure workbook.
type Fund struct {
	Code   string   `yaml:"code" json:"code"`
	Name   string   `yaml:"name" json:"name"`
	Sheets []string `yaml:"sheets" json:"sheets"` // candidate sheet names, tried in order
}

// Funds is the table of known funds.
type Funds []Fund

// DefaultFunds lists the PPFAS schemes. The tax saver sheet was renamed over time, so both
// names are candidates.
var DefaultFunds = Funds{
	{Code: "flexi", Name: "Parag Parikh Flexi Cap Fund", Sheets: []string{"PPFCF"}},
	{Code: "liquid", Name: "Parag Parikh Liquid Fund", Sheets: []string{"PPFLP"}},
	{Code: "hybrid", Name: "Parag Parikh Conservative Hybrid Fund", Sheets: []string{"PPCHF"}},
	{Code: "tax", Name: "Parag Parikh ELSS Tax Saver Fund", Sheets: []string{"PPTSF", "PPETSF"}},
}

// DefaultFund is the fund used when none is selected.
const DefaultFund = "tax"

// Lookup returns the fund with the given code.
func (fs Funds) Lookup(code string) (Fund, bool) {
	for _, f := range fs {
		if f.Code == code {
			return f, true
		}
	}
	return Fund{}, false
}

// Sheets returns the candidate sheet names of the fund code.
func (fs Funds) Sheets(code string) ([]string, error) {
	f, ok := fs.Lookup(code)
	if !ok {
		return nil, fmt.Errorf("%w %q, pick from %s", ErrUnknownFund, code, strings.Join(fs.Codes(), ","))
	}
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("fund %q has no sheet name", code)
	}
	return f.Sheets, nil
}

// Codes returns the fund codes in table order.
func (fs Funds) Codes() []string {
	codes := make([]string, 0, len(fs))
	for _, f := range fs {
		codes = append(codes, f.Code)
	}
	return codes
}
