package fundiff

import (
	"regexp"
	"slices"
	"strings"
)

// Columns locates the cells of a holding row in a worksheet, as column letters.
type Columns struct {
	Name        string
	Percent     string
	Quantity    string
	MarketValue string

	// Defaulted lists the columns that could not be detected ("name", "percent", ...)
	// and were set to their default letter.
	Defaulted []string
}

// DefaultColumns is the layout of PPFAS disclosures, used for any column the detection misses.
var DefaultColumns = Columns{Name: "B", Percent: "G", Quantity: "E", MarketValue: "F"}

const (
	// AnchorColumn holds section headers and the terminator row.
	AnchorColumn = "B"
	// DefaultHeaderWindow is the number of leading rows scanned for column headers.
	DefaultHeaderWindow = 20
)

// candidateColumns are the columns inspected while detecting the layout.
var candidateColumns = columnRange("B", "L")

// looksLikeName matches text shaped like a company name.
var looksLikeName = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9\s&.\-(),]+$`)

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// DetectColumns finds the name, percent, quantity and market value columns by looking at the
// first window rows.
//
// Header cells are matched by keywords, the first match of each kind wins. When a row does not
// reveal the name or percent column, its cells are tried as data: the first text shaped like a
// company name gives the name column, the first number in (0, 1] the percent column.
// Columns still unknown after the window fall back to DefaultColumns. Detection never fails,
// a wrong guess only degrades the extracted data.
func DetectColumns(rows []Row, window int) Columns {
	var c Columns
	found := func() bool {
		return c.Name != "" && c.Percent != "" && c.Quantity != "" && c.MarketValue != ""
	}

	for _, row := range rows {
		if row.Index > window {
			break
		}

		for _, col := range candidateColumns {
			v := row.Cell(col)
			if v == "" || isNumeric(v) {
				continue
			}
			lv := strings.ToLower(v)
			if c.Name == "" && containsAny(lv, "company", "name", "security", "instrument") {
				c.Name = col
			}
			if c.Quantity == "" && strings.Contains(lv, "quantity") {
				c.Quantity = col
			}
			if c.MarketValue == "" && containsAny(lv, "market", "value") && containsAny(lv, "rs.", "lakhs") {
				c.MarketValue = col
			}
			if c.Percent == "" && containsAny(lv, "%", "percent", "weight", "assets") {
				c.Percent = col
			}
		}

		if c.Name == "" || c.Percent == "" {
			for _, col := range candidateColumns {
				v := row.Cell(col)
				if v == "" {
					continue
				}
				if d, ok := parseNumber(v); ok {
					if c.Percent == "" && d.IsPositive() && d.LessThanOrEqual(one) {
						c.Percent = col
					}
					continue
				}
				if t := strings.TrimSpace(v); c.Name == "" && len(t) > 3 && looksLikeName.MatchString(t) {
					c.Name = col
				}
			}
		}

		if found() {
			break
		}
	}

	if c.Name == "" {
		c.Name = DefaultColumns.Name
		c.Defaulted = append(c.Defaulted, "name")
	}
	if c.Percent == "" {
		c.Percent = DefaultColumns.Percent
		c.Defaulted = append(c.Defaulted, "percent")
	}
	if c.Quantity == "" {
		c.Quantity = DefaultColumns.Quantity
		c.Defaulted = append(c.Defaulted, "quantity")
	}
	if c.MarketValue == "" {
		c.MarketValue = DefaultColumns.MarketValue
		c.Defaulted = append(c.Defaulted, "market value")
	}
	return c
}

// letters returns the distinct columns to read for data rows, anchor included.
func (c Columns) letters() []string {
	var cols []string
	for _, col := range []string{AnchorColumn, c.Name, c.Percent, c.Quantity, c.MarketValue} {
		if !slices.Contains(cols, col) {
			cols = append(cols, col)
		}
	}
	return cols
}
