package renderer

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/fundiff"
)

// Messages printed instead of a comparison.
const (
	NoChangesMessage      = "No significant changes found between the two periods."
	ExtractFailureMessage = "Unable to extract data from Excel files."
)

// Comparison is the outcome of comparing two disclosures of a fund.
type Comparison struct {
	Fund      fundiff.Fund
	Old, New  string // labels of both periods, like "2025-08-31"
	Flat      []fundiff.DiffEntry
	BySection map[fundiff.SectionKey][]fundiff.DiffEntry
}

var diffColumns = []string{"Company Name", "Change (%)", "Old %", "New %", "Change (Shares)", "Old Price", "New Price"}

// diffTable writes the ranked entries as a markdown table.
func diffTable(w io.Writer, entries []fundiff.DiffEntry) {
	tableHeader(w, diffColumns, "lrrrrrr")
	for _, e := range entries {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %s | %s |\n",
			cell(e.Name),
			fundiff.Percent(e.DisplayPercentDiff).SignedString(),
			percent(e.OldPercent),
			percent(e.NewPercent),
			shares(e.QuantityDiff),
			price(e.OldPrice),
			price(e.NewPrice),
		)
	}
}

// DiffMarkdown renders the ranked changes of the whole portfolio.
func DiffMarkdown(entries []fundiff.DiffEntry) string {
	if len(entries) == 0 {
		return NoChangesMessage + "\n"
	}
	var b strings.Builder
	diffTable(&b, entries)
	return b.String()
}

// SectionsMarkdown renders one table per section, sections in key order.
func SectionsMarkdown(bySection map[fundiff.SectionKey][]fundiff.DiffEntry) string {
	var b strings.Builder
	fmt.Fprintln(&b, "## Section-wise Breakdown")
	fmt.Fprintln(&b)

	for _, key := range slices.Sorted(maps.Keys(bySection)) {
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "### %s\n\n", key.DisplayName())
			diffTable(w, bySection[key])
			fmt.Fprintln(w)
			return len(bySection[key]) > 0
		})
	}
	return b.String()
}

// ComparisonMarkdown renders the full report: the portfolio table, then the section tables
// when withSections is set.
func ComparisonMarkdown(c Comparison, withSections bool) string {
	var b strings.Builder
	name := c.Fund.Name
	if name == "" {
		name = c.Fund.Code
	}
	fmt.Fprintf(&b, "# %s: %s to %s\n\n", name, c.Old, c.New)
	if len(c.Flat) == 0 {
		fmt.Fprintln(&b, NoChangesMessage)
		return b.String()
	}
	diffTable(&b, c.Flat)
	if withSections && len(c.BySection) > 0 {
		fmt.Fprintln(&b)
		b.WriteString(SectionsMarkdown(c.BySection))
	}
	return b.String()
}
