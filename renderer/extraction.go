package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/etnz/fundiff"
)

// ExtractionMarkdown renders the holdings extracted from one workbook, grouped by section.
func ExtractionMarkdown(file string, x fundiff.Extraction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cell(file))
	fmt.Fprintf(&b, "Sheet %s, status %s.", x.Sheet, x.Status)
	if x.Err != nil {
		fmt.Fprintf(&b, " %v", x.Err)
	}
	fmt.Fprintln(&b)
	fmt.Fprintln(&b)

	if x.Columns.Name != "" {
		fmt.Fprintf(&b, "Columns: name %s, percent %s, quantity %s, market value %s.",
			x.Columns.Name, x.Columns.Percent, x.Columns.Quantity, x.Columns.MarketValue)
		if len(x.Columns.Defaulted) > 0 {
			fmt.Fprintf(&b, " Defaulted: %s.", strings.Join(x.Columns.Defaulted, ", "))
		}
		fmt.Fprintln(&b)
		fmt.Fprintln(&b)
	}

	for _, key := range x.Sections.Keys() {
		s := x.Sections[key]
		ConditionalBlock(&b, func(w io.Writer) bool {
			fmt.Fprintf(w, "## %s\n\n", key.DisplayName())
			tableHeader(w, []string{"Name", "Percent", "Quantity", "Market Value (Lakhs)"}, "lrrr")
			for _, r := range s.Records {
				fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
					cell(r.Name),
					percent(r.Percent),
					humanize.Comma(r.Quantity),
					humanize.CommafWithDigits(r.MarketValue, 2),
				)
			}
			fmt.Fprintln(w)
			return len(s.Records) > 0
		})
	}
	return b.String()
}

// FundsMarkdown renders the fund table.
func FundsMarkdown(funds fundiff.Funds) string {
	var b strings.Builder
	tableHeader(&b, []string{"Code", "Fund", "Sheets"}, "lll")
	for _, f := range funds {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(f.Code), cell(f.Name), cell(strings.Join(f.Sheets, ", ")))
	}
	return b.String()
}
