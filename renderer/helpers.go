package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/etnz/fundiff"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// price formats a unit price, "N/A" without units held.
func price(v float64) string {
	if v <= 0 {
		return "N/A"
	}
	return fundiff.Rupees(v).String()
}

// shares formats a change of units with thousands separators and a '+' sign for purchases.
func shares(q int64) string {
	if q > 0 {
		return "+" + humanize.Comma(q)
	}
	return humanize.Comma(q)
}

func percent(f float64) string { return fundiff.Percent(f).String() }

// tableHeader writes a markdown table header. Alignment is ':---' for left and '---:' for right.
func tableHeader(w io.Writer, columns []string, align string) {
	fmt.Fprintf(w, "| %s |\n", strings.Join(columns, " | "))
	fmt.Fprint(w, "|")
	for _, a := range align {
		if a == 'r' {
			fmt.Fprint(w, "---:|")
		} else {
			fmt.Fprint(w, ":---|")
		}
	}
	fmt.Fprintln(w)
}
