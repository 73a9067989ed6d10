package renderer

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/etnz/fundiff"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// tables parses markdown and returns every table as rows of cell texts, header included.
func tables(t *testing.T, md string) [][][]string {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var result [][][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *extast.Table:
			result = append(result, nil)
		case *extast.TableHeader, *extast.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, cellText(c, source))
			}
			result[len(result)-1] = append(result[len(result)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return result
}

func cellText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			b.Write(t.Segment.Value(source))
		}
	}
	return strings.TrimSpace(b.String())
}

var entries = []fundiff.DiffEntry{
	{
		Name: "Foo", HasTraded: true, PercentDiff: 0.02, DisplayPercentDiff: 0.02,
		OldPercent: 0.05, NewPercent: 0.07, QuantityDiff: 1500, OldPrice: 10000, NewPrice: 10666.6667,
	},
	{
		Name: "Bar", HasTraded: true, PercentDiff: -0.03, DisplayPercentDiff: -0.03,
		OldPercent: 0.03, QuantityDiff: -10, OldPrice: 50000,
	},
	{
		Name: "Drift", PercentDiff: 0.001, OldPercent: 0.01, NewPercent: 0.011, OldPrice: 5, NewPrice: 5.5,
	},
}

func TestDiffMarkdown(t *testing.T) {
	got := tables(t, DiffMarkdown(entries))
	want := [][][]string{{
		{"Company Name", "Change (%)", "Old %", "New %", "Change (Shares)", "Old Price", "New Price"},
		{"Foo", "+2.00%", "5.00%", "7.00%", "+1,500", "₹10,000.00", "₹10,666.67"},
		{"Bar", "-3.00%", "3.00%", "0.00%", "-10", "₹50,000.00", "N/A"},
		{"Drift", "0.00%", "1.00%", "1.10%", "0", "₹5.00", "₹5.50"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiffMarkdown() tables = %q, want %q", got, want)
	}

	if got := DiffMarkdown(nil); !strings.Contains(got, NoChangesMessage) {
		t.Errorf("DiffMarkdown(nil) = %q, want %q", got, NoChangesMessage)
	}
}

func TestSectionsMarkdown(t *testing.T) {
	md := SectionsMarkdown(map[fundiff.SectionKey][]fundiff.DiffEntry{
		fundiff.TreasuryBill:           entries[2:],
		fundiff.EquityAndEquityRelated: entries[:2],
		fundiff.Arbitrage:              nil,
	})

	equity := strings.Index(md, "### Equity & Equity Related")
	bills := strings.Index(md, "### Treasury Bills")
	if equity < 0 || bills < 0 || bills < equity {
		t.Errorf("SectionsMarkdown() = %q, want equity then treasury bills sections", md)
	}
	if strings.Contains(md, "Arbitrage") {
		t.Errorf("SectionsMarkdown() = %q, want the empty arbitrage section skipped", md)
	}
	if got := tables(t, md); len(got) != 2 || len(got[0]) != 3 || len(got[1]) != 2 {
		t.Errorf("SectionsMarkdown() tables = %q, want 2 tables of 2 and 1 rows", got)
	}
}

func TestComparisonMarkdown(t *testing.T) {
	c := Comparison{
		Fund:      fundiff.DefaultFunds[3],
		Old:       "2025-08-31",
		New:       "2025-09-30",
		Flat:      entries,
		BySection: map[fundiff.SectionKey][]fundiff.DiffEntry{fundiff.EquityAndEquityRelated: entries},
	}

	md := ComparisonMarkdown(c, true)
	if !strings.HasPrefix(md, "# Parag Parikh ELSS Tax Saver Fund: 2025-08-31 to 2025-09-30") {
		t.Errorf("ComparisonMarkdown() title = %q", strings.SplitN(md, "\n", 2)[0])
	}
	if got := len(tables(t, md)); got != 2 {
		t.Errorf("ComparisonMarkdown() has %d tables, want 2", got)
	}
	if got := len(tables(t, ComparisonMarkdown(c, false))); got != 1 {
		t.Errorf("ComparisonMarkdown() without sections has %d tables, want 1", got)
	}

	c.Flat, c.BySection = nil, nil
	if md := ComparisonMarkdown(c, true); !strings.Contains(md, NoChangesMessage) {
		t.Errorf("ComparisonMarkdown() = %q, want %q", md, NoChangesMessage)
	}
}

func TestExtractionMarkdown(t *testing.T) {
	x := fundiff.Extraction{
		Sections: fundiff.ParseRows([]fundiff.Row{
			fundiff.NewRow(1, map[string]string{"B": "Equity & Equity related"}),
			fundiff.NewRow(2, map[string]string{"B": "HDFC Bank Limited", "E": "1234567", "F": "81234.5", "G": "0.0799"}),
		}, fundiff.DefaultColumns),
		Sheet:   "PPFCF",
		Columns: fundiff.DefaultColumns,
		Status:  fundiff.Extracted,
	}
	got := tables(t, ExtractionMarkdown("report.xlsx", x))
	want := [][][]string{{
		{"Name", "Percent", "Quantity", "Market Value (Lakhs)"},
		{"HDFC Bank Limited", "7.99%", "1,234,567", "81,234.5"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractionMarkdown() tables = %q, want %q", got, want)
	}

	failed := fundiff.Extraction{Sections: fundiff.SectionMap{}, Sheet: "PPFLP", Status: fundiff.Unreadable, Err: errors.New("sheet PPFLP does not exist")}
	md := ExtractionMarkdown("report.xlsx", failed)
	if !strings.Contains(md, "unreadable") || !strings.Contains(md, "does not exist") {
		t.Errorf("ExtractionMarkdown() = %q, want the status and error", md)
	}
}

func TestFundsMarkdown(t *testing.T) {
	got := tables(t, FundsMarkdown(fundiff.DefaultFunds))
	if len(got) != 1 || len(got[0]) != 5 {
		t.Fatalf("FundsMarkdown() tables = %q, want 1 table of 4 funds", got)
	}
	if want := []string{"tax", "Parag Parikh ELSS Tax Saver Fund", "PPTSF, PPETSF"}; !reflect.DeepEqual(got[0][4], want) {
		t.Errorf("FundsMarkdown() tax row = %q, want %q", got[0][4], want)
	}
}
