package fundiff

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

var nopLog = zerolog.Nop()

// memWorkbook is an in-memory Workbook.
type memWorkbook struct {
	sheets map[string][]Row
	closed *int
}

func (w memWorkbook) Rows(sheet string, filter ReadFilter) ([]Row, error) {
	rows, ok := w.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %s does not exist", sheet)
	}
	var out []Row
	for _, r := range rows {
		if filter.LastRow > 0 && r.Index > filter.LastRow {
			break
		}
		cells := make(map[string]string)
		for col, v := range r.cells {
			if filter.accept(col, r.Index) {
				cells[col] = v
			}
		}
		out = append(out, NewRow(r.Index, cells))
	}
	return out, nil
}

func (w memWorkbook) Close() error {
	*w.closed++
	return nil
}

// openMem returns an OpenFunc serving sheets and counting closes.
func openMem(sheets map[string][]Row, closed *int) OpenFunc {
	return func(path string) (Workbook, error) {
		return memWorkbook{sheets: sheets, closed: closed}, nil
	}
}

// holding returns a data row in the default layout.
func holding(index int, name, percent, quantity, value string) Row {
	return NewRow(index, map[string]string{"B": name, "E": quantity, "F": value, "G": percent})
}

func anchor(index int, text string) Row {
	return NewRow(index, map[string]string{"B": text})
}

func TestScanState_step(t *testing.T) {
	cols := DefaultColumns
	out := make(SectionMap)

	var s scanState
	s = s.step(holding(1, "Before Any Section", "0.1", "1", "1"), cols, out, nopLog)
	if s.phase != seeking || len(s.records) != 0 {
		t.Fatalf("data before a header: got %+v, want the initial state", s)
	}

	s = s.step(anchor(2, "Arbitrage"), cols, out, nopLog)
	if s.phase != inSection || s.key != Arbitrage {
		t.Fatalf("header: got %+v, want in section %s", s, Arbitrage)
	}

	s = s.step(holding(3, "Foo Ltd", "0.05", "10", "1"), cols, out, nopLog)
	if len(s.records) != 1 {
		t.Fatalf("data: got %d records, want 1", len(s.records))
	}

	s = s.step(anchor(4, "Treasury Bill"), cols, out, nopLog)
	if s.key != TreasuryBill || len(s.records) != 0 {
		t.Fatalf("second header: got %+v, want a fresh %s section", s, TreasuryBill)
	}
	if got := out[Arbitrage]; got == nil || len(got.Records) != 1 {
		t.Fatalf("second header: got %v, want the arbitrage section flushed", got)
	}

	s = s.step(anchor(5, "GRAND TOTAL"), cols, out, nopLog)
	if s.phase != done {
		t.Fatalf("terminator: got phase %v, want done", s.phase)
	}
	if _, ok := out[TreasuryBill]; ok {
		t.Errorf("terminator: empty section %s was flushed", TreasuryBill)
	}

	s = s.step(anchor(6, "Equity & Equity related"), cols, out, nopLog)
	if s.phase != done {
		t.Errorf("after terminator: got phase %v, want done", s.phase)
	}
}

func TestParseRows(t *testing.T) {
	tests := []struct {
		name string
		rows []Row
		want SectionMap
	}{
		{
			name: "sections until terminator",
			rows: []Row{
				anchor(5, "Equity & Equity related"),
				anchor(6, "(a) Listed / awaiting listing on Stock Exchanges"),
				holding(7, "HDFC Bank Limited", "0.0799", "1,000", "150.5"),
				holding(8, "ITC Limited", "0.05", "2,000", "80"),
				holding(9, "Sub Total", "0.1299", "", "230.5"),
				anchor(10, "Treasury Bill"),
				holding(11, "364 Days Tbill (MD 18/09/2025)", "0.01", "100", "10"),
				anchor(12, "Reverse Repo / TREPS"),
				holding(13, "Clearing Corporation of India Ltd", "0.02", "", "20"),
				holding(14, "TREPS 01-Oct-2025", "0.03", "", "30"),
				anchor(15, "GRAND TOTAL"),
				anchor(16, "Arbitrage"),
				holding(17, "Never Read", "0.5", "1", "1"),
			},
			want: SectionMap{
				EquityAndEquityRelated: {Key: EquityAndEquityRelated, Records: []HoldingRecord{
					{Name: "HDFC Bank Limited", Percent: 0.0799, Quantity: 1000, MarketValue: 150.5},
					{Name: "ITC Limited", Percent: 0.05, Quantity: 2000, MarketValue: 80},
				}},
				ReverseRepoTREPS: {Key: ReverseRepoTREPS, Records: []HoldingRecord{
					{Name: "TREPS 01-Oct-2025", Percent: 0.03, MarketValue: 30},
				}},
			},
		},
		{
			name: "missing terminator keeps the open section",
			rows: []Row{
				anchor(1, "Commercial Paper"),
				holding(2, "Bharti Telecom", "1.5%", "500", "2,400"),
			},
			want: SectionMap{
				CommercialPaper: {Key: CommercialPaper, Records: []HoldingRecord{
					{Name: "Bharti Telecom", Percent: 0.015, Quantity: 500, MarketValue: 2400},
				}},
			},
		},
		{
			name: "repeated section keeps the last block",
			rows: []Row{
				anchor(1, "Arbitrage"),
				holding(2, "Foo Ltd", "0.01", "1", "1"),
				anchor(3, "Treasury Bill"),
				anchor(4, "Arbitrage"),
				holding(5, "Bar Ltd", "0.02", "2", "2"),
			},
			want: SectionMap{
				Arbitrage: {Key: Arbitrage, Records: []HoldingRecord{
					{Name: "Bar Ltd", Percent: 0.02, Quantity: 2, MarketValue: 2},
				}},
			},
		},
		{
			name: "no header",
			rows: []Row{holding(1, "Foo Ltd", "0.01", "1", "1"), anchor(2, "GRAND TOTAL")},
			want: SectionMap{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRows(tt.rows, DefaultColumns)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRows() = %v, want %v", dump(got), dump(tt.want))
			}
		})
	}
}

// dump formats a SectionMap for failure messages.
func dump(m SectionMap) string {
	s := ""
	for _, k := range m.Keys() {
		s += fmt.Sprintf("%s:%+v ", k, m[k].Records)
	}
	return s
}

func TestParseRows_subTotalNeverEmitted(t *testing.T) {
	for _, percent := range []string{"0.5", "50%", "1", "0.00001"} {
		got := ParseRows([]Row{
			anchor(1, "Equity & Equity related"),
			holding(2, "Sub Total", percent, "100", "100"),
		}, DefaultColumns)
		if got.Len() != 0 {
			t.Errorf("ParseRows() with Sub Total at %s = %v, want no record", percent, dump(got))
		}
	}
}

func TestParser_Parse_retry(t *testing.T) {
	var closed int
	sheets := map[string][]Row{
		"PPTSF": {anchor(1, "PPFAS Mutual Fund")},
		"PPETSF": {
			anchor(5, "Equity & Equity related"),
			holding(6, "Infosys Limited", "0.06", "10", "15"),
			anchor(7, "GRAND TOTAL"),
		},
	}
	p := NewParser(DefaultFunds)
	p.Open = openMem(sheets, &closed)

	x := p.Parse("report.xlsx", "tax")
	if x.Status != Extracted {
		t.Fatalf("Parse() status = %v, want %v", x.Status, Extracted)
	}
	if x.Sheet != "PPETSF" {
		t.Errorf("Parse() sheet = %q, want %q", x.Sheet, "PPETSF")
	}
	if x.Sections.Len() != 1 {
		t.Errorf("Parse() records = %d, want 1", x.Sections.Len())
	}
	if closed != 2 {
		t.Errorf("workbook closed %d times, want 2", closed)
	}

	// Starting at the second candidate skips the first one.
	closed = 0
	if x := p.ParseFrom("report.xlsx", "tax", 1); x.Status != Extracted || closed != 1 {
		t.Errorf("ParseFrom(1) = %v after %d opens, want %v after 1", x.Status, closed, Extracted)
	}
}

func TestParser_Parse_status(t *testing.T) {
	var closed int
	p := NewParser(DefaultFunds)
	p.Open = openMem(map[string][]Row{"PPFCF": {anchor(1, "Nothing here")}}, &closed)

	if x := p.Parse("report.xlsx", "flexi"); x.Status != NoData || !x.Empty() {
		t.Errorf("Parse(flexi) = %v, want %v", x.Status, NoData)
	}
	if closed != 1 {
		t.Errorf("workbook closed %d times, want 1", closed)
	}

	x := p.Parse("report.xlsx", "liquid")
	if x.Status != Unreadable || x.Err == nil {
		t.Errorf("Parse(liquid) = %v (%v), want %v with an error", x.Status, x.Err, Unreadable)
	}
	if x.Sections == nil {
		t.Errorf("Parse(liquid) sections = nil, want an empty map")
	}
	if closed != 2 {
		t.Errorf("workbook closed %d times after a missing sheet, want 2", closed)
	}

	// Both candidate sheets of the tax fund are missing: each attempt closes the workbook.
	if x := p.Parse("report.xlsx", "tax"); x.Status != Unreadable || x.Sheet != "PPETSF" {
		t.Errorf("Parse(tax) = %v on %q, want %v on %q", x.Status, x.Sheet, Unreadable, "PPETSF")
	}
	if closed != 4 {
		t.Errorf("workbook closed %d times after two failed attempts, want 4", closed)
	}

	x = p.Parse("report.xlsx", "equity")
	if !errors.Is(x.Err, ErrUnknownFund) {
		t.Errorf("Parse(equity) error = %v, want %v", x.Err, ErrUnknownFund)
	}
	if closed != 4 {
		t.Errorf("workbook closed %d times after an unknown fund, want 4", closed)
	}

	p.Open = func(path string) (Workbook, error) { return nil, errors.New("not a zip file") }
	if x := p.Parse("report.xls", "flexi"); x.Status != Unreadable {
		t.Errorf("Parse(report.xls) = %v, want %v", x.Status, Unreadable)
	}
}

func TestParser_Parse_sheetAttempts(t *testing.T) {
	var closed int
	funds := Funds{{Code: "x", Sheets: []string{"A", "B", "C"}}}
	sheets := map[string][]Row{
		"A": nil,
		"B": nil,
		"C": {anchor(1, "Arbitrage"), holding(2, "Foo Ltd", "0.1", "1", "1")},
	}
	p := NewParser(funds)
	p.Open = openMem(sheets, &closed)

	if x := p.Parse("f.xlsx", "x"); x.Status != NoData || x.Sheet != "B" {
		t.Errorf("Parse() = %v on %q, want %v on %q", x.Status, x.Sheet, NoData, "B")
	}
	p.SheetAttempts = 3
	if x := p.Parse("f.xlsx", "x"); x.Status != Extracted || x.Sheet != "C" {
		t.Errorf("Parse() = %v on %q, want %v on %q", x.Status, x.Sheet, Extracted, "C")
	}
}

// fixtureRow is a worksheet row written into a generated workbook.
type fixtureRow struct {
	index int
	cells map[string]any
}

// writeWorkbook saves an .xlsx file with the given sheets, in order, and returns its path.
func writeWorkbook(t *testing.T, names []string, sheets map[string][]fixtureRow) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, name := range names {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("SetSheetName(%q): %v", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("NewSheet(%q): %v", name, err)
		}
		for _, row := range sheets[name] {
			for col, v := range row.cells {
				if err := f.SetCellValue(name, fmt.Sprintf("%s%d", col, row.index), v); err != nil {
					t.Fatalf("SetCellValue: %v", err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "PPFAS_Monthly_Portfolio_Report_September_30_2025.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs(%q): %v", path, err)
	}
	return path
}

func TestParser_Parse_xlsx(t *testing.T) {
	disclosure := []fixtureRow{
		{1, map[string]any{"B": "PPFAS Mutual Fund"}},
		{2, map[string]any{"B": "Parag Parikh ELSS Tax Saver Fund"}},
		{4, map[string]any{
			"B": "Name of the Instrument",
			"C": "ISIN",
			"D": "Industry / Rating",
			"E": "Quantity",
			"F": "Market/Fair Value ( Rs. in Lakhs)",
			"G": "% to Net Assets",
		}},
		{5, map[string]any{"B": "Equity & Equity related"}},
		{6, map[string]any{"B": "(a) Listed / awaiting listing on Stock Exchanges"}},
		{7, map[string]any{"B": "HDFC Bank Limited", "C": "INE040A01034", "D": "Banks", "E": 4278693, "F": 81234.56, "G": 0.0799}},
		{8, map[string]any{"B": "Coal India Limited", "C": "INE522F01014", "D": "Consumable Fuels", "E": 1200000, "F": 4500.5, "G": 0.0512}},
		{9, map[string]any{"B": "Sub Total", "F": 85735.06, "G": 0.1311}},
		{11, map[string]any{"B": "Reverse Repo / TREPS"}},
		{12, map[string]any{"B": "Clearing Corporation of India Ltd", "F": 1000, "G": 0.01}},
		{13, map[string]any{"B": "TREPS 01-Oct-2025", "F": 2000, "G": "2.05%"}},
		{15, map[string]any{"B": "GRAND TOTAL", "F": 100000, "G": 1}},
		{16, map[string]any{"B": "Equity & Equity related"}},
		{17, map[string]any{"B": "After The Total", "G": 0.5}},
	}
	path := writeWorkbook(t, []string{"Index", "PPTSF"}, map[string][]fixtureRow{
		"Index": {{1, map[string]any{"A": "Scheme", "B": "Sheet"}}},
		"PPTSF": disclosure,
	})

	p := NewParser(DefaultFunds)
	x := p.Parse(path, "tax")
	if x.Status != Extracted {
		t.Fatalf("Parse() = %v (%v), want %v", x.Status, x.Err, Extracted)
	}
	if want := (Columns{Name: "B", Percent: "G", Quantity: "E", MarketValue: "F"}); !reflect.DeepEqual(x.Columns, want) {
		t.Errorf("Parse() columns = %+v, want %+v", x.Columns, want)
	}
	want := SectionMap{
		EquityAndEquityRelated: {Key: EquityAndEquityRelated, Records: []HoldingRecord{
			{Name: "HDFC Bank Limited", Percent: 0.0799, Quantity: 4278693, MarketValue: 81234.56},
			{Name: "Coal India Limited", Percent: 0.0512, Quantity: 1200000, MarketValue: 4500.5},
		}},
		ReverseRepoTREPS: {Key: ReverseRepoTREPS, Records: []HoldingRecord{
			{Name: "TREPS 01-Oct-2025", Percent: 0.0205, MarketValue: 2000},
		}},
	}
	if !reflect.DeepEqual(x.Sections, want) {
		t.Errorf("Parse() = %v, want %v", dump(x.Sections), dump(want))
	}

	// The flexi cap sheet is not in this workbook.
	if x := p.Parse(path, "flexi"); x.Status != Unreadable {
		t.Errorf("Parse(flexi) = %v, want %v", x.Status, Unreadable)
	}

	// A limited read window stops before the data.
	p.LastRow = 6
	if x := p.ParseSheet(path, "PPTSF"); x.Status != NoData {
		t.Errorf("ParseSheet() with LastRow 6 = %v, want %v", x.Status, NoData)
	}
}

func TestParser_Parse_missingFile(t *testing.T) {
	x := NewParser(DefaultFunds).Parse(filepath.Join(t.TempDir(), "missing.xlsx"), "tax")
	if x.Status != Unreadable || x.Err == nil {
		t.Errorf("Parse() = %v (%v), want %v", x.Status, x.Err, Unreadable)
	}
}
