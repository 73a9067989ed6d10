package fundiff

import (
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
)

// Row is one worksheet row, holding raw cell texts indexed by column letters.
type Row struct {
	Index int // 1-based row number
	cells map[string]string
}

// NewRow creates a row from column letters to raw cell values.
func NewRow(index int, cells map[string]string) Row {
	return Row{Index: index, cells: cells}
}

// Cell returns the raw text of the cell at column col, "" when empty.
func (r Row) Cell(col string) string { return r.cells[col] }

// ReadFilter restricts the cells read from a worksheet.
type ReadFilter struct {
	LastRow int      // rows after LastRow are not read, 0 means no limit
	Columns []string // columns to keep, nil keeps them all
}

// accept reports whether the cell at (col, row) is kept by the filter.
func (f ReadFilter) accept(col string, row int) bool {
	if f.LastRow > 0 && row > f.LastRow {
		return false
	}
	return f.Columns == nil || slices.Contains(f.Columns, col)
}

// columnRange returns the column letters from first to last included, e.g. "B" to "L".
func columnRange(first, last string) []string {
	from, _ := excelize.ColumnNameToNumber(first)
	to, _ := excelize.ColumnNameToNumber(last)
	var cols []string
	for i := from; i <= to; i++ {
		name, _ := excelize.ColumnNumberToName(i)
		cols = append(cols, name)
	}
	return cols
}

// Workbook gives read access to the worksheets of a spreadsheet file.
type Workbook interface {
	// Rows reads the rows of sheet kept by filter, in order.
	Rows(sheet string, filter ReadFilter) ([]Row, error)
	Close() error
}

// OpenFunc opens a workbook file.
type OpenFunc func(path string) (Workbook, error)

// xlsxWorkbook is a Workbook backed by excelize.
type xlsxWorkbook struct {
	f *excelize.File
}

// OpenWorkbook opens an Office Open XML workbook (.xlsx).
func OpenWorkbook(path string) (Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook %q: %w", path, err)
	}
	return &xlsxWorkbook{f: f}, nil
}

func (w *xlsxWorkbook) Close() error { return w.f.Close() }

// Rows streams the sheet rows and stops at filter.LastRow.
// Raw cell values are read, so a percentage formatted "8.11%" reads as "0.0811".
func (w *xlsxWorkbook) Rows(sheet string, filter ReadFilter) ([]Row, error) {
	it, err := w.f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheet, err)
	}
	defer it.Close()

	var rows []Row
	for index := 1; it.Next(); index++ {
		if filter.LastRow > 0 && index > filter.LastRow {
			break
		}
		values, err := it.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("cannot read row %d of sheet %q: %w", index, sheet, err)
		}
		cells := make(map[string]string)
		for i, v := range values {
			if v == "" {
				continue
			}
			col, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				return nil, err
			}
			if filter.accept(col, index) {
				cells[col] = v
			}
		}
		rows = append(rows, NewRow(index, cells))
	}
	if err := it.Error(); err != nil {
		return nil, fmt.Errorf("cannot read sheet %q: %w", sheet, err)
	}
	return rows, nil
}
