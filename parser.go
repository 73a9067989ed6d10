package fundiff

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// phase of the section scan.
type phase int

const (
	seeking   phase = iota // no section open yet
	inSection              // rows belong to key
	done                   // terminator reached
)

// scanState is the state of the top-to-bottom scan of a worksheet.
// step returns the next state, the zero value is the initial state.
type scanState struct {
	phase   phase
	key     SectionKey
	records []HoldingRecord
}

// flush moves the accumulated records of the open section into out. The last block of a
// repeated section wins.
func (s scanState) flush(out SectionMap) {
	if s.phase == inSection && len(s.records) > 0 {
		out.set(s.key, s.records...)
	}
}

// step processes one row. Records of a section are moved to out when the section ends.
func (s scanState) step(row Row, cols Columns, out SectionMap, log zerolog.Logger) scanState {
	if s.phase == done {
		return s
	}

	c := Classify(row, cols)
	switch c.Kind {
	case RowTerminator:
		s.flush(out)
		log.Debug().Int("row", row.Index).Msg("found GRAND TOTAL, stopping data extraction")
		return scanState{phase: done}

	case RowSectionHeader:
		s.flush(out)
		log.Debug().Int("row", row.Index).Str("section", string(c.Section)).Msg("found section header")
		return scanState{phase: inSection, key: c.Section}

	case RowData:
		if s.phase != inSection {
			return s
		}
		log.Debug().Int("row", row.Index).Str("section", string(s.key)).
			Str("name", c.Record.Name).Float64("percent", c.Record.Percent).Msg("added holding")
		s.records = append(s.records, c.Record)
		return s

	default:
		if s.phase == inSection && c.Reason != ReasonShortName {
			log.Debug().Int("row", row.Index).Str("reason", c.Reason).Msg("skipping non-data row")
		}
		return s
	}
}

// ParseRows scans the rows in order and groups the holdings by section.
//
// Rows before the first section header are ignored, and the scan stops at the GRAND TOTAL row.
// A section whose records are still open when the rows run out is kept.
func ParseRows(rows []Row, cols Columns) SectionMap {
	return parseRows(rows, cols, zerolog.Nop())
}

func parseRows(rows []Row, cols Columns, log zerolog.Logger) SectionMap {
	out := make(SectionMap)
	var s scanState
	for _, row := range rows {
		s = s.step(row, cols, out, log)
		if s.phase == done {
			return out
		}
	}
	s.flush(out)
	return out
}

// ExtractionStatus tells how a workbook extraction ended.
type ExtractionStatus int

const (
	// Extracted means at least one holding was found.
	Extracted ExtractionStatus = iota
	// NoData means the sheet was read but no section held any holding.
	NoData
	// Unreadable means the workbook or the sheet could not be read.
	Unreadable
)

func (s ExtractionStatus) String() string {
	switch s {
	case Extracted:
		return "extracted"
	case NoData:
		return "no data"
	default:
		return "unreadable"
	}
}

// Extraction is the result of parsing a fund's holdings out of a workbook.
type Extraction struct {
	Sections SectionMap
	Sheet    string  // sheet name of the last attempt
	Columns  Columns // columns used by the last attempt
	Status   ExtractionStatus
	Err      error // set when Status is Unreadable
}

// Empty reports whether no holding was extracted.
func (e Extraction) Empty() bool { return e.Sections.Len() == 0 }

// DefaultLastRow is the last worksheet row read, disclosures end well before it.
const DefaultLastRow = 5000

// DefaultSheetAttempts is how many candidate sheets of a fund are tried.
const DefaultSheetAttempts = 2

// Parser extracts fund holdings from disclosure workbooks.
type Parser struct {
	Funds         Funds
	Open          OpenFunc
	HeaderWindow  int
	LastRow       int
	SheetAttempts int
	Log           zerolog.Logger
}

// NewParser returns a Parser for .xlsx files using the default settings.
func NewParser(funds Funds) *Parser {
	return &Parser{
		Funds:         funds,
		Open:          OpenWorkbook,
		HeaderWindow:  DefaultHeaderWindow,
		LastRow:       DefaultLastRow,
		SheetAttempts: DefaultSheetAttempts,
		Log:           zerolog.Nop(),
	}
}

// Parse extracts the holdings of fund code from the workbook at path.
//
// The fund's candidate sheets are tried in order until one yields holdings; an unreadable
// sheet counts as empty. Errors never escape: they are reported in the Extraction status.
func (p *Parser) Parse(path, code string) Extraction { return p.ParseFrom(path, code, 0) }

// ParseFrom is like Parse but starts with the candidate sheet at index attempt.
// At most SheetAttempts candidates are considered, counted from the first one.
func (p *Parser) ParseFrom(path, code string, attempt int) Extraction {
	sheets, err := p.Funds.Sheets(code)
	if err != nil {
		p.Log.Error().Err(err).Msg("cannot select sheet")
		return Extraction{Sections: SectionMap{}, Status: Unreadable, Err: err}
	}
	if p.SheetAttempts > 0 && len(sheets) > p.SheetAttempts {
		sheets = sheets[:p.SheetAttempts]
	}
	if attempt < 0 || attempt >= len(sheets) {
		err := fmt.Errorf("fund %q has no candidate sheet #%d", code, attempt)
		return Extraction{Sections: SectionMap{}, Status: Unreadable, Err: err}
	}

	var last Extraction
	for i, sheet := range sheets[attempt:] {
		if i > 0 {
			p.Log.Info().Str("file", path).Str("previous", last.Sheet).Str("sheet", sheet).
				Msg("no sectioned data found, retrying with next sheet name")
		}
		last = p.ParseSheet(path, sheet)
		if !last.Empty() {
			return last
		}
	}
	return last
}

// ParseSheet extracts the holdings of a single sheet. The workbook is closed before returning.
func (p *Parser) ParseSheet(path, sheet string) Extraction {
	sections, cols, err := p.parseSheet(path, sheet)
	x := Extraction{Sections: sections, Sheet: sheet, Columns: cols}
	switch {
	case err != nil:
		p.Log.Error().Err(err).Str("file", path).Str("sheet", sheet).Msg("error processing Excel file")
		x.Sections, x.Status, x.Err = SectionMap{}, Unreadable, err
	case sections.Len() == 0:
		x.Status = NoData
	default:
		x.Status = Extracted
	}
	p.Log.Debug().Str("sheet", sheet).Int("sections", len(x.Sections)).Stringer("status", x.Status).Msg("extracted sections")
	return x
}

func (p *Parser) parseSheet(path, sheet string) (sections SectionMap, cols Columns, err error) {
	open := p.Open
	if open == nil {
		open = OpenWorkbook
	}
	window := p.HeaderWindow
	if window <= 0 {
		window = DefaultHeaderWindow
	}

	wb, err := open(path)
	if err != nil {
		return nil, cols, err
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("cannot close workbook %q: %w", path, cerr))
		}
	}()

	header, err := wb.Rows(sheet, ReadFilter{LastRow: window, Columns: candidateColumns})
	if err != nil {
		return nil, cols, err
	}
	cols = DetectColumns(header, window)
	p.Log.Debug().Str("name", cols.Name).Str("percent", cols.Percent).Str("quantity", cols.Quantity).
		Str("market_value", cols.MarketValue).Strs("defaulted", cols.Defaulted).Msg("detected columns")

	rows, err := wb.Rows(sheet, ReadFilter{LastRow: p.LastRow, Columns: cols.letters()})
	if err != nil {
		return nil, cols, err
	}
	return parseRows(rows, cols, p.Log), cols, nil
}
