// =============================================================================
// HelloAsso to Brevo Converter - XLSX Export Parser
// =============================================================================
//
// HelloAsso offers its member exports as Excel workbooks as well as CSV.
// This module streams the rows of one worksheet with the same record
// contract as the CSV parser:
//   - The first non-empty row is the header
//   - Every following non-empty row is one SourceRecord
//   - Cell values are read raw, without the cell's number format
//   - Serial dates in the declared date columns become DD/MM/YYYY HH:MM:SS
//
// SHEET SELECTION:
//   An empty sheet name selects the first worksheet of the workbook.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/types"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/validation"
)

// ErrNoSheet is returned for a workbook without any worksheet.
var ErrNoSheet = errors.New("workbook has no worksheet")

// ErrNoHeader is returned for a worksheet without a header row.
var ErrNoHeader = errors.New("worksheet has no header row")

// dateTimeLayout renders serial date cells the way HelloAsso writes dates
// in its CSV exports.
const dateTimeLayout = validation.DateLayout + " 15:04:05"

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser yields the records of one worksheet.
type StreamingParser struct {
	file      *excelize.File
	rows      *excelize.Rows
	sheet     string
	headers   []string
	dates     []int
	date1904  bool
	current   types.SourceRecord
	rowNumber int
	err       error
}

// Open opens a workbook and positions the parser after the header row of
// the requested sheet. Numeric cells under one of dateColumns are read as
// Excel serial dates. The caller must Close the parser.
func Open(filePath, sheet string, dateColumns ...string) (*StreamingParser, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			f.Close()
			return nil, ErrNoSheet
		}
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to read sheet '%s': %w", sheet, err)
	}

	parser := &StreamingParser{
		file:  f,
		rows:  rows,
		sheet: sheet,
	}

	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		parser.date1904 = *props.Date1904
	}

	if err := parser.readHeaders(); err != nil {
		parser.Close()
		return nil, err
	}

	for i, header := range parser.headers {
		for _, column := range dateColumns {
			if header == column {
				parser.dates = append(parser.dates, i)
			}
		}
	}

	return parser, nil
}

// readHeaders reads the first non-empty row as the header.
func (p *StreamingParser) readHeaders() error {
	row, ok, err := p.nextRow()
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}
	if !ok {
		return ErrNoHeader
	}

	headers := make([]string, len(row))
	for i, cell := range row {
		header := strings.TrimSpace(cell)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = header
	}

	p.headers = headers
	return nil
}

// nextRow returns the next non-empty row.
func (p *StreamingParser) nextRow() ([]string, bool, error) {
	for p.rows.Next() {
		p.rowNumber++

		row, err := p.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, false, fmt.Errorf("row %d: %w", p.rowNumber, err)
		}
		if len(row) == 0 {
			continue
		}
		return row, true, nil
	}

	if err := p.rows.Error(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Next advances to the next record. It returns false at the end of the
// sheet or on the first read error; check Err afterwards.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	row, ok, err := p.nextRow()
	if err != nil {
		p.err = fmt.Errorf("error reading sheet '%s': %w", p.sheet, err)
		return false
	}
	if !ok {
		return false
	}

	// Excel drops trailing blank cells; they are empty values, not
	// missing columns.
	if len(row) < len(p.headers) {
		padded := make([]string, len(p.headers))
		copy(padded, row)
		row = padded
	}

	for _, i := range p.dates {
		if i < len(row) {
			row[i] = p.serialDate(row[i])
		}
	}

	p.current = types.SourceRecord{
		Headers:   p.headers,
		Values:    row,
		RowNumber: p.rowNumber,
	}

	return true
}

// serialDate renders an Excel serial date. Text cells are returned
// unchanged.
func (p *StreamingParser) serialDate(value string) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}

	t, err := excelize.ExcelDateToTime(serial, p.date1904)
	if err != nil {
		return value
	}
	return t.Round(time.Second).Format(dateTimeLayout)
}

// Record returns the current record.
func (p *StreamingParser) Record() types.SourceRecord {
	return p.current
}

// Headers returns the header row.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// Sheet returns the name of the sheet being read.
func (p *StreamingParser) Sheet() string {
	return p.sheet
}

// Err returns the first error met while reading records.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close releases the row iterator and the workbook.
func (p *StreamingParser) Close() error {
	rowsErr := p.rows.Close()
	fileErr := p.file.Close()
	return errors.Join(rowsErr, fileErr)
}
