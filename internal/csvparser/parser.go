// =============================================================================
// HelloAsso to Brevo Converter - CSV Parser Module
// =============================================================================
//
// This module reads HelloAsso CSV exports one row at a time. The export
// dialect is fixed:
//   - Semicolon delimiter
//   - One header row
//   - UTF-8, with or without a byte order mark
//
// Values are returned untrimmed; trimming is the converter's job.
//
// USAGE:
//   parser, err := csvparser.Open(filePath)
//   if err != nil {
//       return err
//   }
//   defer parser.Close()
//
//   for parser.Next() {
//       record := parser.Record()
//       // Process the record...
//   }
//
//   if err := parser.Err(); err != nil {
//       return err
//   }
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/types"
)

// Delimiter separates fields in HelloAsso exports.
const Delimiter = ';'

// ErrNoHeader is returned for an input without a header row.
var ErrNoHeader = errors.New("input has no header row")

const byteOrderMark = "\ufeff"

// =============================================================================
// STREAMING PARSER
// =============================================================================

// StreamingParser yields the records of a HelloAsso CSV export without
// loading the file into memory.
type StreamingParser struct {
	closer  io.Closer
	reader  *csv.Reader
	headers []string
	current types.SourceRecord
	err     error
}

// Open opens a CSV export for streaming.
// The caller must Close the parser.
func Open(filePath string) (*StreamingParser, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	parser, err := NewStreamingParser(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	parser.closer = file

	return parser, nil
}

// NewStreamingParser reads the header row from r and returns a parser
// positioned on the first data row.
func NewStreamingParser(r io.Reader) (*StreamingParser, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	configureReader(reader)

	parser := &StreamingParser{reader: reader}
	if err := parser.readHeaders(); err != nil {
		return nil, err
	}

	return parser, nil
}

// configureReader applies the HelloAsso dialect to the CSV reader.
func configureReader(reader *csv.Reader) {
	reader.Comma = Delimiter

	// Short and long rows are reported by the converter, not here.
	reader.FieldsPerRecord = -1

	// Exports occasionally carry stray quotes inside free-text fields.
	reader.LazyQuotes = true

	// Raw values must reach the converter untouched.
	reader.TrimLeadingSpace = false
}

// readHeaders reads and cleans the header row.
func (p *StreamingParser) readHeaders() error {
	row, err := p.reader.Read()
	if err == io.EOF {
		return ErrNoHeader
	}
	if err != nil {
		return fmt.Errorf("error reading header row: %w", err)
	}

	p.headers = cleanHeaders(row)
	return nil
}

// cleanHeaders strips the byte order mark and surrounding whitespace and
// names empty headers after their position.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))

	for i, header := range headers {
		if i == 0 {
			header = strings.TrimPrefix(header, byteOrderMark)
		}
		header = strings.TrimSpace(header)

		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}

		cleaned[i] = header
	}

	return cleaned
}

// Next advances to the next record. It returns false at end of input or on
// the first read error; check Err afterwards.
func (p *StreamingParser) Next() bool {
	if p.err != nil {
		return false
	}

	row, err := p.reader.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		p.err = fmt.Errorf("error reading input: %w", err)
		return false
	}

	line, _ := p.reader.FieldPos(0)
	p.current = types.SourceRecord{
		Headers:   p.headers,
		Values:    row,
		RowNumber: line,
	}

	return true
}

// Record returns the current record.
func (p *StreamingParser) Record() types.SourceRecord {
	return p.current
}

// Headers returns the cleaned header row.
func (p *StreamingParser) Headers() []string {
	return p.headers
}

// Err returns the first error met while reading records.
func (p *StreamingParser) Err() error {
	return p.err
}

// Close releases the underlying file, if the parser owns one.
func (p *StreamingParser) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}
