// =============================================================================
// HelloAsso to Brevo Converter - Brevo CSV Writer
// =============================================================================
//
// This module writes the Brevo contact import file:
//
//   EMAIL,PRENOM,NOM,DATE_ADHESION
//   a@x.com,Ana,Lee,01/01/2020
//
// FORMAT:
//   - Comma delimiter, minimal quoting
//   - CRLF record terminator, never a blank line between records
//   - UTF-8, no byte order mark
//
// Each record is flushed as soon as it is written, so a run that fails
// midway leaves every record written so far in the file.
//
// =============================================================================

package csvwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/types"
)

// Delimiter separates fields in Brevo import files.
const Delimiter = ','

// Writer writes Brevo records to an io.Writer.
// Records end with CRLF; line breaks inside quoted values are written
// unchanged.
type Writer struct {
	out     io.Writer
	line    bytes.Buffer
	csv     *csv.Writer
	records int
}

// New returns a Writer on w.
func New(w io.Writer) *Writer {
	writer := &Writer{out: w}
	writer.csv = csv.NewWriter(&writer.line)
	writer.csv.Comma = Delimiter

	return writer
}

// WriteHeader writes the Brevo header row.
func (w *Writer) WriteHeader() error {
	if err := w.writeRow(types.TargetHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// Write writes one record and flushes it to the underlying writer.
func (w *Writer) Write(record types.TargetRecord) error {
	if err := w.writeRow(record.Values()); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	w.records++
	return nil
}

// Records returns the number of records written, header excluded.
func (w *Writer) Records() int {
	return w.records
}

// writeRow encodes one row and writes it through to the output.
func (w *Writer) writeRow(row []string) error {
	w.line.Reset()
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return err
	}

	// The encoder ends every row with a bare LF.
	encoded := w.line.Bytes()
	encoded = append(encoded[:len(encoded)-1], '\r', '\n')

	_, err := w.out.Write(encoded)
	return err
}
