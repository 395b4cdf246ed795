// =============================================================================
// HelloAsso to Brevo Converter - Converter Module
// =============================================================================
//
// This module runs the row-by-row conversion of one export.
//
// CONVERSION PIPELINE:
//   1. Write the Brevo header row
//   2. Check that the export header carries every mapped column
//   3. For each record, in input order:
//      a. Trim and normalize the order date
//      b. Skip the record if expired records are removed and the date is
//         more than 365 days old
//      c. Map and trim the remaining fields
//      d. Write the Brevo record immediately
//
// Nothing is buffered: one record is held in memory at a time.
//
// =============================================================================

package converter

import (
	"fmt"
	"time"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/types"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/validation"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Source yields HelloAsso records. csvparser.StreamingParser and
// xlsxparser.StreamingParser implement it.
type Source interface {
	Headers() []string
	Next() bool
	Record() types.SourceRecord
	Err() error
}

// Sink receives Brevo records. csvwriter.Writer implements it.
type Sink interface {
	WriteHeader() error
	Write(record types.TargetRecord) error
}

// Logger is the logging surface the converter needs.
// *logrus.Logger and *logrus.Entry satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Stats counts what happened to the records of one run.
type Stats struct {
	// RowsRead is the number of data rows read from the export.
	RowsRead int

	// RowsWritten is the number of Brevo records written.
	RowsWritten int

	// RowsExpired is the number of rows dated more than 365 days ago.
	// They are only dropped when RemoveExpired is set.
	RowsExpired int

	// MalformedDates is the number of rows whose date is not DD/MM/YYYY.
	// These rows are always kept.
	MalformedDates int
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Options configures a Converter.
type Options struct {
	// RemoveExpired drops records whose adhesion date is expired.
	RemoveExpired bool

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Converter turns HelloAsso records into Brevo records.
type Converter struct {
	removeExpired bool
	now           func() time.Time
	logger        Logger
}

// New creates a Converter. A nil logger discards all messages.
func New(options Options, logger Logger) *Converter {
	if options.Now == nil {
		options.Now = time.Now
	}
	if logger == nil {
		logger = discardLogger{}
	}

	return &Converter{
		removeExpired: options.RemoveExpired,
		now:           options.Now,
		logger:        logger,
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Convert streams every record of src into sink.
// It stops at the first fatal error; records already written stay written.
func (c *Converter) Convert(src Source, sink Sink) (Stats, error) {
	var stats Stats

	if err := sink.WriteHeader(); err != nil {
		return stats, err
	}

	if err := validation.RequireColumns(src.Headers(), SourceColumns()); err != nil {
		return stats, err
	}

	for src.Next() {
		record := src.Record()
		stats.RowsRead++

		date, err := adhesionDate(record)
		if err != nil {
			return stats, err
		}

		expired, parsed := checkExpiry(date, c.now())
		if !parsed {
			stats.MalformedDates++
			c.logger.Debugf("row %d: date %q is not DD/MM/YYYY, record kept", record.RowNumber, date)
		}
		if expired {
			stats.RowsExpired++
			if c.removeExpired {
				c.logger.Debugf("row %d: dropping record dated %s", record.RowNumber, date)
				continue
			}
		}

		target, err := Transform(record, date)
		if err != nil {
			return stats, err
		}

		if err := sink.Write(target); err != nil {
			return stats, fmt.Errorf("row %d: %w", record.RowNumber, err)
		}
		stats.RowsWritten++
	}

	if err := src.Err(); err != nil {
		return stats, err
	}

	c.logger.Infof("read %d rows, wrote %d, %d expired, %d malformed dates",
		stats.RowsRead, stats.RowsWritten, stats.RowsExpired, stats.MalformedDates)

	return stats, nil
}

// =============================================================================
// DEFAULT LOGGER
// =============================================================================

// discardLogger drops every message.
type discardLogger struct{}

func (discardLogger) Debugf(string, ...interface{}) {}
func (discardLogger) Infof(string, ...interface{})  {}
