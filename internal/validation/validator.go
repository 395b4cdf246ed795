// =============================================================================
// HelloAsso to Brevo Converter - Validation Engine
// =============================================================================
//
// This module checks that an export carries what the converter needs:
//   - Header-level: every mapped source column is present
//   - Row-level: a row is long enough to carry a value for each mapped column
//   - Field-level: adhesion dates use the DD/MM/YYYY layout
//
// ERROR HANDLING:
//   Header and row failures are fatal for the whole run and are returned as
//   typed errors so callers can inspect them with errors.As.
//   Date failures are not errors for the run; callers decide what to do.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/types"
)

// DateLayout is the HelloAsso date layout (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// MissingColumnsError reports required columns absent from the header row.
type MissingColumnsError struct {
	// Columns lists the missing column names in mapping order.
	Columns []string
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("'%s'", c)
	}
	return fmt.Sprintf("missing required column(s) in header: %s", strings.Join(quoted, ", "))
}

// MissingFieldError reports a data row too short to hold a required column.
type MissingFieldError struct {
	// Field is the source column name.
	Field string

	// RowNumber is the 1-based line number of the row.
	RowNumber int
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: no value for required column '%s'", e.RowNumber, e.Field)
}

// =============================================================================
// HEADER AND ROW VALIDATION
// =============================================================================

// RequireColumns checks that every required column appears in headers.
// Matching is exact and case-sensitive, accents included.
func RequireColumns(headers []string, required []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, column := range required {
		if !present[column] {
			missing = append(missing, column)
		}
	}

	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// RequireField returns the raw value of a column, or a *MissingFieldError
// when the row does not carry it.
func RequireField(record types.SourceRecord, column string) (string, error) {
	value, ok := record.Get(column)
	if !ok {
		return "", &MissingFieldError{Field: column, RowNumber: record.RowNumber}
	}
	return value, nil
}

// =============================================================================
// DATE VALIDATION
// =============================================================================

// ParseDate parses a DD/MM/YYYY date at midnight in loc.
// Day and month must be two digits and the year four.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q does not match DD/MM/YYYY: %w", value, err)
	}
	return t, nil
}
