// =============================================================================
// HelloAsso to Brevo Converter - Transformation Rules
// =============================================================================
//
// This module holds the field mapping table and the value transformations
// applied to each HelloAsso record:
//   - Every mapped value is trimmed of surrounding whitespace
//   - The order date loses its time component ("01/01/2020 10:00:00" ->
//     "01/01/2020")
//
// The mapping is data, not logic: adding a column means adding a row to
// Mapping and a field to types.TargetRecord.
//
// =============================================================================

package converter

import (
	"strings"
	"time"
	"unicode"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/types"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/validation"
)

// HelloAsso column names.
const (
	SourceEmail     = "Email payeur"
	SourceFirstName = "Prénom adhérent"
	SourceLastName  = "Nom adhérent"
	SourceOrderDate = "Date de la commande"
)

// ExpiryWindow is how far back a membership stays current.
// It is a fixed 365 days, so leap years shorten the calendar year by a day.
const ExpiryWindow = 365 * 24 * time.Hour

// =============================================================================
// FIELD MAPPING
// =============================================================================

// FieldMapping pairs a HelloAsso column with its Brevo column.
type FieldMapping struct {
	Source string
	Target string
}

// Mapping is the HelloAsso to Brevo column table, in Brevo column order.
var Mapping = []FieldMapping{
	{Source: SourceEmail, Target: types.ColumnEmail},
	{Source: SourceFirstName, Target: types.ColumnFirstName},
	{Source: SourceLastName, Target: types.ColumnLastName},
	{Source: SourceOrderDate, Target: types.ColumnAdhesionDate},
}

// SourceColumns returns the HelloAsso columns the mapping needs.
func SourceColumns() []string {
	columns := make([]string, len(Mapping))
	for i, m := range Mapping {
		columns[i] = m.Source
	}
	return columns
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// NormalizeDate drops the time component of a date.
// A value containing whitespace is cut to its first whitespace-delimited
// token; any other value is returned unchanged. No calendar parsing happens
// here.
func NormalizeDate(value string) string {
	if !strings.ContainsFunc(value, unicode.IsSpace) {
		return value
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// adhesionDate returns the trimmed, normalized order date of a record.
func adhesionDate(record types.SourceRecord) (string, error) {
	raw, err := validation.RequireField(record, SourceOrderDate)
	if err != nil {
		return "", err
	}
	return NormalizeDate(strings.TrimSpace(raw)), nil
}

// Transform builds the Brevo record for a HelloAsso record whose adhesion
// date has already been normalized.
func Transform(record types.SourceRecord, date string) (types.TargetRecord, error) {
	var target types.TargetRecord

	for _, m := range Mapping {
		if m.Source == SourceOrderDate {
			target.Set(m.Target, date)
			continue
		}

		raw, err := validation.RequireField(record, m.Source)
		if err != nil {
			return types.TargetRecord{}, err
		}
		target.Set(m.Target, strings.TrimSpace(raw))
	}

	return target, nil
}

// =============================================================================
// EXPIRY CHECK
// =============================================================================

// IsExpired reports whether a DD/MM/YYYY date lies strictly before
// now minus ExpiryWindow. Dates that do not parse are never expired.
func IsExpired(date string, now time.Time) bool {
	expired, _ := checkExpiry(date, now)
	return expired
}

// checkExpiry is IsExpired that also reports whether the date parsed.
func checkExpiry(date string, now time.Time) (expired bool, parsed bool) {
	t, err := validation.ParseDate(date, now.Location())
	if err != nil {
		return false, false
	}
	return t.Before(now.Add(-ExpiryWindow)), true
}
