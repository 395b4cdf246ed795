// =============================================================================
// HelloAsso to Brevo Converter - Shared Types
// =============================================================================
//
// This package contains the record types shared by the sources, the converter
// and the writer. Keeping them here avoids import cycles between:
//   - csvparser / xlsxparser (produce SourceRecord)
//   - converter              (turns SourceRecord into TargetRecord)
//   - csvwriter              (consumes TargetRecord)
//
// =============================================================================

package types

// =============================================================================
// SOURCE RECORD
// =============================================================================

// SourceRecord is one line of the HelloAsso export.
// Values are kept exactly as parsed, untrimmed.
type SourceRecord struct {
	// Headers is the header row of the file the record came from.
	// It is shared between records and must not be modified.
	Headers []string

	// Values holds the raw cell values, aligned with Headers.
	// A short row has fewer values than headers.
	Values []string

	// RowNumber is the 1-based line number in the input file.
	// The header is row 1, so the first data row is row 2.
	RowNumber int
}

// Get returns the raw value of the named column.
// When the header repeats a name, the last such column wins. The boolean is
// false when the header is unknown or the row is too short to carry a value
// for that column.
func (r SourceRecord) Get(name string) (string, bool) {
	for i := len(r.Headers) - 1; i >= 0; i-- {
		if r.Headers[i] != name {
			continue
		}
		if i >= len(r.Values) {
			return "", false
		}
		return r.Values[i], true
	}
	return "", false
}

// =============================================================================
// TARGET RECORD
// =============================================================================

// Brevo column names, in output order.
const (
	ColumnEmail        = "EMAIL"
	ColumnFirstName    = "PRENOM"
	ColumnLastName     = "NOM"
	ColumnAdhesionDate = "DATE_ADHESION"
)

// TargetHeader is the header row of the Brevo import file.
var TargetHeader = []string{ColumnEmail, ColumnFirstName, ColumnLastName, ColumnAdhesionDate}

// TargetRecord is one contact line of the Brevo import file.
type TargetRecord struct {
	Email        string
	FirstName    string
	LastName     string
	AdhesionDate string
}

// Values returns the record's fields in TargetHeader order.
func (r TargetRecord) Values() []string {
	return []string{r.Email, r.FirstName, r.LastName, r.AdhesionDate}
}

// Set assigns a value by Brevo column name.
// It reports false for an unknown column.
func (r *TargetRecord) Set(column, value string) bool {
	switch column {
	case ColumnEmail:
		r.Email = value
	case ColumnFirstName:
		r.FirstName = value
	case ColumnLastName:
		r.LastName = value
	case ColumnAdhesionDate:
		r.AdhesionDate = value
	default:
		return false
	}
	return true
}
