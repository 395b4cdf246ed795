// =============================================================================
// HelloAsso to Brevo Converter - File Manager Utility
// =============================================================================
//
// This module provides the file handling around a conversion:
//   - Output path naming with placeholders
//   - Input format detection from the file extension
//   - Opening the output file for writing
//
// OUTPUT NAMING:
//   A path without placeholders is used verbatim. Placeholders:
//     {date}      - Current date (YYYYMMDD)
//     {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
//     {uuid}      - A random UUID
//
//   EXAMPLE:
//     format: "exports/brevo_{date}.csv"
//     output: "exports/brevo_20250101.csv"
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InputFormat identifies the kind of export being read.
type InputFormat int

const (
	// FormatCSV is a semicolon-separated HelloAsso export.
	FormatCSV InputFormat = iota

	// FormatXLSX is an Excel HelloAsso export.
	FormatXLSX
)

// String returns the format name.
func (f InputFormat) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	default:
		return "csv"
	}
}

// =============================================================================
// INPUT FORMAT DETECTION
// =============================================================================

// DetectInputFormat picks the parser for a file from its extension.
// Only Excel workbooks are told apart; every other file is read as a
// semicolon-separated export, whatever its name.
func DetectInputFormat(filePath string) InputFormat {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatCSV
	}
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// ExpandOutputPath replaces the placeholders of an output path.
func ExpandOutputPath(format string, now time.Time) string {
	if !strings.Contains(format, "{") {
		return format
	}

	replacements := []string{
		"{date}", now.Format("20060102"),
		"{timestamp}", now.Format("20060102_150405"),
	}
	if strings.Contains(format, "{uuid}") {
		replacements = append(replacements, "{uuid}", uuid.New().String())
	}

	return strings.NewReplacer(replacements...).Replace(format)
}

// =============================================================================
// OUTPUT FILE CREATION
// =============================================================================

// CreateOutputFile creates or truncates the output file.
// The parent directory must already exist.
func CreateOutputFile(filePath string) (*os.File, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
