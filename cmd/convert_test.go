package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/config"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/csvparser"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/validation"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const exportCSV = "Email payeur;Prénom adhérent;Nom adhérent;Date de la commande\n" +
	"a@x.com;Ana;Lee;01/01/2020 10:00:00\n" +
	" b@x.com ; Bob ;Ray;15/06/2019\n"

const brevoCSV = "EMAIL,PRENOM,NOM,DATE_ADHESION\r\n" +
	"a@x.com,Ana,Lee,01/01/2020\r\n" +
	"b@x.com,Bob,Ray,15/06/2019\r\n"

func quietLogger(t *testing.T) *logrus.Entry {
	t.Helper()
	logger, err := newLogger("warn", false, io.Discard)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	return logger
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestConvertFileCSV(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "export.csv", exportCSV)
	output := filepath.Join(dir, "brevo.csv")

	written, stats, err := convertFile(runOptions{Input: input, Output: output}, quietLogger(t))
	if err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}
	if written != output {
		t.Errorf("output path = %q, want %q", written, output)
	}
	if stats.RowsWritten != 2 {
		t.Errorf("RowsWritten = %d, want 2", stats.RowsWritten)
	}
	if got := readFile(t, output); got != brevoCSV {
		t.Errorf("output =\n%q\nwant\n%q", got, brevoCSV)
	}
}

func TestConvertFileRemoveExpired(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "export.csv", exportCSV)
	output := filepath.Join(dir, "brevo.csv")

	_, stats, err := convertFile(runOptions{Input: input, Output: output, RemoveExpired: true}, quietLogger(t))
	if err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}
	if stats.RowsWritten != 0 || stats.RowsExpired != 2 {
		t.Errorf("stats = %+v, want both rows expired", stats)
	}
	if got := readFile(t, output); got != "EMAIL,PRENOM,NOM,DATE_ADHESION\r\n" {
		t.Errorf("output = %q, want header only", got)
	}
}

func TestConvertFileXLSXMatchesCSV(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Email payeur", "Prénom adhérent", "Nom adhérent", "Date de la commande"},
		{"a@x.com", "Ana", "Lee", "01/01/2020 10:00:00"},
		{" b@x.com ", " Bob ", "Ray", "15/06/2019"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	input := filepath.Join(dir, "export.xlsx")
	if err := f.SaveAs(input); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	output := filepath.Join(dir, "brevo.csv")
	if _, _, err := convertFile(runOptions{Input: input, Output: output}, quietLogger(t)); err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}
	if got := readFile(t, output); got != brevoCSV {
		t.Errorf("output =\n%q\nwant\n%q", got, brevoCSV)
	}
}

func TestConvertFileReadsAnyExtensionAsCSV(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"export.dat", "adherents.2024", "export.tsv", "export"} {
		t.Run(name, func(t *testing.T) {
			input := writeFile(t, dir, name, exportCSV)
			output := filepath.Join(dir, name+".brevo.csv")

			if _, _, err := convertFile(runOptions{Input: input, Output: output}, quietLogger(t)); err != nil {
				t.Fatalf("convertFile() error = %v", err)
			}
			if got := readFile(t, output); got != brevoCSV {
				t.Errorf("output =\n%q\nwant\n%q", got, brevoCSV)
			}
		})
	}
}

// A zero-byte export has no header row to map, so the run fails before the
// output file is created.
func TestConvertFileEmptyInputIsFatal(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "empty.csv", "")
	output := filepath.Join(dir, "brevo.csv")

	_, _, err := convertFile(runOptions{Input: input, Output: output}, quietLogger(t))
	if !errors.Is(err, csvparser.ErrNoHeader) {
		t.Fatalf("error = %v, want csvparser.ErrNoHeader", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Errorf("output file was created for an empty export")
	}
}

func TestConvertFileXLSXDateCells(t *testing.T) {
	dir := t.TempDir()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Email payeur", "Prénom adhérent", "Nom adhérent", "Date de la commande"},
		{"a@x.com", "Ana", "Lee", time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	input := filepath.Join(dir, "export.xlsx")
	if err := f.SaveAs(input); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	f.Close()

	output := filepath.Join(dir, "brevo.csv")
	if _, _, err := convertFile(runOptions{Input: input, Output: output}, quietLogger(t)); err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}

	want := "EMAIL,PRENOM,NOM,DATE_ADHESION\r\na@x.com,Ana,Lee,01/01/2020\r\n"
	if got := readFile(t, output); got != want {
		t.Errorf("output =\n%q\nwant\n%q", got, want)
	}
}

func TestConvertFileExpandsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "export.csv", exportCSV)

	written, _, err := convertFile(runOptions{
		Input:  input,
		Output: filepath.Join(dir, "brevo_{date}.csv"),
	}, quietLogger(t))
	if err != nil {
		t.Fatalf("convertFile() error = %v", err)
	}
	if strings.Contains(written, "{date}") {
		t.Errorf("placeholder not expanded in %q", written)
	}
	if readFile(t, written) != brevoCSV {
		t.Errorf("unexpected content in %s", written)
	}
}

func TestConvertFileErrors(t *testing.T) {
	dir := t.TempDir()
	valid := writeFile(t, dir, "export.csv", exportCSV)

	tests := []struct {
		name   string
		opts   runOptions
		target interface{}
	}{
		{
			name: "missing input",
			opts: runOptions{Input: filepath.Join(dir, "missing.csv"), Output: filepath.Join(dir, "a.csv")},
		},
		{
			name: "output directory missing",
			opts: runOptions{Input: valid, Output: filepath.Join(dir, "nope", "c.csv")},
		},
		{
			name:   "missing column",
			opts:   runOptions{Input: writeFile(t, dir, "nomail.csv", "Prénom adhérent;Nom adhérent;Date de la commande\n"), Output: filepath.Join(dir, "d.csv")},
			target: new(*validation.MissingColumnsError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := convertFile(tt.opts, quietLogger(t))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.target != nil && !errors.As(err, tt.target) {
				t.Errorf("error = %v, want %T", err, tt.target)
			}
		})
	}
}

func TestCheckFileWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "export.csv", exportCSV)

	stats, err := checkFile(runOptions{Input: input, RemoveExpired: true}, quietLogger(t))
	if err != nil {
		t.Fatalf("checkFile() error = %v", err)
	}
	if stats.RowsRead != 2 || stats.RowsExpired != 2 {
		t.Errorf("stats = %+v", stats)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("validate created files: %v", entries)
	}

	var report bytes.Buffer
	printReport(&report, input, stats)
	if !strings.Contains(report.String(), "Records read:    2") {
		t.Errorf("report = %q", report.String())
	}
}

func TestMergeOptions(t *testing.T) {
	cfg := &config.Config{Output: "from_config.csv", RemoveExpired: true, Sheet: "Adhérents", LogLevel: "info"}
	flags := runOptions{Input: "export.csv", Output: config.DefaultOutput, RemoveExpired: false}

	tests := []struct {
		name          string
		changed       []string
		wantOutput    string
		wantRemoveExp bool
	}{
		{name: "config fills unset flags", wantOutput: "from_config.csv", wantRemoveExp: true},
		{name: "explicit output wins", changed: []string{"output"}, wantOutput: config.DefaultOutput, wantRemoveExp: true},
		{name: "explicit remove-expired wins", changed: []string{"remove-expired"}, wantOutput: "from_config.csv", wantRemoveExp: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed := func(name string) bool {
				for _, c := range tt.changed {
					if c == name {
						return true
					}
				}
				return false
			}

			opts := mergeOptions(cfg, flags, changed)
			if opts.Output != tt.wantOutput || opts.RemoveExpired != tt.wantRemoveExp {
				t.Errorf("got output=%q removeExpired=%t", opts.Output, opts.RemoveExpired)
			}
			if opts.Input != "export.csv" || opts.Sheet != "Adhérents" || opts.LogLevel != "info" {
				t.Errorf("unexpected options %+v", opts)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := newLogger("warn", false, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Infof("hidden")
	if buf.Len() != 0 {
		t.Errorf("info message logged at warn level: %q", buf.String())
	}

	logger, err = newLogger("warn", true, &buf)
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	logger.Debugf("shown")
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "run=") {
		t.Errorf("verbose log = %q, want message with run field", buf.String())
	}

	if _, err := newLogger("loud", false, &buf); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
