// =============================================================================
// HelloAsso to Brevo Converter - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which reads an export through
// the full conversion pipeline without writing an output file. It is useful
// to check a new export before importing it into Brevo.
//
// COMMAND USAGE:
//   helloasso-to-brevo validate -i export.csv [--remove-expired]
//
// OUTPUT:
//   Export:          export.csv
//   Records read:    120
//   Records kept:    97
//   Expired records: 23
//   Malformed dates: 0
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/converter"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a HelloAsso export without writing any output",
	Long: `The validate command reads the export, checks that every required column
is present and that every row carries the mapped fields, and reports how
many records would be written to Brevo.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := prepareRun(cmd)
		if err != nil {
			return err
		}

		stats, err := checkFile(opts, logger)
		if err != nil {
			return err
		}

		printReport(cmd.OutOrStdout(), opts.Input, stats)
		return nil
	},
}

// printReport writes the run statistics of a validation.
func printReport(w io.Writer, input string, stats converter.Stats) {
	fmt.Fprintf(w, "Export:          %s\n", input)
	fmt.Fprintf(w, "Records read:    %d\n", stats.RowsRead)
	fmt.Fprintf(w, "Records kept:    %d\n", stats.RowsWritten)
	fmt.Fprintf(w, "Expired records: %d\n", stats.RowsExpired)
	fmt.Fprintf(w, "Malformed dates: %d\n", stats.MalformedDates)
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(
		&inputPath,
		"input",
		"i",
		"",
		"Input CSV file from HelloAsso",
	)
	validateCmd.MarkFlagRequired("input")

	validateCmd.Flags().BoolVar(
		&removeExpired,
		"remove-expired",
		false,
		"Count memberships older than 365 days as dropped",
	)
}
