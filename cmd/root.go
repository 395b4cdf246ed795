// =============================================================================
// HelloAsso to Brevo Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Unlike most Cobra
// applications the root command does real work: called with -i it converts
// a HelloAsso export into a Brevo contact import file.
//
// COBRA CLI STRUCTURE:
//   rootCmd (helloasso-to-brevo)   converts an export
//   ├── validateCmd                reports on an export without writing
//   └── versionCmd                 prints version information
//
// OUTPUT:
//   A run prints exactly one line on stdout:
//     Conversion completed successfully. Output written to <path>
//     Error during conversion: <description>
//   and exits with status 1 on failure.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/config"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the optional YAML defaults file.
var cfgFile string

// verbose enables debug logging on stderr.
var verbose bool

// inputPath is the HelloAsso export to read.
var inputPath string

// outputPath is the Brevo file to write.
var outputPath string

// removeExpired drops members whose adhesion is more than 365 days old.
var removeExpired bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

var rootCmd = &cobra.Command{
	Use:   "helloasso-to-brevo",
	Short: "Convert HelloAsso CSV to Brevo format",
	Long: `HelloAsso to Brevo Converter reads a HelloAsso membership export
(semicolon-separated CSV or .xlsx) and writes a Brevo contact import file
with the columns EMAIL, PRENOM, NOM and DATE_ADHESION.

Records are streamed one at a time, so exports of any size can be converted.

Example Usage:
  helloasso-to-brevo -i export.csv
  helloasso-to-brevo -i export.csv -o brevo.csv --remove-expired
  helloasso-to-brevo -i export.xlsx --config brevo.yaml`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		opts, logger, err := prepareRun(cmd)
		if err != nil {
			return err
		}

		output, _, err := convertFile(opts, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Conversion completed successfully. Output written to %s\n", output)
		return nil
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command on the process arguments. It is called
// once by main.main().
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run executes the command line args, writes the status line to out and
// returns the process exit code.
func run(args []string, out io.Writer) int {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(out, "Error during conversion: %v\n", err)
		return 1
	}
	return 0
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// Errors, flag errors included, are reported once, by run, as a single
	// status line.
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to a YAML file with default option values",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	// ==========================================================================
	// CONVERSION FLAGS
	// ==========================================================================

	rootCmd.Flags().StringVarP(
		&inputPath,
		"input",
		"i",
		"",
		"Input CSV file from HelloAsso",
	)
	rootCmd.MarkFlagRequired("input")

	rootCmd.Flags().StringVarP(
		&outputPath,
		"output",
		"o",
		config.DefaultOutput,
		"Output CSV file for Brevo",
	)

	rootCmd.Flags().BoolVar(
		&removeExpired,
		"remove-expired",
		false,
		"Remove memberships older than 365 days",
	)
}
