// =============================================================================
// HelloAsso to Brevo Converter - Conversion Orchestration
// =============================================================================
//
// This file wires the pieces of one run together for the root and validate
// commands.
//
// PROCESSING PIPELINE:
//   1. Load the optional YAML defaults and merge the explicit flags over them
//   2. Set up the run logger
//   3. Open the input export (.csv or .xlsx)
//   4. Create the output file
//   5. Stream every record through the converter into the Brevo writer
//   6. Close both files on every path
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/ginjaninja78/helloasso-to-brevo/internal/config"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/converter"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/csvparser"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/csvwriter"
	"github.com/ginjaninja78/helloasso-to-brevo/internal/xlsxparser"
	"github.com/ginjaninja78/helloasso-to-brevo/pkg/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// RUN OPTIONS
// =============================================================================

// runOptions are the effective settings of one run.
type runOptions struct {
	Input         string
	Output        string
	RemoveExpired bool
	Sheet         string
	LogLevel      string
	Verbose       bool
}

// prepareRun resolves the options of the running command and builds its logger.
func prepareRun(cmd *cobra.Command) (runOptions, *logrus.Entry, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return runOptions{}, nil, err
	}

	flags := runOptions{
		Input:         inputPath,
		Output:        outputPath,
		RemoveExpired: removeExpired,
		Verbose:       verbose,
	}
	opts := mergeOptions(cfg, flags, cmd.Flags().Changed)

	logger, err := newLogger(opts.LogLevel, opts.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return runOptions{}, nil, err
	}

	if cfgFile != "" {
		logger.Debugf("loaded defaults from %s", cfgFile)
	}

	return opts, logger, nil
}

// mergeOptions applies the flags that were set explicitly over the
// configuration defaults.
func mergeOptions(cfg *config.Config, flags runOptions, changed func(name string) bool) runOptions {
	opts := runOptions{
		Input:         flags.Input,
		Output:        cfg.Output,
		RemoveExpired: cfg.RemoveExpired,
		Sheet:         cfg.Sheet,
		LogLevel:      cfg.LogLevel,
		Verbose:       flags.Verbose,
	}

	if changed("output") {
		opts.Output = flags.Output
	}
	if changed("remove-expired") {
		opts.RemoveExpired = flags.RemoveExpired
	}

	return opts
}

// =============================================================================
// LOGGING
// =============================================================================

// newLogger creates the logger of one run. Every entry carries a run ID.
func newLogger(level string, verbose bool, out io.Writer) (*logrus.Entry, error) {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		lvl = logrus.DebugLevel
	}
	log.SetLevel(lvl)

	return log.WithField("run", uuid.New().String()), nil
}

// =============================================================================
// INPUT SOURCES
// =============================================================================

// source is a converter.Source backed by an open file.
type source interface {
	converter.Source
	Close() error
}

// openSource opens the export with the parser matching its extension.
func openSource(filePath, sheet string, logger *logrus.Entry) (source, error) {
	if !utils.FileExists(filePath) {
		return nil, fmt.Errorf("input file not found: %s", filePath)
	}

	switch utils.DetectInputFormat(filePath) {
	case utils.FormatXLSX:
		parser, err := xlsxparser.Open(filePath, sheet, converter.SourceOrderDate)
		if err != nil {
			return nil, err
		}
		logger.Debugf("reading sheet '%s' of %s", parser.Sheet(), filePath)
		return parser, nil
	default:
		logger.Debugf("reading %s", filePath)
		return csvparser.Open(filePath)
	}
}

// =============================================================================
// CONVERSION
// =============================================================================

// convertFile converts the input export into the output file and returns
// the path actually written.
func convertFile(opts runOptions, logger *logrus.Entry) (output string, stats converter.Stats, err error) {
	startTime := time.Now()

	src, err := openSource(opts.Input, opts.Sheet, logger)
	if err != nil {
		return "", stats, err
	}
	defer src.Close()

	output = utils.ExpandOutputPath(opts.Output, startTime)
	file, err := utils.CreateOutputFile(output)
	if err != nil {
		return "", stats, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", closeErr)
		}
	}()

	logger.Debugf("writing %s (remove expired: %t)", output, opts.RemoveExpired)

	conv := converter.New(converter.Options{RemoveExpired: opts.RemoveExpired}, logger)
	writer := csvwriter.New(file)
	stats, err = conv.Convert(src, writer)
	if err != nil {
		return output, stats, err
	}

	logger.Infof("wrote %d records to %s in %s", writer.Records(), output, time.Since(startTime).Round(time.Millisecond))
	return output, stats, nil
}

// checkFile streams the input export through the converter without writing
// anything.
func checkFile(opts runOptions, logger *logrus.Entry) (converter.Stats, error) {
	src, err := openSource(opts.Input, opts.Sheet, logger)
	if err != nil {
		return converter.Stats{}, err
	}
	defer src.Close()

	conv := converter.New(converter.Options{RemoveExpired: opts.RemoveExpired}, logger)
	return conv.Convert(src, csvwriter.New(io.Discard))
}
