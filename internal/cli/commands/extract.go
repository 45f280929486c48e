package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/statcsv/internal/logger"
	"github.com/ccollicutt/statcsv/pkg/config"
	"github.com/ccollicutt/statcsv/pkg/extract"
	"github.com/ccollicutt/statcsv/pkg/output"
	"github.com/ccollicutt/statcsv/pkg/parser"
)

// ExitCode is set by commands to indicate a non-error result.
var ExitCode = 0

// ExtractOptions holds command-line options for extraction.
type ExtractOptions struct {
	ConfigPath string
	Inputs     []string
	Output     string
	OutputFile string
	Table      string
	Verbose    bool
}

// BindExtractFlags registers the extraction flags on cmd.
// None are required: a bare invocation reads stdin and writes CSV to stdout.
func BindExtractFlags(cmd *cobra.Command, opts *ExtractOptions) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringSliceVarP(&opts.Inputs, "input", "i", nil, "Input file or glob instead of stdin (can be repeated)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "csv", "Output format (csv|json|table|sqlite)")
	cmd.Flags().StringVar(&opts.OutputFile, "output-file", "", "Write to this file instead of stdout (database path for sqlite)")
	cmd.Flags().StringVar(&opts.Table, "table", output.DefaultTable, "SQLite table name")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log progress to stderr")
}

// RunExtract runs one extraction pass as configured by opts.
func RunExtract(cmd *cobra.Command, opts *ExtractOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Verbose {
		logger.Configure(cmd.ErrOrStderr(), true)
	}

	cfg, err := resolveConfig(ctx, cmd, opts)
	if err != nil {
		return err
	}

	source, err := openSource(cmd, cfg)
	if err != nil {
		return err
	}
	defer source.Close()

	sink, dest, err := openSink(cmd, cfg)
	if err != nil {
		return err
	}

	logger.Debug("starting extraction",
		"format", sink.Name(),
		"inputs", len(cfg.Inputs),
		"destination", destinationName(cfg))

	stats, err := extract.Run(ctx, source, sink)
	if cerr := sink.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("writing %s output: %w", sink.Name(), cerr)
	}
	if dest != nil {
		if cerr := dest.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	logger.Info("extraction complete",
		"lines_read", stats.LinesRead,
		"rows_written", stats.RowsWritten,
		"duration", stats.Duration)

	return nil
}

// resolveConfig loads the config file, if any, and applies flag overrides.
// Flags win over the file; the file wins over defaults.
func resolveConfig(ctx context.Context, cmd *cobra.Command, opts *ExtractOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Inputs = opts.Inputs
	}
	if flags.Changed("output") {
		cfg.Output.Format = output.Format(opts.Output)
	}
	if flags.Changed("output-file") {
		cfg.Output.Path = opts.OutputFile
	}
	if flags.Changed("table") {
		cfg.Output.Table = opts.Table
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

// openSource returns stdin or the expanded input files as a LineSource.
func openSource(cmd *cobra.Command, cfg *config.Config) (parser.LineSource, error) {
	if cfg.UsesStdin() {
		return parser.NewReaderSource(cmd.InOrStdin(), parser.StdinName), nil
	}

	files, err := parser.ExpandGlobs(cfg.Inputs)
	if err != nil {
		return nil, fmt.Errorf("expanding inputs: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched patterns: %v", cfg.Inputs)
	}

	logger.Debug("reading input files", "files", files)
	return parser.NewFileSource(files), nil
}

// openSink builds the output sink. When the sink writes to a file opened
// here, that file is returned so the caller can close it after the sink.
func openSink(cmd *cobra.Command, cfg *config.Config) (extract.Sink, io.Closer, error) {
	if cfg.Output.Format == output.FormatSQLite {
		sink, err := output.New(cfg.Output.Format, nil, output.Options{
			Path:  cfg.Output.Path,
			Table: cfg.Output.Table,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite output: %w", err)
		}
		return sink, nil, nil
	}

	if cfg.Output.Path == "" {
		sink, err := output.New(cfg.Output.Format, cmd.OutOrStdout(), output.Options{})
		return sink, nil, err
	}

	f, err := os.Create(cfg.Output.Path) // #nosec G304 -- user-provided output path is expected
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	sink, err := output.New(cfg.Output.Format, f, output.Options{})
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return sink, f, nil
}

func destinationName(cfg *config.Config) string {
	if cfg.Output.Path == "" {
		return "stdout"
	}
	return cfg.Output.Path
}
