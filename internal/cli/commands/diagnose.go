package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/statcsv/pkg/extract"
	"github.com/ccollicutt/statcsv/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose bool
	Samples int
}

// DiagnosticResult represents the result of a single diagnostic check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning"
	Message  string
	Details  []string
	Suggests []string
}

// Diagnosis collects what a scan of the input found.
type Diagnosis struct {
	LinesRead int
	Matched   int

	// Partial holds lines mentioning a marker that did not match.
	Partial      []string
	PartialCount int

	// Repeated holds matched lines where some marker occurs more than once.
	Repeated      []string
	RepeatedCount int

	// NonASCII holds matched lines whose values use digits outside 0-9.
	NonASCII      []string
	NonASCIICount int

	// SampleMatch is the first matched line, for verbose output.
	SampleMatch string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [file...]",
		Short: "Explain which input lines are extracted and which are skipped",
		Long: `Scan input the same way extraction does and report on it.

Reports:
  - How many lines were read and how many produce a row
  - Lines that mention Time=, Nodes= or Edges= but do not match
    (usually truncated or reformatted stats lines)
  - Matched lines where a marker repeats; the value is taken from
    the last usable occurrence of that marker
  - Matched lines whose values use decimal digits other than 0-9

Reads stdin when no files are given.

Exit codes:
  0 - Every line mentioning a marker was extracted cleanly
  1 - Suspect lines were found
  2 - Runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().IntVar(&opts.Samples, "samples", 5, "Maximum example lines shown per finding")

	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string, opts *DiagnoseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var source parser.LineSource
	if len(args) == 0 {
		source = parser.NewReaderSource(cmd.InOrStdin(), parser.StdinName)
	} else {
		files, err := parser.ExpandGlobs(args)
		if err != nil {
			return fmt.Errorf("expanding inputs: %w", err)
		}
		source = parser.NewFileSource(files)
	}
	defer source.Close()

	d, err := Diagnose(ctx, source, opts.Samples)
	if err != nil {
		return fmt.Errorf("diagnose failed: %w", err)
	}

	results := d.Results(opts)
	printDiagnostics(cmd.OutOrStdout(), results, opts)

	for _, r := range results {
		if r.Status != "ok" {
			ExitCode = 1
			break
		}
	}
	return nil
}

// Diagnose scans src to the end, keeping at most samples example lines
// per finding.
func Diagnose(ctx context.Context, src parser.LineSource, samples int) (*Diagnosis, error) {
	d := &Diagnosis{}
	for {
		line, err := src.Next(ctx)
		if err == io.EOF {
			return d, nil
		}
		if err != nil {
			return d, err
		}
		d.LinesRead++

		in := extract.Inspect(line.Content)
		where := fmt.Sprintf("%s:%d", line.Source, line.LineNum)

		switch {
		case in.Matched:
			d.Matched++
			if d.SampleMatch == "" {
				d.SampleMatch = where + ": " + truncate(line.Content, 80)
			}
			if rep := in.Repeated(); len(rep) > 0 {
				d.RepeatedCount++
				if len(d.Repeated) < samples {
					d.Repeated = append(d.Repeated, fmt.Sprintf("%s (%s): %s",
						where, strings.Join(rep, " "), truncate(line.Content, 80)))
				}
			}
			if in.NonASCIIDigits() {
				d.NonASCIICount++
				if len(d.NonASCII) < samples {
					d.NonASCII = append(d.NonASCII, fmt.Sprintf("%s (%s): %s",
						where, in.Row, truncate(line.Content, 80)))
				}
			}
		case in.Partial():
			d.PartialCount++
			if len(d.Partial) < samples {
				d.Partial = append(d.Partial, where+": "+truncate(line.Content, 80))
			}
		}
	}
}

// Results turns the scan into printable checks.
func (d *Diagnosis) Results(opts *DiagnoseOptions) []DiagnosticResult {
	results := []DiagnosticResult{}

	input := DiagnosticResult{Check: "Input"}
	switch {
	case d.LinesRead == 0:
		input.Status = "warning"
		input.Message = "Input is empty; only the header would be written"
	case d.Matched == 0:
		input.Status = "warning"
		input.Message = fmt.Sprintf("Read %d line(s), none produce a row", d.LinesRead)
		input.Suggests = []string{
			"Stats lines look like: Stats: Time=12 ms | Nodes=8 | Edges=19",
		}
	default:
		input.Status = "ok"
		input.Message = fmt.Sprintf("Read %d line(s), %d produce a row", d.LinesRead, d.Matched)
		if opts.Verbose {
			input.Details = []string{"Sample match: " + d.SampleMatch}
		}
	}
	results = append(results, input)

	partial := DiagnosticResult{Check: "Skipped Stats Lines"}
	if d.PartialCount > 0 {
		partial.Status = "warning"
		partial.Message = fmt.Sprintf("%d line(s) mention a marker but are skipped", d.PartialCount)
		partial.Details = d.Partial
		partial.Suggests = []string{
			"Time=, Nodes= and Edges= must all appear, in that order, each followed by digits",
		}
	} else {
		partial.Status = "ok"
		partial.Message = "No partially matching lines"
	}
	results = append(results, partial)

	repeated := DiagnosticResult{Check: "Repeated Markers"}
	if d.RepeatedCount > 0 {
		repeated.Status = "warning"
		repeated.Message = fmt.Sprintf("%d extracted line(s) repeat a marker", d.RepeatedCount)
		repeated.Details = d.Repeated
		repeated.Suggests = []string{
			"Values come from the last occurrence of a repeated marker; check these rows by hand",
		}
	} else {
		repeated.Status = "ok"
		repeated.Message = "No repeated markers"
	}
	results = append(results, repeated)

	digits := DiagnosticResult{Check: "Non-ASCII Digits"}
	if d.NonASCIICount > 0 {
		digits.Status = "warning"
		digits.Message = fmt.Sprintf("%d extracted line(s) use digits outside 0-9", d.NonASCIICount)
		digits.Details = d.NonASCII
		digits.Suggests = []string{
			"Values are copied verbatim; convert them before loading the CSV as numbers",
		}
	} else {
		digits.Status = "ok"
		digits.Message = "All extracted values use ASCII digits"
	}
	results = append(results, digits)

	return results
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== statcsv Input Diagnostics ===")
	fmt.Fprintln(w)

	okCount := 0
	warnCount := 0

	for _, r := range results {
		icon := "PASS"
		if r.Status == "ok" {
			okCount++
		} else {
			icon = "WARN"
			warnCount++
		}

		fmt.Fprintf(w, "[%s] %s\n", icon, r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)

		if opts.Verbose || r.Status != "ok" {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}

		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings\n", okCount, warnCount)
}

// truncate shortens s to at most maxLen runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
