package commands

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/statcsv/pkg/parser"
)

const solverLog = `== Checking Sample Graph ==========================
Solution:
  {"0":1,"1":3}
Stats: Time=3 ms | Nodes=8 | Edges=19 | Solution=True | TimePerEdge=0.157
== Running successive graph sizes ======================
Stats: Time=0 ms | Nodes=2 | Edges=1 | Solution=True | TimePerEdge=0
Stats: Time=1042 ms | Nodes=3 | Edges=2 | Solution=True | TimePerEdge=521
`

// newExtractCommand builds a command wired the way the root command is.
func newExtractCommand() *cobra.Command {
	opts := &ExtractOptions{}
	cmd := &cobra.Command{
		Use:  "statcsv",
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunExtract(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	BindExtractFlags(cmd, opts)
	return cmd
}

func runExtractCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newExtractCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	// A nil slice makes cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestBindExtractFlags(t *testing.T) {
	cmd := newExtractCommand()

	flags := []string{"config", "input", "output", "output-file", "table", "verbose"}
	for _, flag := range flags {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag: %s", flag)
		}
	}
}

func TestRunExtract_Stdin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty input", "", "Time,Nodes,Edges\n"},
		{"one stats line", "INFO Time=120 Nodes=45 Edges=90 done\n", "Time,Nodes,Edges\n120,45,90\n"},
		{"no stats", "no stats here\n", "Time,Nodes,Edges\n"},
		{"match then garbage", "Time=1 Nodes=2 Edges=3\ngarbage", "Time,Nodes,Edges\n1,2,3\n"},
		{"leading zeros", "Time=007 Nodes=010 Edges=000\n", "Time,Nodes,Edges\n007,010,000\n"},
		{"solver output", solverLog, "Time,Nodes,Edges\n3,8,19\n0,2,1\n1042,3,2\n"},
		{"utf-8 text around markers", "Статистика: Time=12 мс | Nodes=8 | Edges=19 ✓\n", "Time,Nodes,Edges\n12,8,19\n"},
		{"non-ASCII digits", "Time=٣ Nodes=2 Edges=３\n", "Time,Nodes,Edges\n٣,2,３\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runExtractCmd(t, tt.input)
			if err != nil {
				t.Fatalf("RunExtract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunExtract_OwnOutputYieldsNoRows(t *testing.T) {
	first, err := runExtractCmd(t, solverLog)
	if err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	second, err := runExtractCmd(t, first)
	if err != nil {
		t.Fatalf("second pass error = %v", err)
	}
	if second != "Time,Nodes,Edges\n" {
		t.Errorf("second pass output = %q, want header only", second)
	}
}

func TestRunExtract_InputFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.log", "Time=1 Nodes=2 Edges=3\n")
	writeFile(t, dir, "b.log", "noise\nTime=4 Nodes=5 Edges=6\n")

	got, err := runExtractCmd(t, "Time=9 Nodes=9 Edges=9\n", "--input", filepath.Join(dir, "*.log"))
	if err != nil {
		t.Fatalf("RunExtract() error = %v", err)
	}
	// stdin is ignored once inputs are given
	want := "Time,Nodes,Edges\n1,2,3\n4,5,6\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunExtract_OutputFile(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "stats.csv")

	got, err := runExtractCmd(t, solverLog, "--output-file", outPath)
	if err != nil {
		t.Fatalf("RunExtract() error = %v", err)
	}
	if got != "" {
		t.Errorf("stdout = %q, want nothing", got)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Time,Nodes,Edges\n3,8,19\n0,2,1\n1042,3,2\n" {
		t.Errorf("file content = %q", data)
	}
}

func TestRunExtract_JSON(t *testing.T) {
	got, err := runExtractCmd(t, "Time=1 Nodes=2 Edges=3\n", "-o", "json")
	if err != nil {
		t.Fatalf("RunExtract() error = %v", err)
	}
	want := `{"time":"1","nodes":"2","edges":"3","source":"-","line":1}` + "\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunExtract_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stats.db")

	if _, err := runExtractCmd(t, solverLog, "-o", "sqlite", "--output-file", dbPath, "--table", "runs"); err != nil {
		t.Fatalf("RunExtract() error = %v", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("row count = %d, want 3", count)
	}
}

func TestRunExtract_ConfigWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "run.log", "Time=1 Nodes=2 Edges=3\n")
	configPath := writeFile(t, dir, "statcsv.yaml", "inputs:\n  - "+input+"\noutput:\n  format: json\n")

	got, err := runExtractCmd(t, "", "--config", configPath, "-o", "csv")
	if err != nil {
		t.Fatalf("RunExtract() error = %v", err)
	}
	if got != "Time,Nodes,Edges\n1,2,3\n" {
		t.Errorf("output = %q, want CSV from config inputs", got)
	}
}

func TestRunExtract_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"-o", "xml"}},
		{"sqlite without path", []string{"-o", "sqlite"}},
		{"missing input file", []string{"--input", "/nonexistent/run.log"}},
		{"missing config", []string{"--config", "/nonexistent/statcsv.yaml"}},
		{"positional argument", []string{"run.log"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runExtractCmd(t, "", tt.args...); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRunExtract_WriteFailure(t *testing.T) {
	cmd := newExtractCommand()
	cmd.SetIn(strings.NewReader("Time=1 Nodes=2 Edges=3\n"))
	cmd.SetOut(failingWriter{})
	cmd.SetArgs([]string{})

	err := cmd.ExecuteContext(context.Background())
	if err == nil || !strings.Contains(err.Error(), "broken pipe") {
		t.Errorf("error = %v, want broken pipe", err)
	}
}

func TestDiagnose(t *testing.T) {
	input := solverLog +
		"Stats: Time=12 ms | Nodes=8\n" +
		"Time=1 Time=2 Nodes=3 Edges=4\n"
	src := parser.NewReaderSource(strings.NewReader(input), parser.StdinName)

	d, err := Diagnose(context.Background(), src, 5)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}

	if d.LinesRead != 9 {
		t.Errorf("LinesRead = %d, want 9", d.LinesRead)
	}
	if d.Matched != 4 {
		t.Errorf("Matched = %d, want 4", d.Matched)
	}
	if d.PartialCount != 1 || !strings.HasPrefix(d.Partial[0], "-:8: ") {
		t.Errorf("Partial = %v, want line 8", d.Partial)
	}
	if d.RepeatedCount != 1 || !strings.Contains(d.Repeated[0], "(Time=)") {
		t.Errorf("Repeated = %v, want one Time= repeat", d.Repeated)
	}
}

func TestDiagnose_SampleLimit(t *testing.T) {
	input := strings.Repeat("Time=1 Nodes=2\n", 10)
	src := parser.NewReaderSource(strings.NewReader(input), parser.StdinName)

	d, err := Diagnose(context.Background(), src, 3)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if d.PartialCount != 10 || len(d.Partial) != 3 {
		t.Errorf("PartialCount = %d, samples = %d; want 10, 3", d.PartialCount, len(d.Partial))
	}
}

func TestDiagnose_NonASCIIDigits(t *testing.T) {
	input := "Stats: Time=٣ ms | Nodes=2 | Edges=３\nStats: Time=1 ms | Nodes=2 | Edges=3\n"
	src := parser.NewReaderSource(strings.NewReader(input), parser.StdinName)

	d, err := Diagnose(context.Background(), src, 5)
	if err != nil {
		t.Fatalf("Diagnose() error = %v", err)
	}
	if d.Matched != 2 {
		t.Errorf("Matched = %d, want 2", d.Matched)
	}
	if d.NonASCIICount != 1 || !strings.HasPrefix(d.NonASCII[0], "-:1 (٣,2,３): ") {
		t.Errorf("NonASCII = %v, want line 1", d.NonASCII)
	}

	var out bytes.Buffer
	printDiagnostics(&out, d.Results(&DiagnoseOptions{}), &DiagnoseOptions{})
	if !strings.Contains(out.String(), "[WARN] Non-ASCII Digits") {
		t.Errorf("expected non-ASCII warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Summary: 3 passed, 1 warnings") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short ascii", "Time=1", 10, "Time=1"},
		{"long ascii", "abcdefghij", 8, "abcde..."},
		{"multibyte fits", "Время=1", 7, "Время=1"},
		{"multibyte cut on rune", "ВремяВремя", 8, "Время..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.in, tt.max, got)
			}
		})
	}
}

func TestRunDiagnose_Clean(t *testing.T) {
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(solverLog))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("diagnose error = %v", err)
	}
	if ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", ExitCode)
	}
	if !strings.Contains(out.String(), "Summary: 4 passed, 0 warnings") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestRunDiagnose_SuspectLines(t *testing.T) {
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })

	logPath := writeFile(t, t.TempDir(), "run.log", "Stats: Time=12 ms | Nodes=8\n")

	cmd := NewDiagnoseCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{logPath})

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("diagnose error = %v", err)
	}
	if ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", ExitCode)
	}
	if !strings.Contains(out.String(), logPath+":1: Stats: Time=12 ms | Nodes=8") {
		t.Errorf("expected skipped line in output:\n%s", out.String())
	}
}

func TestRunDiagnose_MissingFile(t *testing.T) {
	cmd := NewDiagnoseCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/run.log"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	if cmd.Use != "validate <config-file>" {
		t.Errorf("Unexpected Use: %s", cmd.Use)
	}
	if !strings.Contains(cmd.Long, "Validate") {
		t.Error("Missing description in Long")
	}
}

func TestRunValidate_Success(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "run.log", "Time=1 Nodes=2 Edges=3\n")
	configPath := writeFile(t, dir, "statcsv.yaml", `inputs:
  - `+logPath+`
  - `+filepath.Join(dir, "later.log")+`
output:
  format: table
`)

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Configuration valid!", "Output format: table", "- " + logPath, "Warning: No file matches"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "invalid.yaml", "output:\n  format: sqlite\n")

	cmd := NewValidateCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{configPath})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for sqlite output without path")
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	cmd := NewValidateCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"/nonexistent/config.yaml"})

	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}
	if buf.String() != "statcsv dev\n" {
		t.Errorf("output = %q", buf.String())
	}
}
