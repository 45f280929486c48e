// Package cli provides the command-line interface for statcsv.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/statcsv/internal/cli/commands"
	"github.com/ccollicutt/statcsv/internal/logger"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command. Run without a subcommand it
// extracts stats rows.
func NewRootCommand() *cobra.Command {
	opts := &commands.ExtractOptions{}

	rootCmd := &cobra.Command{
		Use:   "statcsv",
		Short: "Turn solver Stats log lines into CSV",
		Long: `statcsv reads log lines and extracts the Time, Nodes and Edges counters
from every line that carries all three, e.g.

  Stats: Time=12 ms | Nodes=8 | Edges=19 | Solution=True | TimePerEdge=1.5

With no arguments it reads stdin and writes CSV to stdout:

  Time,Nodes,Edges
  12,8,19

Lines without the three markers are skipped silently. Values are copied
verbatim; leading zeros are kept. Positional arguments are ignored; use
--input to read files.

Exit codes:
  0 - Success (including zero extracted rows)
  1 - diagnose found suspect lines
  2 - Configuration or I/O error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				logger.Warn("ignoring positional arguments; input is read from stdin unless --input is given",
					"args", args)
			}
			return commands.RunExtract(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	commands.BindExtractFlags(rootCmd, opts)

	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
