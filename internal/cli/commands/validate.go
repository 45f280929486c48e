package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/statcsv/pkg/config"
	"github.com/ccollicutt/statcsv/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a statcsv configuration file without extracting anything.

Checks:
  - YAML syntax and unknown keys
  - Output format and its required settings
  - Input file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	w := cmd.OutOrStdout()

	fmt.Fprintf(w, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Output format: %s\n", cfg.Output.Format)
	if cfg.Output.Path != "" {
		fmt.Fprintf(w, "  Output path:   %s\n", cfg.Output.Path)
	}

	if cfg.UsesStdin() {
		fmt.Fprintf(w, "  Inputs:        stdin\n")
		return nil
	}
	fmt.Fprintf(w, "  Inputs:        %d pattern(s)\n", len(cfg.Inputs))

	// Input existence is only a warning; files may be produced later.
	files, err := parser.ExpandGlobs(cfg.Inputs)
	if err != nil {
		fmt.Fprintf(w, "\nWarning: Error expanding input patterns: %v\n", err)
		return nil
	}

	var missing []string
	fmt.Fprintf(w, "\nInput files:\n")
	for _, f := range files {
		if fileExists(f) {
			fmt.Fprintf(w, "  - %s\n", f)
		} else {
			missing = append(missing, f)
		}
	}
	for _, f := range missing {
		fmt.Fprintf(w, "\nWarning: No file matches %s\n", f)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
