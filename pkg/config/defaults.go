package config

import "github.com/ccollicutt/statcsv/pkg/output"

// DefaultConfig returns the configuration of a bare invocation:
// stdin to CSV on stdout.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: output.FormatCSV,
			Table:  output.DefaultTable,
		},
	}
}
