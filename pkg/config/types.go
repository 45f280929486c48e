// Package config provides configuration loading and validation for statcsv.
package config

import "github.com/ccollicutt/statcsv/pkg/output"

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Inputs lists files or glob patterns to read. Empty means stdin.
	Inputs []string `yaml:"inputs,omitempty"`

	Output OutputConfig `yaml:"output"`
}

// OutputConfig selects where and how extracted rows are written.
type OutputConfig struct {
	// Format is one of csv, json, table, sqlite.
	Format output.Format `yaml:"format"`

	// Path is the destination file. Empty means stdout for stream
	// formats; required for sqlite, where it names the database.
	Path string `yaml:"path,omitempty"`

	// Table is the SQLite table name.
	Table string `yaml:"table,omitempty"`
}

// UsesStdin reports whether input comes from standard input.
func (c *Config) UsesStdin() bool {
	return len(c.Inputs) == 0
}
