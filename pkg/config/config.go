package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/statcsv/pkg/output"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty file decodes to io.EOF and leaves the defaults in place.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors and fills in defaults.
func Validate(cfg *Config) error {
	if err := validateOutput(&cfg.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	for i, in := range cfg.Inputs {
		if in == "" {
			return fmt.Errorf("inputs[%d]: empty path", i)
		}
	}

	return nil
}

func validateOutput(out *OutputConfig) error {
	if out.Format == "" {
		out.Format = output.FormatCSV
	}
	format, err := output.ParseFormat(string(out.Format))
	if err != nil {
		return err
	}
	out.Format = format

	if out.Table == "" {
		out.Table = output.DefaultTable
	}

	if format == output.FormatSQLite {
		if out.Path == "" {
			return errors.New("path is required for sqlite output (database file)")
		}
		if !output.ValidTableName(out.Table) {
			return fmt.Errorf("invalid table name %q (letters, digits and underscores only)", out.Table)
		}
	}

	return nil
}
