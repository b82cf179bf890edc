// Package config provides configuration management for the toyquery CLI.
package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vegasq/toyquery/internal/dataset"
	"github.com/vegasq/toyquery/internal/logging"
	"github.com/vegasq/toyquery/internal/output"
)

// Default values for configuration
const (
	DefaultDataDir  = "data"
	DefaultSource   = string(dataset.SourceAuto)
	DefaultFormat   = output.FormatCSV
	DefaultLogLevel = "warn"
)

// Config holds all CLI configuration options.
type Config struct {
	DataDir     string `koanf:"data_dir"`
	Source      string `koanf:"source"`
	Format      string `koanf:"format"`
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
	LogLevel    string `koanf:"log_level"`
	Color       bool   `koanf:"color"`
}

// Validate rejects unknown source, format and log level values
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if _, err := dataset.ParseSource(c.Source); err != nil {
		return err
	}
	if !slices.Contains(output.Formats, strings.ToLower(c.Format)) {
		return fmt.Errorf("unsupported format %q (want one of %s)", c.Format, strings.Join(output.Formats, ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DatasetSource returns the parsed source setting
func (c *Config) DatasetSource() dataset.Source {
	src, err := dataset.ParseSource(c.Source)
	if err != nil {
		return dataset.SourceAuto
	}
	return src
}
