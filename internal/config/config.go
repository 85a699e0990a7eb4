// Package config provides configuration loading and validation for the report tool.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/lamim/fd-report/internal/labels"
	"github.com/lamim/fd-report/internal/output"
	"github.com/lamim/fd-report/internal/report"
)

// Config represents the main configuration structure
type Config struct {
	General    GeneralConfig  `toml:"general"`
	Plot       PlotConfig     `toml:"plot"`
	Labels     labels.Table   `toml:"labels"`
	PlotLabels labels.Table   `toml:"plot_labels"`
	Headers    report.Headers `toml:"headers"`
}

// GeneralConfig contains input and output locations
type GeneralConfig struct {
	DataDir    string `toml:"data_dir"`
	ReportDir  string `toml:"report_dir"`
	ReportFile string `toml:"report_file"`
	PlotDir    string `toml:"plot_dir"`
	// Strict turns undecodable data file names into a fatal error.
	Strict bool `toml:"strict"`
}

// PlotConfig controls figure geometry
type PlotConfig struct {
	WidthIn  float64 `toml:"width_in"`
	HeightIn float64 `toml:"height_in"`
	DPI      int     `toml:"dpi"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.General.DataDir == "" {
		c.General.DataDir = "data/ch2_2"
	}
	if c.General.ReportDir == "" {
		c.General.ReportDir = "reports/ch2_2/figures"
	}
	if c.General.ReportFile == "" {
		c.General.ReportFile = "fd_tables.tex"
	}
	if c.General.PlotDir == "" {
		c.General.PlotDir = "plots/ch2_2"
	}
	if c.Plot.WidthIn == 0 {
		c.Plot.WidthIn = 8
	}
	if c.Plot.HeightIn == 0 {
		c.Plot.HeightIn = 5
	}
	if c.Plot.DPI == 0 {
		c.Plot.DPI = 150
	}

	// File entries are applied on top of the built-in tables.
	c.Labels = labels.DefaultTypeset().Merge(c.Labels)
	c.PlotLabels = labels.DefaultPlain().Merge(c.PlotLabels)
	c.Headers = report.DefaultHeaders().Merge(c.Headers)
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Plot.WidthIn < 0 || c.Plot.HeightIn < 0 {
		return fmt.Errorf("plot dimensions must be > 0, got %gx%g", c.Plot.WidthIn, c.Plot.HeightIn)
	}
	if c.Plot.DPI < 0 {
		return fmt.Errorf("plot dpi must be > 0, got %d", c.Plot.DPI)
	}
	if strings.ContainsAny(c.General.ReportFile, `/\`) {
		return fmt.Errorf("report_file must be a file name, got %q", c.General.ReportFile)
	}
	if filepath.Ext(c.General.ReportFile) == "" {
		return fmt.Errorf("report_file needs an extension, got %q", c.General.ReportFile)
	}
	for slug := range c.Labels.Cases {
		if strings.TrimSpace(slug) == "" {
			return fmt.Errorf("labels.cases contains an empty slug")
		}
	}
	for slug := range c.Labels.Methods {
		if strings.TrimSpace(slug) == "" {
			return fmt.Errorf("labels.methods contains an empty slug")
		}
	}
	return nil
}

// validatePath checks for path traversal attempts
func validatePath(path string) error {
	// Clean the path
	cleanPath := filepath.Clean(path)

	// Check for path traversal sequences that go above current directory
	if strings.HasPrefix(cleanPath, "..") || strings.Contains(cleanPath, "../") {
		return fmt.Errorf("path contains invalid traversal sequence: %s", path)
	}

	return nil
}

// Load reads and parses the TOML configuration file
func Load(path string) (*Config, error) {
	// Validate path for security
	if err := validatePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	// #nosec G304 - Path validated above, this is intentional file inclusion
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Empty values take their defaults before validation.
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not
// exist and required is false.
func LoadOrDefault(path string, required bool) (*Config, error) {
	if !required {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Default(), nil
		}
	}
	return Load(path)
}

// Save writes the configuration to a TOML file. The file is replaced
// atomically so a failed write keeps the previous version.
func (c *Config) Save(path string) error {
	// Validate path for security
	if err := validatePath(path); err != nil {
		return fmt.Errorf("invalid config path: %w", err)
	}

	if err := output.WriteWith(path, func(w io.Writer) error {
		return toml.NewEncoder(w).Encode(c)
	}); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
