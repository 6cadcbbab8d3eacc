package yast

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTickers is the weekly-distribution ETF universe the strategy notes
// track. A config file or YAST_TICKERS replaces it wholesale.
var DefaultTickers = []string{
	"ULTY", "YMAX", "YMAG", "QDTE", "XDTE", "RDTE", "CHPY", "GPTY",
	"IWMY", "AAPW", "NVDW", "TSLW", "PLTW", "HOOW", "COIW", "METW", "BRKW",
}

// Config gathers everything a run needs: the ticker list, the analysis knobs,
// the screening thresholds, and where files live. It replaces what used to be
// scattered module-level constants, so a run is fully described by one value.
type Config struct {
	Tickers          []string      `yaml:"tickers"`
	ReturnThreshold  float64       `yaml:"return_threshold"`
	RiskThreshold    float64       `yaml:"risk_threshold"`
	CaptureWindow    CaptureWindow `yaml:"capture_window"`
	ForwardDividends int           `yaml:"forward_dividends"`
	AnnualPayouts    int           `yaml:"annual_payouts"`
	RiskFreeRate     float64       `yaml:"risk_free_rate"`
	InitialCapital   float64       `yaml:"initial_capital"`
	WindowDays       int           `yaml:"window_days"` // calendar days of history to fetch
	Workers          int           `yaml:"workers"`     // parallel fetches, 1 means sequential
	DataDir          string        `yaml:"data_dir"`
	OutputDir        string        `yaml:"output_dir"`
	APIKey           string        `yaml:"api_key"`
}

// LoadConfig reads the YAML file at path (a missing file is fine, it just
// means all defaults), applies environment overrides, then defaults.
// EODHD_API_KEY, YAST_TICKERS, YAST_DATA_DIR and YAST_OUTPUT_DIR override the
// file; flags on individual commands override both.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// environment overrides
	if v := os.Getenv("EODHD_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("YAST_TICKERS"); v != "" {
		cfg.Tickers = strings.Split(v, ",")
	}
	if v := os.Getenv("YAST_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("YAST_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}

	// defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = DefaultTickers
	}
	if cfg.ReturnThreshold == 0 {
		cfg.ReturnThreshold = 0.40
	}
	if cfg.RiskThreshold == 0 {
		cfg.RiskThreshold = 0.40
	}
	if cfg.CaptureWindow == (CaptureWindow{}) {
		cfg.CaptureWindow = DefaultCaptureWindow
	}
	if cfg.ForwardDividends == 0 {
		cfg.ForwardDividends = 3
	}
	if cfg.AnnualPayouts == 0 {
		cfg.AnnualPayouts = 52
	}
	if cfg.RiskFreeRate == 0 {
		cfg.RiskFreeRate = 0.04
	}
	if cfg.InitialCapital == 0 {
		cfg.InitialCapital = 10_000
	}
	if cfg.WindowDays == 0 {
		cfg.WindowDays = 180
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	cfg.Tickers = NormalizeTickers(cfg.Tickers)
	return cfg, nil
}

// Validate checks the config is usable before a run starts.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("tickers list is empty")
	}
	for _, ticker := range c.Tickers {
		if err := ValidateTicker(ticker); err != nil {
			return err
		}
	}
	if math.IsNaN(c.ReturnThreshold) || math.IsInf(c.ReturnThreshold, 0) {
		return fmt.Errorf("return_threshold must be finite")
	}
	if math.IsNaN(c.RiskThreshold) || math.IsInf(c.RiskThreshold, 0) || c.RiskThreshold < 0 {
		return fmt.Errorf("risk_threshold must be finite and non-negative")
	}
	if err := c.CaptureWindow.Validate(); err != nil {
		return err
	}
	if c.ForwardDividends < 1 {
		return fmt.Errorf("forward_dividends must be at least 1")
	}
	if c.AnnualPayouts < 1 {
		return fmt.Errorf("annual_payouts must be at least 1")
	}
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial_capital must be positive")
	}
	if c.WindowDays < 10 {
		return fmt.Errorf("window_days %d is too short to backtest", c.WindowDays)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}

// Params returns the analysis parameters this config describes.
func (c *Config) Params() Params {
	return Params{
		Window:           c.CaptureWindow,
		ForwardDividends: c.ForwardDividends,
		AnnualPayouts:    c.AnnualPayouts,
		RiskFreeRate:     c.RiskFreeRate,
		InitialCapital:   c.InitialCapital,
	}
}

// Thresholds returns the screening thresholds this config describes.
func (c *Config) Thresholds() Thresholds {
	return Thresholds{Return: c.ReturnThreshold, Risk: c.RiskThreshold}
}

// FetchRange returns the historical window to request, ending today.
func (c *Config) FetchRange(today Date) Range {
	return LastDays(today, c.WindowDays)
}

// OutputJSON returns the path of the JSON report the dashboard consumes.
func (c *Config) OutputJSON() string { return filepath.Join(c.OutputDir, "analysis.json") }

// OutputCSV returns the path of the CSV mirror of the report.
func (c *Config) OutputCSV() string { return filepath.Join(c.OutputDir, "analysis.csv") }

// NormalizeTickers trims, uppercases, and dedupes while preserving order.
func NormalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
