// Package cmd implements the CLI application to analyze weekly income ETFs.
package cmd

import (
	"flag"
	"fmt"
	"os"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/ebalow01/yast-sub001/eodhd"
	"github.com/google/subcommands"
)

// Commands lists the subcommands.
// A main package will call Register() on each, and Execute() on the user-selected one.
var Commands = []subcommands.Command{
	&fetchCmd{},
	&analyzeCmd{},
	&runCmd{},
	&reportCmd{},
	&quoteCmd{},
	&topicCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

const envConfig = "YAST_CONFIG"

var configFile = flag.String("config", "", "Path to the configuration file. Defaults to the "+envConfig+" environment variable, then yast.yaml.")

// configPath resolves the configuration file: flag first, then environment,
// then the default name in the working directory. A missing file is fine,
// LoadConfig falls back to defaults.
func configPath() string {
	if *configFile != "" {
		return *configFile
	}
	if v := os.Getenv(envConfig); v != "" {
		return v
	}
	return "yast.yaml"
}

// loadConfig is the central function to load and validate the run configuration.
func loadConfig() (*yast.Config, error) {
	cfg, err := yast.LoadConfig(configPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRunner wires the EODHD provider into a batch runner.
func newRunner(cfg *yast.Config) (*yast.Runner, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("EODHD API key is not set, use the api_key config entry or the EODHD_API_KEY environment variable. You can get one at https://eodhd.com/")
	}
	return yast.NewRunner(cfg, eodhd.NewClient(cfg.APIKey)), nil
}

// offlineRunner builds a runner whose provider refuses to fetch, for commands
// that only read the local store.
func offlineRunner(cfg *yast.Config) *yast.Runner {
	return yast.NewRunner(cfg, yast.ProviderFunc(func(ticker string, r yast.Range) (yast.TickerSeries, error) {
		return yast.TickerSeries{}, fmt.Errorf("no network provider in offline mode")
	}))
}
