package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/google/subcommands"
)

// fetchCmd implements the "fetch" command.
type fetchCmd struct{}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch price and dividend history from eodhd.com" }
func (*fetchCmd) Usage() string {
	return `yast fetch [<ticker>...]

  Fetches daily bars, dividends and splits for the configured tickers from
  eodhd.com and saves them into the data directory. Tickers given as arguments
  replace the configured list for this run.

  Requires the EODHD_API_KEY environment variable or the api_key config entry.

Usage Examples:
# Fetch the configured universe.
$ yast fetch

# Fetch two specific tickers.
$ yast fetch ULTY YMAX

`
}
func (c *fetchCmd) SetFlags(f *flag.FlagSet) {}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if f.NArg() > 0 {
		cfg.Tickers = yast.NormalizeTickers(f.Args())
	}

	runner, err := newRunner(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	saved, err := runner.Fetch()
	if saved == 0 && err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not fetch from eodhd.com: %v\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: some tickers could not be fetched: %v\n", err)
	}

	fmt.Fprintf(os.Stderr, "✅ Fetched %d of %d tickers into %s.\n", saved, len(cfg.Tickers), cfg.DataDir)
	return subcommands.ExitSuccess
}
