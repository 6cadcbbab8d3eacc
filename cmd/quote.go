package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/google/subcommands"
)

// quoteCmd implements the "quote" command.
type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "show live quotes from eodhd.com" }
func (*quoteCmd) Usage() string {
	return `yast quote [<ticker>...]

  Shows the live price and day change of the given tickers, or of the whole
  configured list when none is given. Quotes are never cached.

  Requires the EODHD_API_KEY environment variable or the api_key config entry.

`
}
func (c *quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.APIKey == "" {
		fmt.Fprintf(os.Stderr, "Error: EODHD API key is not set, use the api_key config entry or the EODHD_API_KEY environment variable\n")
		return subcommands.ExitFailure
	}

	tickers := cfg.Tickers
	if f.NArg() > 0 {
		tickers = yast.NormalizeTickers(f.Args())
	}

	status := subcommands.ExitSuccess
	for _, ticker := range tickers {
		if err := yast.ValidateTicker(ticker); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			status = subcommands.ExitFailure
			continue
		}
		q, err := yast.FetchQuote(cfg.APIKey, ticker)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: no quote for %s: %v\n", ticker, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Println(q)
	}
	return status
}
