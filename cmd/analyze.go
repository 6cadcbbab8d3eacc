package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/google/subcommands"
)

// analyzeCmd implements the "analyze" command. It works entirely from the
// local data directory, no network involved.
type analyzeCmd struct {
	all bool
}

func (*analyzeCmd) Name() string     { return "analyze" }
func (*analyzeCmd) Synopsis() string { return "analyze stored history and write the report" }
func (*analyzeCmd) Usage() string {
	return `yast analyze [-all] [<ticker>...]

  Runs the buy-and-hold and dividend-capture backtests on the history stored
  in the data directory, ranks the tickers, and writes the JSON and CSV
  reports into the output directory. Tickers given as arguments replace the
  configured list for this run.

Usage Examples:
# Analyze the configured universe.
$ yast analyze

# Analyze everything that was ever fetched.
$ yast analyze -all

`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "analyze every ticker in the data directory, not just the configured list")
}

func (c *analyzeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	runner := offlineRunner(cfg)

	tickers := cfg.Tickers
	if c.all {
		tickers, err = runner.Store().Tickers()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not list the data directory: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if f.NArg() > 0 {
		tickers = yast.NormalizeTickers(f.Args())
	}
	if len(tickers) == 0 {
		fmt.Fprintf(os.Stderr, "Error: nothing to analyze, run 'yast fetch' first\n")
		return subcommands.ExitFailure
	}

	rep := runner.Analyze(tickers)
	if err := runner.Write(rep); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write the report: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "✅ Analyzed %d of %d tickers, report written to %s.\n",
		rep.Metadata.Analyzed, rep.Metadata.Requested, cfg.OutputJSON())
	return subcommands.ExitSuccess
}
