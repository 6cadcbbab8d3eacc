package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/ebalow01/yast-sub001/renderer"
	"github.com/google/subcommands"
)

// runCmd implements the "run" command, the whole pipeline in one shot.
type runCmd struct{}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "fetch, analyze and write the report in one shot" }
func (*runCmd) Usage() string {
	return `yast run [<ticker>...]

  Fetches fresh history for the configured tickers, runs both backtests,
  writes the JSON and CSV reports, and shows the ranking. This is the command
  a cron job or a curious owner runs every week.

  Requires the EODHD_API_KEY environment variable or the api_key config entry.

`
}
func (c *runCmd) SetFlags(f *flag.FlagSet) {}

func (c *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	rep, err := runner.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReportMarkdown(rep))

	fmt.Fprintf(os.Stderr, "✅ Report written to %s.\n", cfg.OutputJSON())
	return subcommands.ExitSuccess
}
