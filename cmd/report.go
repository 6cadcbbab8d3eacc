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

// reportCmd implements the "report" command, showing the latest written
// report without recomputing anything.
type reportCmd struct{}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show the latest analysis report" }
func (*reportCmd) Usage() string {
	return `yast report [<ticker>...]

  Shows the most recent report from the output directory. With ticker
  arguments it shows the detailed metrics of those tickers only.

Usage Examples:
# The full ranking.
$ yast report

# One ticker in detail.
$ yast report ULTY

`
}
func (c *reportCmd) SetFlags(f *flag.FlagSet) {}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	rep, err := yast.ReadReportFile(cfg.OutputJSON())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: no report at %s, run 'yast run' first: %v\n", cfg.OutputJSON(), err)
		return subcommands.ExitFailure
	}

	if f.NArg() == 0 {
		printMarkdown(renderer.ReportMarkdown(&rep))
		return subcommands.ExitSuccess
	}

	status := subcommands.ExitSuccess
	for _, ticker := range yast.NormalizeTickers(f.Args()) {
		res, ok := rep.Result(ticker)
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: %s is not in the latest report\n", ticker)
			status = subcommands.ExitFailure
			continue
		}
		printMarkdown(renderer.ResultMarkdown(res))
	}
	return status
}
