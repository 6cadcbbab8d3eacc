// Package renderer turns analysis reports into markdown documents for
// terminal display. The dashboard consumes the JSON contract directly; this
// package only serves humans.
package renderer

import (
	"bytes"
	"fmt"

	yast "github.com/ebalow01/yast-sub001"
	md "github.com/nao1215/markdown"
)

// ReportMarkdown renders a full analysis report as a markdown document:
// a title with the analysis date, the screened tickers, then the rest.
func ReportMarkdown(r *yast.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Weekly Income ETF Analysis on %s", r.Metadata.AnalysisDate))
	doc.PlainText(fmt.Sprintf("%d of %d requested tickers analyzed.", r.Metadata.Analyzed, r.Metadata.Requested))

	top := yast.TopPerformers(r.Results)
	doc.H2(fmt.Sprintf("Top Performers (%d)", len(top)))
	if len(top) == 0 {
		doc.PlainText("No ticker passed the screen.")
	} else {
		doc.Table(resultTable(top))
	}

	// The ranking interleaves categories, so the excluded set is a filter,
	// not a suffix.
	excluded := make([]yast.StrategyResult, 0, len(r.Results)-len(top))
	for _, res := range r.Results {
		if res.Category != yast.CategoryTopPerformer {
			excluded = append(excluded, res)
		}
	}
	if len(excluded) > 0 {
		doc.H2(fmt.Sprintf("Excluded (%d)", len(excluded)))
		doc.Table(resultTable(excluded))
	}

	return doc.String()
}

// ResultMarkdown renders a single ticker's result as a markdown document,
// one metric per row.
func ResultMarkdown(res yast.StrategyResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s (%s)", res.Ticker, res.Category))
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Trading days", fmt.Sprintf("%d", res.TradingDays)},
			{"Ex-dividend day", res.ExDivDay},
			{"Buy & hold return", yast.Percent(res.BuyHoldReturn * 100).SignedString()},
			{"Dividend capture return", yast.Percent(res.DivCaptureReturn * 100).SignedString()},
			{"Best strategy", res.BestStrategy},
			{"Final value", yast.USD(res.FinalValue).String()},
			{"DC win rate", yast.Percent(res.DCWinRate * 100).String()},
			{"Volatility", yast.Percent(res.RiskVolatility * 100).String()},
			{"Median dividend", yast.USD(res.MedianDividend).String()},
			{"Forward yield", yast.Percent(res.ForwardYield).String()},
			{"Sharpe ratio", fmt.Sprintf("%.2f", res.SharpeRatio)},
		},
	})

	return doc.String()
}

// resultTable lays ranked results out in the order they carry, one row per
// ticker, with the metrics a human scans first.
func resultTable(results []yast.StrategyResult) md.TableSet {
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			res.Ticker,
			res.BestStrategy,
			yast.Percent(res.BestReturn * 100).SignedString(),
			yast.Percent(res.RiskVolatility * 100).String(),
			yast.Percent(res.DCWinRate * 100).String(),
			yast.Percent(res.ForwardYield).String(),
			yast.USD(res.FinalValue).String(),
			res.ExDivDay,
		})
	}
	return md.TableSet{
		Header: []string{"Ticker", "Best", "Return", "Risk", "Win Rate", "Fwd Yield", "Final Value", "Ex-Div"},
		Rows:   rows,
	}
}
