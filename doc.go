// Package yast provides the core logic for a personal dividend-ETF analysis
// toolkit. It fetches price and dividend history for a fixed list of tickers,
// backtests a buy-and-hold position against a dividend-capture trading
// heuristic over the same window, and writes ranked JSON and CSV reports for
// an external dashboard.
//
// The core functionalities include:
//   - Series Management: per-ticker daily bars and dividend events, persisted
//     as plain CSV files and overwritten whole on every refresh.
//   - Metric Computation: pure functions turning one ticker's series into a
//     StrategyResult (returns, volatility, capture win rate, median dividend,
//     forward yield).
//   - Ranking: threshold-based categorization and a deterministic total order
//     over results.
//   - Reporting: a fixed JSON contract (field order included) plus a CSV
//     mirror, written atomically so a crashed run never leaves a torn file.
//
// This package serves as the foundational logic for the `yast` command-line
// tool. Every run recomputes everything from the latest series; nothing here
// keeps state between runs beyond the flat files themselves.
package yast
