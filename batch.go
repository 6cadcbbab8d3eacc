package yast

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// This file contains the driver that runs the whole pipeline:
// fetch series, analyze each ticker, rank, write the reports.

// Runner wires the pipeline together: a provider to fetch from, a store to
// persist series in, and the configuration that names the tickers and knobs.
type Runner struct {
	cfg      *Config
	provider SeriesProvider
	store    Store
	today    func() Date
}

// NewRunner returns a Runner over the given configuration. The provider may
// be nil for analyze-only use.
func NewRunner(cfg *Config, provider SeriesProvider) *Runner {
	return &Runner{
		cfg:      cfg,
		provider: provider,
		store:    NewStore(cfg.DataDir),
		today:    Today,
	}
}

// Store exposes the series store the runner reads and writes.
func (r *Runner) Store() Store { return r.store }

// fetchOutcome carries one ticker's fetch result back to the collector.
type fetchOutcome struct {
	ticker string
	series TickerSeries
	err    error
}

// Fetch downloads the configured history window for every configured ticker
// and saves each series in the data directory. Tickers that fail are logged
// and skipped; the joined error reports them all. The count is the number of
// series actually saved.
func (r *Runner) Fetch() (int, error) {
	rng := r.cfg.FetchRange(r.today())
	log.Printf("fetching %d tickers over %s", len(r.cfg.Tickers), rng)

	jobs := make(chan string)
	outcomes := make(chan fetchOutcome)
	var wg sync.WaitGroup

	for w := 0; w < r.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				series, err := r.provider.Series(ticker, rng)
				outcomes <- fetchOutcome{ticker: ticker, series: series, err: err}
			}
		}()
	}
	go func() {
		for _, ticker := range r.cfg.Tickers {
			jobs <- ticker
		}
		close(jobs)
	}()
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	// Saving stays on this goroutine, the store is not safe for concurrent use.
	var errs error
	saved := 0
	for o := range outcomes {
		if o.err != nil {
			log.Printf("warning: skipping %s: %v", o.ticker, o.err)
			errs = errors.Join(errs, fmt.Errorf("fetch %s: %w", o.ticker, o.err))
			continue
		}
		if err := r.store.Save(o.series); err != nil {
			log.Printf("warning: cannot save %s: %v", o.ticker, err)
			errs = errors.Join(errs, fmt.Errorf("save %s: %w", o.ticker, err))
			continue
		}
		saved++
	}
	return saved, errs
}

// Analyze loads each ticker's stored series and computes its strategy result.
// Tickers without usable data are logged and left out of the report; the
// metadata keeps the requested and analyzed counts so the gap stays visible.
func (r *Runner) Analyze(tickers []string) *Report {
	params := r.cfg.Params()
	results := make([]StrategyResult, 0, len(tickers))
	for _, ticker := range tickers {
		series, err := r.store.Load(ticker)
		if err != nil {
			log.Printf("warning: no data for %s: %v", ticker, err)
			continue
		}
		res, err := Analyze(series, params)
		if err != nil {
			log.Printf("warning: excluding %s: %v", ticker, err)
			continue
		}
		results = append(results, res)
	}
	return &Report{
		Metadata: Metadata{
			AnalysisDate: r.today(),
			Requested:    len(tickers),
			Analyzed:     len(results),
		},
		Results: Rank(results, r.cfg.Thresholds()),
	}
}

// Write emits the JSON and CSV reports. Both writes are atomic, so the
// dashboard never observes a partial file.
func (r *Runner) Write(rep *Report) error {
	if err := rep.WriteFile(r.cfg.OutputJSON()); err != nil {
		return fmt.Errorf("write %s: %w", r.cfg.OutputJSON(), err)
	}
	if err := rep.WriteCSVFile(r.cfg.OutputCSV()); err != nil {
		return fmt.Errorf("write %s: %w", r.cfg.OutputCSV(), err)
	}
	log.Printf("wrote %s and %s (%d/%d tickers)", r.cfg.OutputJSON(), r.cfg.OutputCSV(),
		rep.Metadata.Analyzed, rep.Metadata.Requested)
	return nil
}

// Run executes the full pipeline: fetch, analyze, write. Fetch failures are
// not fatal as long as at least one ticker came through; a write failure is.
func (r *Runner) Run() (*Report, error) {
	saved, err := r.Fetch()
	if err != nil {
		if saved == 0 {
			return nil, fmt.Errorf("no ticker could be fetched: %w", err)
		}
		log.Printf("warning: %d of %d tickers could not be fetched", len(r.cfg.Tickers)-saved, len(r.cfg.Tickers))
	}
	rep := r.Analyze(r.cfg.Tickers)
	if err := r.Write(rep); err != nil {
		return nil, err
	}
	return rep, nil
}
