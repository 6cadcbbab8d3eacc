package yast

import (
	"fmt"
	"math"
	"slices"
)

// Bar is one daily price observation for a ticker.
type Bar struct {
	Date   Date
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Dividend is one per-share cash distribution, keyed by its ex-dividend date.
type Dividend struct {
	ExDate Date
	Amount float64
}

// TickerSeries holds one symbol's history: daily bars in ascending date order
// and dividend events in ascending ex-date order. There is exactly one series
// per ticker; a refresh replaces it whole.
type TickerSeries struct {
	Ticker    string
	Bars      []Bar
	Dividends []Dividend
}

// NewTickerSeries builds a series from unordered bars and dividends. Bars and
// dividends are sorted by date; duplicate bar dates keep the last one seen
// (a refetch overrides). Non-finite prices or amounts are rejected, so the
// invariant "no NaN/Inf in a series" holds from construction on.
func NewTickerSeries(ticker string, bars []Bar, dividends []Dividend) (TickerSeries, error) {
	for _, b := range bars {
		if !finite(b.Open) || !finite(b.High) || !finite(b.Low) || !finite(b.Close) {
			return TickerSeries{}, fmt.Errorf("series %s: non-finite price on %s", ticker, b.Date)
		}
	}
	for _, d := range dividends {
		if !finite(d.Amount) {
			return TickerSeries{}, fmt.Errorf("series %s: non-finite dividend on %s", ticker, d.ExDate)
		}
	}

	s := TickerSeries{
		Ticker:    ticker,
		Bars:      slices.Clone(bars),
		Dividends: slices.Clone(dividends),
	}
	slices.SortStableFunc(s.Bars, func(a, b Bar) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(s.Dividends, func(a, b Dividend) int { return a.ExDate.Compare(b.ExDate) })

	// keep the last bar for a repeated date
	dedup := s.Bars[:0]
	for i, b := range s.Bars {
		if i+1 < len(s.Bars) && s.Bars[i+1].Date == b.Date {
			continue
		}
		dedup = append(dedup, b)
	}
	s.Bars = dedup
	return s, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Len returns the number of trading sessions in the series.
func (s TickerSeries) Len() int { return len(s.Bars) }

// IsEmpty reports whether the series has no bars at all.
func (s TickerSeries) IsEmpty() bool { return len(s.Bars) == 0 }

// Range returns the covered date range, zero when the series is empty.
func (s TickerSeries) Range() Range {
	if s.IsEmpty() {
		return Range{}
	}
	return Range{From: s.Bars[0].Date, To: s.Bars[len(s.Bars)-1].Date}
}

// Closes returns the close prices in session order.
func (s TickerSeries) Closes() []float64 {
	closes := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, 0 for an empty series.
func (s TickerSeries) LastClose() float64 {
	if s.IsEmpty() {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// SessionOnOrAfter returns the index of the first session on or after the
// given date. Ex-dividend dates announced for a holiday settle on the next
// session. ok is false when no such session exists in the series.
func (s TickerSeries) SessionOnOrAfter(d Date) (i int, ok bool) {
	i, _ = slices.BinarySearchFunc(s.Bars, d, func(b Bar, target Date) int {
		return b.Date.Compare(target)
	})
	return i, i < len(s.Bars)
}

// Clip returns a copy of the series restricted to the given date range. Bars
// and dividends outside the range are dropped.
func (s TickerSeries) Clip(r Range) TickerSeries {
	out := TickerSeries{Ticker: s.Ticker}
	for _, b := range s.Bars {
		if r.Contains(b.Date) {
			out.Bars = append(out.Bars, b)
		}
	}
	for _, d := range s.Dividends {
		if r.Contains(d.ExDate) {
			out.Dividends = append(out.Dividends, d)
		}
	}
	return out
}

// Tail returns a copy of the series keeping only the last n trading sessions,
// with dividends clipped to the kept range.
func (s TickerSeries) Tail(n int) TickerSeries {
	if n <= 0 || s.IsEmpty() {
		return TickerSeries{Ticker: s.Ticker}
	}
	if n >= len(s.Bars) {
		return s
	}
	kept := s.Bars[len(s.Bars)-n:]
	return s.Clip(Range{From: kept[0].Date, To: kept[len(kept)-1].Date})
}

// SumDividends returns the total per-share cash paid over the series.
func (s TickerSeries) SumDividends() float64 {
	var total float64
	for _, d := range s.Dividends {
		total += d.Amount
	}
	return total
}

// DailyReturns returns the simple close-to-close returns, one per session
// after the first. The caller is expected to have ruled out non-positive
// closes (Analyze treats those as insufficient data).
func (s TickerSeries) DailyReturns() []float64 {
	if len(s.Bars) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(s.Bars)-1)
	for i := 1; i < len(s.Bars); i++ {
		prev := s.Bars[i-1].Close
		returns = append(returns, (s.Bars[i].Close-prev)/prev)
	}
	return returns
}
