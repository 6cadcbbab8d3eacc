// Package eodhd fetches end-of-day bar, dividend and split history for US
// tickers from eodhd.com and assembles it into series the analysis consumes.
package eodhd

import (
	"fmt"
	"log"

	yast "github.com/ebalow01/yast-sub001"
)

// nice to double check a ticker on https://eodhd.com/financial-summary/ULTY.US

// Client fetches series from the EODHD API.
type Client struct {
	APIKey string
}

// NewClient returns a Client using the given API key.
func NewClient(apiKey string) Client { return Client{APIKey: apiKey} }

// Series downloads the bar and dividend history of a ticker over the range
// and returns it split-adjusted. It implements yast.SeriesProvider.
func (c Client) Series(ticker string, r yast.Range) (yast.TickerSeries, error) {
	sym := symbol(ticker)

	bars, err := fetchBars(c.APIKey, sym, r)
	if err != nil {
		return yast.TickerSeries{}, fmt.Errorf("eod %s: %w", ticker, err)
	}
	divs, err := fetchDividends(c.APIKey, sym, r)
	if err != nil {
		return yast.TickerSeries{}, fmt.Errorf("dividends %s: %w", ticker, err)
	}
	splits, err := fetchSplits(c.APIKey, sym, r)
	if err != nil {
		return yast.TickerSeries{}, fmt.Errorf("splits %s: %w", ticker, err)
	}

	bars, divs = adjustForSplits(ticker, bars, divs, splits)
	return yast.NewTickerSeries(ticker, bars, divs)
}

// symbol maps a plain ticker to the EODHD symbol. The whole universe trades
// on US exchanges, which EODHD groups under the virtual exchange "US".
func symbol(ticker string) string { return ticker + ".US" }

// adjustForSplits rescales history before each split date so the whole series
// is in post-split terms. EODHD serves bars and dividend amounts as traded;
// a split inside the window would otherwise look like a crash.
func adjustForSplits(ticker string, bars []yast.Bar, divs []yast.Dividend, splits []Split) ([]yast.Bar, []yast.Dividend) {
	for _, sp := range splits {
		if sp.Numerator <= 0 || sp.Denominator <= 0 || sp.Numerator == sp.Denominator {
			continue
		}
		log.Printf("%s: %d:%d split on %s, adjusting earlier history", ticker, sp.Numerator, sp.Denominator, sp.Date)
		factor := float64(sp.Denominator) / float64(sp.Numerator)
		for i := range bars {
			if !bars[i].Date.Before(sp.Date) {
				continue
			}
			bars[i].Open *= factor
			bars[i].High *= factor
			bars[i].Low *= factor
			bars[i].Close *= factor
			bars[i].Volume = bars[i].Volume * sp.Numerator / sp.Denominator
		}
		for i := range divs {
			if divs[i].ExDate.Before(sp.Date) {
				divs[i].Amount *= factor
			}
		}
	}
	return bars, divs
}
