package eodhd

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	yast "github.com/ebalow01/yast-sub001"
	"github.com/shopspring/decimal"
)

// This file contains functions to access the EODHD API. Each endpoint has a
// fetch function doing the HTTP GET and a parse function decoding the body,
// so the decoders can be exercised on canned payloads.

// fetchBars returns the daily bars for an EODHD symbol over the range.
func fetchBars(apiKey, symbol string, r yast.Range) ([]yast.Bar, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },

	// nota bene: bounds are included in the response, and the range is
	// limited to 1 year with a free subscription.
	addr := fmt.Sprintf("https://eodhd.com/api/eod/%s?fmt=json&period=d&api_token=%s&from=%s&to=%s", symbol, apiKey, r.From, r.To)
	body, err := wget(newDailyCachingClient(), addr)
	if err != nil {
		return nil, err
	}
	return parseBars(body)
}

// parseBars decodes an /api/eod/ payload. Prices cross the wire as decimals
// and convert to floats only here at the boundary.
func parseBars(body []byte) ([]yast.Bar, error) {
	type info struct {
		Date   yast.Date       `json:"date"`
		Open   decimal.Decimal `json:"open"`
		High   decimal.Decimal `json:"high"`
		Low    decimal.Decimal `json:"low"`
		Close  decimal.Decimal `json:"close"`
		Volume int64           `json:"volume"`
	}

	content := make([]info, 0)
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("cannot decode eod payload: %w", err)
	}
	bars := make([]yast.Bar, 0, len(content))
	for _, in := range content {
		bars = append(bars, yast.Bar{
			Date:   in.Date,
			Open:   in.Open.InexactFloat64(),
			High:   in.High.InexactFloat64(),
			Low:    in.Low.InexactFloat64(),
			Close:  in.Close.InexactFloat64(),
			Volume: in.Volume,
		})
	}
	return bars, nil
}

// fetchDividends returns the dividend events for an EODHD symbol over the range.
func fetchDividends(apiKey, symbol string, r yast.Range) ([]yast.Dividend, error) {
	addr := fmt.Sprintf("https://eodhd.com/api/div/%s?fmt=json&api_token=%s&from=%s&to=%s", symbol, apiKey, r.From, r.To)
	body, err := wget(newDailyCachingClient(), addr)
	if err != nil {
		return nil, err
	}
	return parseDividends(body)
}

// parseDividends decodes an /api/div/ payload. The "date" field is the
// ex-dividend date, see https://eodhd.com/financial-apis/api-splits-dividends
func parseDividends(body []byte) ([]yast.Dividend, error) {
	type info struct {
		Date     yast.Date       `json:"date"`
		Value    decimal.Decimal `json:"value"`
		Currency string          `json:"currency"`
	}

	content := make([]info, 0)
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("cannot decode dividend payload: %w", err)
	}
	divs := make([]yast.Dividend, 0, len(content))
	for _, in := range content {
		if in.Currency != "" && in.Currency != "USD" {
			log.Printf("warning: dividend on %s paid in %s, keeping the raw amount", in.Date, in.Currency)
		}
		divs = append(divs, yast.Dividend{ExDate: in.Date, Amount: in.Value.InexactFloat64()})
	}
	return divs, nil
}

// Split is one split event. Numerator over denominator is the share
// multiplier, e.g. 2:1 doubles the share count and halves the price.
type Split struct {
	Date        yast.Date
	Numerator   int64
	Denominator int64
}

// fetchSplits returns the split events for an EODHD symbol over the range.
func fetchSplits(apiKey, symbol string, r yast.Range) ([]Split, error) {
	addr := fmt.Sprintf("https://eodhd.com/api/splits/%s?fmt=json&api_token=%s&from=%s&to=%s", symbol, apiKey, r.From, r.To)
	body, err := wget(newDailyCachingClient(), addr)
	if err != nil {
		return nil, err
	}
	return parseSplits(body)
}

// parseSplits decodes an /api/splits/ payload. The API serves ratios as
// decimal strings like "2.000000/1.000000".
func parseSplits(body []byte) ([]Split, error) {
	type info struct {
		Date  yast.Date `json:"date"`
		Split string    `json:"split"`
	}

	content := make([]info, 0)
	if err := json.Unmarshal(body, &content); err != nil {
		return nil, fmt.Errorf("cannot decode split payload: %w", err)
	}
	splits := make([]Split, 0, len(content))
	for _, in := range content {
		parts := strings.Split(in.Split, "/")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid split format from API: %q", in.Split)
		}
		numDecimal, err := decimal.NewFromString(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid numerator in split %q: %w", in.Split, err)
		}
		denDecimal, err := decimal.NewFromString(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid denominator in split %q: %w", in.Split, err)
		}
		num, den := simplifyDecimalRatio(numDecimal, denDecimal)
		splits = append(splits, Split{Date: in.Date, Numerator: num, Denominator: den})
	}
	return splits, nil
}
