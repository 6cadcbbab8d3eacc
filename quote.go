package yast

import (
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

/*
	{
	    "code": "ULTY.US",
	    "timestamp": 1755892800,
	    "gmtoffset": 0,
	    "open": 6.31,
	    "high": 6.35,
	    "low": 6.28,
	    "close": 6.33,
	    "volume": 10881234,
	    "previousClose": 6.3,
	    "change": 0.03,
	    "change_p": 0.4762
	}
*/

// Quote is a delayed snapshot of the latest trade for a single ticker.
type Quote struct {
	Ticker        string
	Price         float64
	PreviousClose float64
	ChangePct     float64 // day change in percent units, e.g. 0.4762 for +0.4762%
	At            time.Time
}

func (q Quote) String() string {
	return fmt.Sprintf("%s %s (%s)", q.Ticker, USD(q.Price), Percent(q.ChangePct).SignedString())
}

// FetchQuote returns the latest delayed quote for a ticker from the EODHD
// real-time endpoint. Quotes are never cached.
func FetchQuote(apiKey, ticker string) (Quote, error) {
	addr := fmt.Sprintf("https://eodhd.com/api/real-time/%s.US?fmt=json&api_token=%s", ticker, apiKey)
	var jobj any
	if err := jwget(new(http.Client), addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("error retrieving quote for %q: %w", ticker, err)
	}
	return parseQuote(ticker, jobj)
}

// parseQuote extracts the quote fields from a decoded real-time payload.
// Outside trading hours the endpoint substitutes the string "NA" for some
// numbers, and sometimes returns numbers as strings, so every field goes
// through the same lenient conversion.
func parseQuote(ticker string, jobj any) (Quote, error) {
	price, err := jsonNumber(jobj, "$.close")
	if err != nil {
		return Quote{}, fmt.Errorf("cannot read quote for %q: %w", ticker, err)
	}
	if price == 0 {
		// outside trading hours the close can come back empty
		return Quote{}, fmt.Errorf("empty quote for %s: no last trade to return", ticker)
	}
	q := Quote{Ticker: ticker, Price: price}

	// The remaining fields are informational, a missing one is not an error.
	if prev, err := jsonNumber(jobj, "$.previousClose"); err == nil {
		q.PreviousClose = prev
	} else {
		log.Printf("quote %s: no previous close: %v", ticker, err)
	}
	if pct, err := jsonNumber(jobj, "$.change_p"); err == nil {
		q.ChangePct = pct
	}
	if ts, err := jsonNumber(jobj, "$.timestamp"); err == nil {
		q.At = time.Unix(int64(ts), 0).UTC()
	}
	return q, nil
}

// jsonNumber evaluates a jsonpath expression against a decoded JSON value
// and coerces the result to a float.
func jsonNumber(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return math.NaN(), fmt.Errorf("error parsing %q: %w", path, err)
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok {
		// sometimes, this weird API returns the value as a string
		sval, ok := jval.(string)
		if !ok {
			return math.NaN(), fmt.Errorf("%s doesn't hold a float or a string: %v", path, jval)
		}
		sval = strings.ReplaceAll(sval, ",", ".")
		sval = strings.ReplaceAll(sval, " ", "")
		v, err := strconv.ParseFloat(sval, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("%s holds an invalid string %q: %w", path, sval, err)
		}
		val = v
	}
	return val, nil
}
