package yast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// Store persists one series per ticker as plain CSV files under a directory:
// TICKER.csv for bars and TICKER.div.csv for dividend events. Files are
// replaced whole on save (last-write-wins), which is all the persistence this
// toolkit needs; there is deliberately no database here.
type Store struct {
	Dir string
}

func NewStore(dir string) Store { return Store{Dir: dir} }

var (
	barsHeader = []string{"date", "open", "high", "low", "close", "volume"}
	divsHeader = []string{"exDate", "amount"}
)

func (st Store) barsPath(ticker string) string { return filepath.Join(st.Dir, ticker+".csv") }
func (st Store) divsPath(ticker string) string { return filepath.Join(st.Dir, ticker+".div.csv") }

// Save writes both series files atomically. The dividend file is written even
// when empty so a refresh clears stale events.
func (st Store) Save(s TickerSeries) error {
	if s.Ticker == "" {
		return fmt.Errorf("cannot save a series without a ticker")
	}

	var bars strings.Builder
	bw := csv.NewWriter(&bars)
	bw.Write(barsHeader)
	for _, b := range s.Bars {
		bw.Write([]string{
			b.Date.String(),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			strconv.FormatInt(b.Volume, 10),
		})
	}
	bw.Flush()
	if err := bw.Error(); err != nil {
		return fmt.Errorf("encoding %s bars: %w", s.Ticker, err)
	}

	var divs strings.Builder
	dw := csv.NewWriter(&divs)
	dw.Write(divsHeader)
	for _, d := range s.Dividends {
		dw.Write([]string{d.ExDate.String(), formatFloat(d.Amount)})
	}
	dw.Flush()
	if err := dw.Error(); err != nil {
		return fmt.Errorf("encoding %s dividends: %w", s.Ticker, err)
	}

	if err := writeFileAtomic(st.barsPath(s.Ticker), []byte(bars.String())); err != nil {
		return fmt.Errorf("saving %s bars: %w", s.Ticker, err)
	}
	if err := writeFileAtomic(st.divsPath(s.Ticker), []byte(divs.String())); err != nil {
		return fmt.Errorf("saving %s dividends: %w", s.Ticker, err)
	}
	return nil
}

// Load reads a ticker's series back. A missing bars file surfaces as an error
// wrapping fs.ErrNotExist (the batch treats it as data-unavailable); a missing
// dividend file simply means the ticker pays none.
func (st Store) Load(ticker string) (TickerSeries, error) {
	bars, err := st.loadBars(ticker)
	if err != nil {
		return TickerSeries{}, err
	}
	divs, err := st.loadDividends(ticker)
	if err != nil {
		return TickerSeries{}, err
	}
	return NewTickerSeries(ticker, bars, divs)
}

func (st Store) loadBars(ticker string) ([]Bar, error) {
	path := st.barsPath(ticker)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", ticker, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], barsHeader) {
		return nil, fmt.Errorf("parsing %s: unexpected header, want %v", path, barsHeader)
	}

	bars := make([]Bar, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(barsHeader) {
			return nil, fmt.Errorf("parsing %s:%d: %d columns, want %d", path, line, len(rec), len(barsHeader))
		}
		date, err := ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("parsing %s:%d: %w", path, line, err)
		}
		var b Bar
		b.Date = date
		for j, dst := range []*float64{&b.Open, &b.High, &b.Low, &b.Close} {
			v, err := strconv.ParseFloat(rec[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parsing %s:%d column %s: %w", path, line, barsHeader[j+1], err)
			}
			*dst = v
		}
		vol, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s:%d column volume: %w", path, line, err)
		}
		b.Volume = vol
		bars = append(bars, b)
	}
	return bars, nil
}

func (st Store) loadDividends(ticker string) ([]Dividend, error) {
	path := st.divsPath(ticker)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s dividends: %w", ticker, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], divsHeader) {
		return nil, fmt.Errorf("parsing %s: unexpected header, want %v", path, divsHeader)
	}

	divs := make([]Dividend, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != len(divsHeader) {
			return nil, fmt.Errorf("parsing %s:%d: %d columns, want %d", path, line, len(rec), len(divsHeader))
		}
		date, err := ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("parsing %s:%d: %w", path, line, err)
		}
		amount, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %s:%d column amount: %w", path, line, err)
		}
		divs = append(divs, Dividend{ExDate: date, Amount: amount})
	}
	return divs, nil
}

// Tickers lists the symbols with a stored series, sorted.
func (st Store) Tickers() ([]string, error) {
	entries, err := os.ReadDir(st.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing store %s: %w", st.Dir, err)
	}
	var tickers []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".div.csv") {
			continue
		}
		tickers = append(tickers, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(tickers)
	return tickers, nil
}

// writeFileAtomic writes data to a temporary file in the destination's
// directory and renames it into place, so readers never observe a torn file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
