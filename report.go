package yast

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Metadata describes one analysis run.
type Metadata struct {
	AnalysisDate Date
	Requested    int // tickers in the configured list
	Analyzed     int // tickers that produced a result
}

// Report is the artifact the dashboard consumes: ranked results plus run
// metadata, in one JSON document. Returns are fractions, forwardYield is a
// percentage, and the field order below is part of the contract.
type Report struct {
	Metadata Metadata
	Results  []StrategyResult
}

func (r Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("results", r.Results)
	w.Append("metadata", r.Metadata)
	return w.MarshalJSON()
}

func (r *Report) UnmarshalJSON(data []byte) error {
	var raw struct {
		Results  []StrategyResult `json:"results"`
		Metadata Metadata         `json:"metadata"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Results = raw.Results
	r.Metadata = raw.Metadata
	return nil
}

func (m Metadata) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("analysisDate", m.AnalysisDate)
	w.Append("requested", m.Requested)
	w.Append("analyzed", m.Analyzed)
	return w.MarshalJSON()
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw struct {
		AnalysisDate Date `json:"analysisDate"`
		Requested    int  `json:"requested"`
		Analyzed     int  `json:"analyzed"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.AnalysisDate = raw.AnalysisDate
	m.Requested = raw.Requested
	m.Analyzed = raw.Analyzed
	return nil
}

func (r StrategyResult) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", r.Ticker)
	w.Append("tradingDays", r.TradingDays)
	w.Append("exDivDay", r.ExDivDay)
	w.Append("buyHoldReturn", r.BuyHoldReturn)
	w.Append("divCaptureReturn", r.DivCaptureReturn)
	w.Append("bestStrategy", r.BestStrategy)
	w.Append("bestReturn", r.BestReturn)
	w.Append("finalValue", r.FinalValue)
	w.Append("dcWinRate", r.DCWinRate)
	w.Append("riskVolatility", r.RiskVolatility)
	w.Append("medianDividend", r.MedianDividend)
	w.Append("forwardYield", r.ForwardYield)
	w.Append("sharpeRatio", r.SharpeRatio)
	w.Append("category", r.Category)
	return w.MarshalJSON()
}

func (r *StrategyResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Ticker           string  `json:"ticker"`
		TradingDays      int     `json:"tradingDays"`
		ExDivDay         string  `json:"exDivDay"`
		BuyHoldReturn    float64 `json:"buyHoldReturn"`
		DivCaptureReturn float64 `json:"divCaptureReturn"`
		BestStrategy     string  `json:"bestStrategy"`
		BestReturn       float64 `json:"bestReturn"`
		FinalValue       float64 `json:"finalValue"`
		DCWinRate        float64 `json:"dcWinRate"`
		RiskVolatility   float64 `json:"riskVolatility"`
		MedianDividend   float64 `json:"medianDividend"`
		ForwardYield     float64 `json:"forwardYield"`
		SharpeRatio      float64 `json:"sharpeRatio"`
		Category         string  `json:"category"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = StrategyResult{
		Ticker:           raw.Ticker,
		TradingDays:      raw.TradingDays,
		ExDivDay:         raw.ExDivDay,
		BuyHoldReturn:    raw.BuyHoldReturn,
		DivCaptureReturn: raw.DivCaptureReturn,
		BestStrategy:     raw.BestStrategy,
		BestReturn:       raw.BestReturn,
		FinalValue:       raw.FinalValue,
		DCWinRate:        raw.DCWinRate,
		RiskVolatility:   raw.RiskVolatility,
		MedianDividend:   raw.MedianDividend,
		ForwardYield:     raw.ForwardYield,
		SharpeRatio:      raw.SharpeRatio,
		Category:         raw.Category,
	}
	return nil
}

// csvHeader mirrors the JSON field order.
var csvHeader = []string{
	"ticker", "tradingDays", "exDivDay", "buyHoldReturn", "divCaptureReturn",
	"bestStrategy", "bestReturn", "finalValue", "dcWinRate", "riskVolatility",
	"medianDividend", "forwardYield", "sharpeRatio", "category",
}

// CSV renders the report rows in the same order and units as the JSON
// results. Floats use the shortest representation that round-trips.
func (r Report) CSV() ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, res := range r.Results {
		row := []string{
			res.Ticker,
			strconv.Itoa(res.TradingDays),
			res.ExDivDay,
			formatFloat(res.BuyHoldReturn),
			formatFloat(res.DivCaptureReturn),
			res.BestStrategy,
			formatFloat(res.BestReturn),
			formatFloat(res.FinalValue),
			formatFloat(res.DCWinRate),
			formatFloat(res.RiskVolatility),
			formatFloat(res.MedianDividend),
			formatFloat(res.ForwardYield),
			formatFloat(res.SharpeRatio),
			res.Category,
		}
		if err := cw.Write(row); err != nil {
			return nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// WriteFile writes the JSON document to path atomically, so a crashed run
// leaves the previous report intact rather than a torn file.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	return writeFileAtomic(path, data)
}

// WriteCSVFile writes the CSV mirror to path atomically.
func (r Report) WriteCSVFile(path string) error {
	data, err := r.CSV()
	if err != nil {
		return fmt.Errorf("encoding report csv: %w", err)
	}
	return writeFileAtomic(path, data)
}

// ReadReportFile loads a previously written report, as the render and assist
// surfaces do.
func ReadReportFile(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return r, nil
}

// Result returns the entry for a ticker, ok reporting whether it is present.
// Absence is the only per-ticker failure signal the report carries.
func (r Report) Result(ticker string) (StrategyResult, bool) {
	for _, res := range r.Results {
		if res.Ticker == ticker {
			return res, true
		}
	}
	return StrategyResult{}, false
}
