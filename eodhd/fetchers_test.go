package eodhd

import (
	"testing"

	yast "github.com/ebalow01/yast-sub001"
)

func TestParseBars(t *testing.T) {
	body := []byte(`[
		{"date":"2025-07-09","open":6.31,"high":6.35,"low":6.28,"close":6.33,"adjusted_close":6.12,"volume":10881234},
		{"date":"2025-07-10","open":6.33,"high":6.40,"low":6.30,"close":6.38,"adjusted_close":6.17,"volume":9034511}
	]`)

	bars, err := parseBars(body)
	if err != nil {
		t.Fatalf("parseBars() unexpected error = %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("parseBars() returned %d bars, want 2", len(bars))
	}
	want := yast.Bar{Date: yast.NewDate(2025, 7, 9), Open: 6.31, High: 6.35, Low: 6.28, Close: 6.33, Volume: 10881234}
	if bars[0] != want {
		t.Errorf("bars[0] = %+v, want %+v", bars[0], want)
	}
	if bars[1].Close != 6.38 {
		t.Errorf("bars[1].Close = %v, want the raw close 6.38", bars[1].Close)
	}
}

func TestParseBars_Empty(t *testing.T) {
	bars, err := parseBars([]byte(`[]`))
	if err != nil {
		t.Fatalf("parseBars() unexpected error = %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("parseBars() returned %d bars, want 0", len(bars))
	}
}

func TestParseDividends(t *testing.T) {
	// Real payloads carry more bookkeeping fields than we read.
	body := []byte(`[
		{"date":"2025-07-10","declarationDate":"2025-07-09","recordDate":"2025-07-11","paymentDate":"2025-07-14","period":"Weekly","value":0.0925,"unadjustedValue":0.0925,"currency":"USD"},
		{"date":"2025-07-17","value":0.1012,"currency":"USD"}
	]`)

	divs, err := parseDividends(body)
	if err != nil {
		t.Fatalf("parseDividends() unexpected error = %v", err)
	}
	if len(divs) != 2 {
		t.Fatalf("parseDividends() returned %d dividends, want 2", len(divs))
	}
	want := yast.Dividend{ExDate: yast.NewDate(2025, 7, 10), Amount: 0.0925}
	if divs[0] != want {
		t.Errorf("divs[0] = %+v, want %+v", divs[0], want)
	}
}

func TestParseSplits(t *testing.T) {
	body := []byte(`[
		{"date":"2024-06-10","split":"10.000000/1.000000"},
		{"date":"2025-02-03","split":"1.500000/1.000000"}
	]`)

	splits, err := parseSplits(body)
	if err != nil {
		t.Fatalf("parseSplits() unexpected error = %v", err)
	}
	if len(splits) != 2 {
		t.Fatalf("parseSplits() returned %d splits, want 2", len(splits))
	}
	if want := (Split{Date: yast.NewDate(2024, 6, 10), Numerator: 10, Denominator: 1}); splits[0] != want {
		t.Errorf("splits[0] = %+v, want %+v", splits[0], want)
	}
	// Decimal ratios reduce to the smallest integer fraction.
	if want := (Split{Date: yast.NewDate(2025, 2, 3), Numerator: 3, Denominator: 2}); splits[1] != want {
		t.Errorf("splits[1] = %+v, want %+v", splits[1], want)
	}
}

func TestParse_BadPayloads(t *testing.T) {
	tests := []struct {
		name  string
		parse func([]byte) error
		body  string
	}{
		{"bars not json", func(b []byte) error { _, err := parseBars(b); return err }, `{oops`},
		{"bars bad date", func(b []byte) error { _, err := parseBars(b); return err }, `[{"date":"13/02/2024","close":1}]`},
		{"dividends not a list", func(b []byte) error { _, err := parseDividends(b); return err }, `{"date":"2025-07-10"}`},
		{"split without slash", func(b []byte) error { _, err := parseSplits(b); return err }, `[{"date":"2024-06-10","split":"2:1"}]`},
		{"split bad numerator", func(b []byte) error { _, err := parseSplits(b); return err }, `[{"date":"2024-06-10","split":"two/1.0"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.parse([]byte(tt.body)); err == nil {
				t.Error("parse accepted a bad payload, want error")
			}
		})
	}
}

func TestSimplifyDecimalRatio(t *testing.T) {
	tests := []struct {
		in       string
		num, den int64
	}{
		{"2.000000/1.000000", 2, 1},
		{"1.500000/1.000000", 3, 2},
		{"1.000000/10.000000", 1, 10},
		{"4.000000/2.000000", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			splits, err := parseSplits([]byte(`[{"date":"2024-01-02","split":"` + tt.in + `"}]`))
			if err != nil {
				t.Fatalf("parseSplits() unexpected error = %v", err)
			}
			if splits[0].Numerator != tt.num || splits[0].Denominator != tt.den {
				t.Errorf("ratio = %d/%d, want %d/%d", splits[0].Numerator, splits[0].Denominator, tt.num, tt.den)
			}
		})
	}
}
