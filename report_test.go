package yast

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleResult() StrategyResult {
	return StrategyResult{
		Ticker:           "ULTY",
		TradingDays:      126,
		ExDivDay:         "Thursday",
		BuyHoldReturn:    0.1234567890123,
		DivCaptureReturn: 0.2345678901234,
		BestStrategy:     StrategyDivCapture,
		BestReturn:       0.2345678901234,
		FinalValue:       12345.678901234,
		DCWinRate:        0.8461538461538461,
		RiskVolatility:   0.31415926535,
		SharpeRatio:      1.6180339887,
		MedianDividend:   0.4625,
		ForwardYield:     80.79258563374765,
		Category:         CategoryTopPerformer,
	}
}

func TestStrategyResult_JSONRoundTrip(t *testing.T) {
	want := sampleResult()

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got StrategyResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got != want {
		t.Errorf("round trip changed the result:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestStrategyResult_FieldOrder(t *testing.T) {
	data, err := json.Marshal(sampleResult())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	// the dashboard contract fixes the field order
	wantOrder := csvHeader
	last := -1
	for _, field := range wantOrder {
		i := strings.Index(string(data), `"`+field+`"`)
		if i < 0 {
			t.Fatalf("field %q missing from %s", field, data)
		}
		if i < last {
			t.Errorf("field %q out of order in %s", field, data)
		}
		last = i
	}
}

func TestReport_JSONRoundTrip(t *testing.T) {
	want := Report{
		Metadata: Metadata{AnalysisDate: NewDate(2025, 8, 22), Requested: 12, Analyzed: 11},
		Results:  []StrategyResult{sampleResult()},
	}

	data, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Metadata != want.Metadata {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, want.Metadata)
	}
	if len(got.Results) != 1 || got.Results[0] != want.Results[0] {
		t.Errorf("results = %+v, want %+v", got.Results, want.Results)
	}
}

func TestReport_WriteFileIsAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "results.json")

	first := Report{Metadata: Metadata{AnalysisDate: NewDate(2025, 8, 21)}}
	if err := first.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	second := Report{
		Metadata: Metadata{AnalysisDate: NewDate(2025, 8, 22), Requested: 1, Analyzed: 1},
		Results:  []StrategyResult{sampleResult()},
	}
	if err := second.WriteFile(path); err != nil {
		t.Fatalf("WriteFile replace: %v", err)
	}

	got, err := ReadReportFile(path)
	if err != nil {
		t.Fatalf("ReadReportFile: %v", err)
	}
	if got.Metadata.AnalysisDate != NewDate(2025, 8, 22) {
		t.Errorf("analysisDate = %s, want the replacing run's date", got.Metadata.AnalysisDate)
	}

	// no temp droppings left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}

func TestReport_CSV(t *testing.T) {
	r := Report{Results: []StrategyResult{sampleResult()}}

	data, err := r.CSV()
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if lines[0] != strings.Join(csvHeader, ",") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "ULTY,126,Thursday,") {
		t.Errorf("row = %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], ",Top Performer") {
		t.Errorf("row should end with the category, got %q", lines[1])
	}
}

func TestReport_Result(t *testing.T) {
	r := Report{Results: []StrategyResult{sampleResult()}}
	if _, ok := r.Result("ULTY"); !ok {
		t.Error("Result(ULTY) not found")
	}
	if _, ok := r.Result("MISSING"); ok {
		t.Error("Result(MISSING) found, want absent")
	}
}
