package yast

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func testConfig(t *testing.T, tickers ...string) *Config {
	t.Helper()
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error = %v", err)
	}
	cfg.Tickers = tickers
	cfg.DataDir = t.TempDir()
	cfg.OutputDir = t.TempDir()
	cfg.Workers = 2
	return cfg
}

func TestRunner_Run(t *testing.T) {
	cfg := testConfig(t, "ULTY", "YMAX", "BAD")
	provider := ProviderFunc(func(ticker string, r Range) (TickerSeries, error) {
		if ticker == "BAD" {
			return TickerSeries{}, errors.New("no data in range")
		}
		return flatSeries(t, ticker, 30, 10), nil
	})

	r := NewRunner(cfg, provider)
	r.today = func() Date { return NewDate(2025, 8, 1) }

	rep, err := r.Run()
	if err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	if rep.Metadata.Requested != 3 || rep.Metadata.Analyzed != 2 {
		t.Errorf("metadata = %d/%d, want 2/3 analyzed", rep.Metadata.Analyzed, rep.Metadata.Requested)
	}
	if rep.Metadata.AnalysisDate != NewDate(2025, 8, 1) {
		t.Errorf("AnalysisDate = %s, want 2025-08-01", rep.Metadata.AnalysisDate)
	}
	if _, ok := rep.Result("BAD"); ok {
		t.Error("failed ticker BAD found in report")
	}
	for _, ticker := range []string{"ULTY", "YMAX"} {
		if _, ok := rep.Result(ticker); !ok {
			t.Errorf("ticker %s missing from report", ticker)
		}
	}

	// Both report files and both stored series must exist on disk.
	for _, path := range []string{
		cfg.OutputJSON(),
		cfg.OutputCSV(),
		filepath.Join(cfg.DataDir, "ULTY.csv"),
		filepath.Join(cfg.DataDir, "YMAX.div.csv"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file %s: %v", path, err)
		}
	}

	// The written JSON parses back into the same report.
	got, err := ReadReportFile(cfg.OutputJSON())
	if err != nil {
		t.Fatalf("ReadReportFile() unexpected error = %v", err)
	}
	if got.Metadata != rep.Metadata {
		t.Errorf("reloaded metadata = %+v, want %+v", got.Metadata, rep.Metadata)
	}
}

func TestRunner_Run_AllFetchesFail(t *testing.T) {
	cfg := testConfig(t, "ULTY", "YMAX")
	provider := ProviderFunc(func(ticker string, r Range) (TickerSeries, error) {
		return TickerSeries{}, errors.New("api down")
	})

	r := NewRunner(cfg, provider)
	if _, err := r.Run(); err == nil {
		t.Fatal("Run() = nil error, want error when nothing can be fetched")
	}
	if _, err := os.Stat(cfg.OutputJSON()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("report written despite failed run: %v", err)
	}
}

func TestRunner_Analyze_FromStore(t *testing.T) {
	cfg := testConfig(t, "ULTY", "ONE", "GONE")
	r := NewRunner(cfg, nil)

	// ULTY has a usable series, ONE has too little data, GONE has none.
	if err := r.Store().Save(flatSeries(t, "ULTY", 30, 10)); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}
	one, err := NewTickerSeries("ONE", []Bar{
		{Date: NewDate(2025, 1, 6), Open: 10, High: 10, Low: 10, Close: 10, Volume: 1},
	}, nil)
	if err != nil {
		t.Fatalf("NewTickerSeries() unexpected error = %v", err)
	}
	if err := r.Store().Save(one); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}

	rep := r.Analyze(cfg.Tickers)
	if rep.Metadata.Requested != 3 || rep.Metadata.Analyzed != 1 {
		t.Errorf("metadata = %d/%d, want 1/3 analyzed", rep.Metadata.Analyzed, rep.Metadata.Requested)
	}
	if _, ok := rep.Result("ULTY"); !ok {
		t.Error("ULTY missing from report")
	}
}

func TestRunner_Write_Failure(t *testing.T) {
	cfg := testConfig(t, "ULTY")
	// Point the output directory below a regular file so MkdirAll fails.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.OutputDir = filepath.Join(blocker, "out")

	r := NewRunner(cfg, nil)
	rep := r.Analyze(nil)
	if err := r.Write(rep); err == nil {
		t.Error("Write() = nil error, want error when output dir cannot be created")
	}
}

func TestRunner_Fetch_CountsSaved(t *testing.T) {
	cfg := testConfig(t, "ULTY", "YMAX", "QDTE", "BAD")
	cfg.Workers = 3
	provider := ProviderFunc(func(ticker string, r Range) (TickerSeries, error) {
		if ticker == "BAD" {
			return TickerSeries{}, errors.New("no data in range")
		}
		return flatSeries(t, ticker, 10, 5), nil
	})

	r := NewRunner(cfg, provider)
	saved, err := r.Fetch()
	if saved != 3 {
		t.Errorf("Fetch() saved = %d, want 3", saved)
	}
	if err == nil {
		t.Error("Fetch() = nil error, want joined error naming BAD")
	}

	tickers, err := r.Store().Tickers()
	if err != nil {
		t.Fatalf("Tickers() unexpected error = %v", err)
	}
	if len(tickers) != 3 {
		t.Errorf("stored tickers = %v, want 3 entries", tickers)
	}
}
