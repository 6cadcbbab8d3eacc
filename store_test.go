package yast

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	st := NewStore(t.TempDir())

	want, err := NewTickerSeries("ULTY",
		[]Bar{
			{Date: NewDate(2025, 8, 18), Open: 6.01, High: 6.12, Low: 5.98, Close: 6.05, Volume: 1_200_000},
			{Date: NewDate(2025, 8, 19), Open: 6.05, High: 6.20, Low: 6.01, Close: 6.18, Volume: 980_000},
		},
		[]Dividend{{ExDate: NewDate(2025, 8, 19), Amount: 0.0925}},
	)
	if err != nil {
		t.Fatalf("NewTickerSeries: %v", err)
	}

	if err := st.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := st.Load("ULTY")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip changed the series:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestStore_LoadMissingIsNotExist(t *testing.T) {
	st := NewStore(t.TempDir())
	_, err := st.Load("ABSENT")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load error = %v, want to wrap fs.ErrNotExist", err)
	}
}

func TestStore_MissingDividendFileMeansNone(t *testing.T) {
	st := NewStore(t.TempDir())
	s, err := NewTickerSeries("NODIV", []Bar{{Date: NewDate(2025, 8, 18), Close: 10}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// simulate an older store without the dividend file
	if err := os.Remove(filepath.Join(st.Dir, "NODIV.div.csv")); err != nil {
		t.Fatal(err)
	}

	got, err := st.Load("NODIV")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Dividends) != 0 {
		t.Errorf("dividends = %v, want none", got.Dividends)
	}
}

func TestStore_SaveReplacesWhole(t *testing.T) {
	st := NewStore(t.TempDir())

	long, err := NewTickerSeries("X", []Bar{
		{Date: NewDate(2025, 8, 18), Close: 10},
		{Date: NewDate(2025, 8, 19), Close: 11},
	}, []Dividend{{ExDate: NewDate(2025, 8, 19), Amount: 0.5}})
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(long); err != nil {
		t.Fatal(err)
	}

	short, err := NewTickerSeries("X", []Bar{{Date: NewDate(2025, 8, 20), Close: 12}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Save(short); err != nil {
		t.Fatal(err)
	}

	got, err := st.Load("X")
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 || len(got.Dividends) != 0 {
		t.Errorf("stale rows survived the refresh: %+v", got)
	}
}

func TestStore_Tickers(t *testing.T) {
	st := NewStore(t.TempDir())
	for _, ticker := range []string{"YMAX", "ULTY", "QDTE"} {
		s, err := NewTickerSeries(ticker, []Bar{{Date: NewDate(2025, 8, 18), Close: 10}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Save(s); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.Tickers()
	if err != nil {
		t.Fatalf("Tickers: %v", err)
	}
	want := []string{"QDTE", "ULTY", "YMAX"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestStore_EmptyDirTickers(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "never-created"))
	got, err := st.Tickers()
	if err != nil {
		t.Fatalf("Tickers: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Tickers() = %v, want empty", got)
	}
}

func TestStore_RejectsMalformedRows(t *testing.T) {
	st := NewStore(t.TempDir())
	path := filepath.Join(st.Dir, "BAD.csv")
	content := "date,open,high,low,close,volume\n2025-08-18,not-a-number,1,1,1,100\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Load("BAD"); err == nil {
		t.Error("Load accepted a malformed row, want an error")
	}
}
