package yast

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// Strategy labels used in the output contract.
const (
	StrategyBuyHold    = "B&H"
	StrategyDivCapture = "DC"
)

const tradingDaysPerYear = 252

// ErrInsufficientData marks a series that cannot be analyzed: too few
// sessions, non-positive prices, or arithmetic that degenerates to NaN/Inf.
// Tickers failing with it are excluded from the output, never crash the batch.
var ErrInsufficientData = errors.New("insufficient data")

// CaptureWindow places the dividend-capture trade. Offsets are in trading
// sessions relative to the ex-dividend session: enter at the close of session
// exDiv+Entry, exit at the close of session exDiv+Exit. An entry before the
// ex-div session (Entry < 0) collects the dividend; an entry on or after it
// does not.
type CaptureWindow struct {
	Entry int `yaml:"entry"`
	Exit  int `yaml:"exit"`
}

// Capture window presets. The default buys the close before the ex-dividend
// session and sells four sessions after it. The other two trade the post-drop
// recovery without collecting the dividend ("DD to DD+4" and "DD+2 to DD+4"
// in the strategy notes).
var (
	DefaultCaptureWindow = CaptureWindow{Entry: -1, Exit: 4}
	CaptureWindowDD      = CaptureWindow{Entry: 0, Exit: 4}
	CaptureWindowDD2     = CaptureWindow{Entry: 2, Exit: 4}
)

func (w CaptureWindow) Validate() error {
	if w.Exit <= w.Entry {
		return fmt.Errorf("capture window exit %+d must be after entry %+d", w.Exit, w.Entry)
	}
	return nil
}

func (w CaptureWindow) String() string { return fmt.Sprintf("%+d..%+d", w.Entry, w.Exit) }

// Params groups the analysis knobs. The values are empirical constants from
// the strategy notes, kept configurable rather than hard-coded.
type Params struct {
	Window           CaptureWindow
	ForwardDividends int     // how many recent payments feed the forward yield
	AnnualPayouts    int     // payout periods per year for the forward yield (52 for weekly payers)
	RiskFreeRate     float64 // annual, as a fraction
	InitialCapital   float64 // notional for the finalValue field
}

// DefaultParams returns the parameter set the strategy notes were written
// against: weekly payers, three recent payments, a one-session head start on
// the ex-dividend date.
func DefaultParams() Params {
	return Params{
		Window:           DefaultCaptureWindow,
		ForwardDividends: 3,
		AnnualPayouts:    52,
		RiskFreeRate:     0.04,
		InitialCapital:   10_000,
	}
}

// StrategyResult is the derived, immutable record for one ticker. Returns are
// fractions (0.45 = 45%), ForwardYield is a percentage. Category is assigned
// by ranking, not by Analyze.
type StrategyResult struct {
	Ticker           string
	TradingDays      int
	ExDivDay         string
	BuyHoldReturn    float64
	DivCaptureReturn float64
	BestStrategy     string
	BestReturn       float64
	FinalValue       float64
	DCWinRate        float64
	RiskVolatility   float64
	SharpeRatio      float64
	MedianDividend   float64
	ForwardYield     float64
	Category         string
}

// Analyze computes the StrategyResult for one ticker's series. It is a pure
// function: same series and params, same result. A series with fewer than two
// sessions, any non-positive close, or metrics degenerating to NaN/Inf fails
// with ErrInsufficientData.
func Analyze(s TickerSeries, p Params) (StrategyResult, error) {
	if err := p.Window.Validate(); err != nil {
		return StrategyResult{}, err
	}
	if s.Len() < 2 {
		return StrategyResult{}, fmt.Errorf("%s: %d sessions: %w", s.Ticker, s.Len(), ErrInsufficientData)
	}
	for _, b := range s.Bars {
		if b.Close <= 0 {
			return StrategyResult{}, fmt.Errorf("%s: non-positive close on %s: %w", s.Ticker, b.Date, ErrInsufficientData)
		}
	}

	start, end := s.Bars[0].Close, s.LastClose()
	buyHold := (end+s.SumDividends())/start - 1

	vol := sampleStdDev(s.DailyReturns()) * math.Sqrt(tradingDaysPerYear)

	capture := runCapture(s, p.Window)
	winRate := 0.0
	if capture.windows > 0 {
		winRate = float64(capture.wins) / float64(capture.windows)
	}

	best, strategy := buyHold, StrategyBuyHold
	if capture.total > best {
		best, strategy = capture.total, StrategyDivCapture
	}

	amounts := make([]float64, len(s.Dividends))
	for i, d := range s.Dividends {
		amounts[i] = d.Amount
	}

	r := StrategyResult{
		Ticker:           s.Ticker,
		TradingDays:      s.Len(),
		ExDivDay:         modalWeekday(s.Dividends),
		BuyHoldReturn:    buyHold,
		DivCaptureReturn: capture.total,
		BestStrategy:     strategy,
		BestReturn:       best,
		FinalValue:       p.InitialCapital * (1 + best),
		DCWinRate:        winRate,
		RiskVolatility:   vol,
		SharpeRatio:      sharpeRatio(buyHold, s.Range(), vol, p.RiskFreeRate),
		MedianDividend:   medianPositive(amounts),
		ForwardYield:     forwardYield(amounts, p.ForwardDividends, p.AnnualPayouts, end),
	}

	for _, v := range []float64{r.BuyHoldReturn, r.DivCaptureReturn, r.BestReturn, r.FinalValue,
		r.DCWinRate, r.RiskVolatility, r.SharpeRatio, r.MedianDividend, r.ForwardYield} {
		if !finite(v) {
			return StrategyResult{}, fmt.Errorf("%s: degenerate metric: %w", s.Ticker, ErrInsufficientData)
		}
	}
	return r, nil
}

type captureOutcome struct {
	total   float64
	wins    int
	windows int
}

// runCapture simulates one capture trade per dividend event. Windows that
// would reach outside the series are skipped, not clamped.
func runCapture(s TickerSeries, w CaptureWindow) captureOutcome {
	var out captureOutcome
	for _, div := range s.Dividends {
		ex, ok := s.SessionOnOrAfter(div.ExDate)
		if !ok {
			continue
		}
		entry, exit := ex+w.Entry, ex+w.Exit
		if entry < 0 || exit >= s.Len() {
			continue
		}
		collected := 0.0
		if w.Entry < 0 {
			collected = div.Amount
		}
		entryClose := s.Bars[entry].Close
		ret := (s.Bars[exit].Close + collected - entryClose) / entryClose
		out.total += ret
		out.windows++
		if ret > 0 {
			out.wins++
		}
	}
	return out
}

// sampleStdDev returns the n-1 standard deviation, 0 for fewer than two values.
func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// median returns the middle value (mean of the two middles for even counts),
// 0 for an empty slice.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// medianPositive is the median with zero and negative entries excluded, so a
// payment history of [0, 0, 2, 4] yields 3 rather than 1.5.
func medianPositive(values []float64) float64 {
	positive := make([]float64, 0, len(values))
	for _, v := range values {
		if v > 0 {
			positive = append(positive, v)
		}
	}
	return median(positive)
}

// forwardYield projects an annual yield percentage from the median of the
// most recent payments: median(last n) * payoutsPerYear / price * 100.
func forwardYield(amounts []float64, recent, payoutsPerYear int, price float64) float64 {
	if price <= 0 || recent <= 0 || payoutsPerYear <= 0 || len(amounts) == 0 {
		return 0
	}
	if recent > len(amounts) {
		recent = len(amounts)
	}
	m := median(amounts[len(amounts)-recent:])
	return m * float64(payoutsPerYear) / price * 100
}

// sharpeRatio relates the annualized buy-and-hold return over the covered
// range to its volatility. A zero volatility yields 0 rather than Inf.
func sharpeRatio(buyHold float64, covered Range, vol, riskFree float64) float64 {
	if vol == 0 {
		return 0
	}
	days := covered.To.DaysSince(covered.From)
	if days < 1 {
		days = 1
	}
	years := float64(days) / 365.25
	annualized := math.Pow(1+buyHold, 1/years) - 1
	return (annualized - riskFree) / vol
}

// modalWeekday names the weekday ex-dividend dates most often fall on, ""
// when there are no dividends. Ties resolve to the earliest weekday.
func modalWeekday(divs []Dividend) string {
	if len(divs) == 0 {
		return ""
	}
	var counts [7]int
	for _, d := range divs {
		counts[d.ExDate.Weekday()]++
	}
	best := 0
	for wd := 1; wd < 7; wd++ {
		if counts[wd] > counts[best] {
			best = wd
		}
	}
	return time.Weekday(best).String()
}
