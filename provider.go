package yast

// SeriesProvider returns the bar and dividend history of a single ticker
// over a date range. The batch driver only sees this interface; the real
// implementation lives in the eodhd package.
type SeriesProvider interface {
	Series(ticker string, r Range) (TickerSeries, error)
}

// ProviderFunc adapts a plain function to the SeriesProvider interface.
type ProviderFunc func(ticker string, r Range) (TickerSeries, error)

func (f ProviderFunc) Series(ticker string, r Range) (TickerSeries, error) {
	return f(ticker, r)
}
