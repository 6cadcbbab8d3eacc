package yast

import (
	"slices"
	"strings"
)

// Category labels in the output contract.
const (
	CategoryTopPerformer = "Top Performer"
	CategoryExcluded     = "Excluded"
)

// Thresholds separates top performers from the rest. Both values are
// fractions, matching the returns they are compared against.
type Thresholds struct {
	Return float64 `yaml:"return"`
	Risk   float64 `yaml:"risk"`
}

// DefaultThresholds returns the screening bar from the strategy notes:
// more than 40% best return at under 40% annualized volatility.
func DefaultThresholds() Thresholds {
	return Thresholds{Return: 0.40, Risk: 0.40}
}

// Categorize labels a result against the thresholds.
func (th Thresholds) Categorize(r StrategyResult) string {
	if r.BestReturn > th.Return && r.RiskVolatility < th.Risk {
		return CategoryTopPerformer
	}
	return CategoryExcluded
}

// Rank assigns categories and sorts results into the presentation order:
// best return descending, ticker ascending on equal returns so the order is
// a deterministic total order. The input slice is not modified.
func Rank(results []StrategyResult, th Thresholds) []StrategyResult {
	ranked := slices.Clone(results)
	for i := range ranked {
		ranked[i].Category = th.Categorize(ranked[i])
	}
	slices.SortStableFunc(ranked, func(a, b StrategyResult) int {
		switch {
		case a.BestReturn > b.BestReturn:
			return -1
		case a.BestReturn < b.BestReturn:
			return 1
		default:
			return strings.Compare(a.Ticker, b.Ticker)
		}
	})
	return ranked
}

// TopPerformers filters a ranked slice down to the top category.
func TopPerformers(ranked []StrategyResult) []StrategyResult {
	var top []StrategyResult
	for _, r := range ranked {
		if r.Category == CategoryTopPerformer {
			top = append(top, r)
		}
	}
	return top
}
