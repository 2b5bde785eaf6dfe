package engine

import (
	"cmp"
	"slices"

	"github.com/andresuchdata/stockguard/internal/domain"
	"github.com/andresuchdata/stockguard/pkg/logger"
)

// DefaultMaxDistanceKm is the largest distance a transfer may cover.
const DefaultMaxDistanceKm = 50.0

// Match pairs every shortage with its nearest eligible surplus of the same
// product at another store. Each shortage yields at most one suggestion. The
// result is sorted with SortSuggestions.
func Match(shortages []Shortage, surpluses []Surplus, distances DistanceLookup, maxDistance float64) []domain.RebalanceSuggestion {
	var suggestions []domain.RebalanceSuggestion

	for _, shortage := range shortages {
		var (
			best         *Surplus
			bestDistance float64
			bestQty      float64
		)

		for i := range surpluses {
			surplus := &surpluses[i]
			if surplus.StoreID == shortage.StoreID || surplus.ProductName != shortage.ProductName {
				continue
			}

			distance, known := distances.Distance(shortage.StoreID, surplus.StoreID)
			if !known || !(distance <= maxDistance) {
				continue
			}
			if best != nil && distance >= bestDistance {
				continue
			}

			qty := min(shortage.Deficit, surplus.Amount)
			if qty <= 0 {
				continue
			}
			best, bestDistance, bestQty = surplus, distance, qty
		}

		if best == nil {
			continue
		}

		priority, ok := PriorityScore(shortage.Deficit, shortage.Tier, best.Amount)
		if !ok {
			logger.Log.Error().
				Str("product", shortage.ProductName).
				Str("from_store", best.StoreID).
				Str("to_store", shortage.StoreID).
				Msg("rebalance: zero surplus reached priority scoring, skipping")
			continue
		}

		suggestions = append(suggestions, domain.RebalanceSuggestion{
			FromStore:   best.StoreID,
			ToStore:     shortage.StoreID,
			ProductName: shortage.ProductName,
			TransferQty: bestQty,
			Distance:    bestDistance,
			Priority:    priority,
		})
	}

	SortSuggestions(suggestions)
	return suggestions
}

// PriorityScore weighs a shortage's deficit and urgency against the size of
// the surplus covering it. It reports false for a non-positive surplus.
func PriorityScore(deficit float64, tier int, surplusAmount float64) (float64, bool) {
	if surplusAmount <= 0 {
		return 0, false
	}
	return deficit * float64(tier) / surplusAmount, true
}

// SortSuggestions orders suggestions by descending priority, then product
// name, destination store and source store.
func SortSuggestions(s []domain.RebalanceSuggestion) {
	slices.SortStableFunc(s, func(a, b domain.RebalanceSuggestion) int {
		if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ProductName, b.ProductName); c != 0 {
			return c
		}
		if c := cmp.Compare(a.ToStore, b.ToStore); c != 0 {
			return c
		}
		return cmp.Compare(a.FromStore, b.FromStore)
	})
}
