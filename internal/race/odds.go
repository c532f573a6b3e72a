package race

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	DefaultOdds = 2.0
	MinOdds     = 1.3
	MaxOdds     = 8.0

	// basePoolPerEntrant is synthetic liquidity that damps early swings
	basePoolPerEntrant = 50
	houseFactor        = 0.9
)

// ComputeOdds returns the payout multiplier per entrant for the current pool.
// Every value is within [MinOdds, MaxOdds] and rounded to two decimals.
func ComputeOdds(book BetBook) []float64 {
	n := len(book)
	odds := make([]float64, n)
	if n == 0 {
		return odds
	}

	totalPool := book.TotalPool()
	if totalPool == 0 {
		for i := range odds {
			odds[i] = DefaultOdds
		}
		return odds
	}

	basePool := float64(n * basePoolPerEntrant)
	adjustedTotal := float64(totalPool) + basePool
	for i, entry := range book {
		snailPool := float64(entry.Total) + basePool/float64(n)
		if snailPool == 0 {
			odds[i] = MaxOdds
			continue
		}
		raw := math.Max(MinOdds, math.Min(MaxOdds, adjustedTotal/snailPool*houseFactor))
		odds[i] = decimal.NewFromFloat(raw).Round(2).InexactFloat64()
	}
	return odds
}

// Payout is floor(stake * multiplier)
func Payout(stake int, multiplier float64) int {
	return int(decimal.NewFromInt(int64(stake)).
		Mul(decimal.NewFromFloat(multiplier)).
		Floor().
		IntPart())
}
