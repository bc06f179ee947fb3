package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// AnalyzeGaps scans the ledger once for deficit structure. A year is in
// deficit when its own cash flow is negative, regardless of whether carried
// balance covered it. Given a liquid-asset balance, the analysis also finds
// the first age where the cumulative deficit reaches the balance; exact
// exhaustion counts as that year, not the following one, and a zero
// reserve is exhausted by the first deficit year.
func AnalyzeGaps(entries []domain.YearlyLedgerEntry, liquidAssets decimal.Decimal) domain.GapAnalysis {
	gap := domain.GapAnalysis{LiquidAssets: liquidAssets}

	cumulative := decimal.Zero
	streak := 0
	for i := range entries {
		e := &entries[i]
		if !e.InDeficit() {
			streak = 0
			continue
		}

		shortfall := e.CashFlow.Abs()
		gap.DeficitYears++
		gap.DeficitAges = append(gap.DeficitAges, e.Age)
		gap.TotalShortfall = gap.TotalShortfall.Add(shortfall)
		if gap.FirstDeficitAge == nil {
			age := e.Age
			gap.FirstDeficitAge = &age
		}

		streak++
		if streak > gap.MaxConsecutive {
			gap.MaxConsecutive = streak
		}

		cumulative = cumulative.Add(shortfall)
		if gap.ExhaustionAge == nil && cumulative.GreaterThanOrEqual(liquidAssets) {
			age := e.Age
			gap.ExhaustionAge = &age
		}
	}

	if gap.ExhaustionAge != nil && gap.FirstDeficitAge != nil {
		gap.YearsCovered = *gap.ExhaustionAge - *gap.FirstDeficitAge
	}
	gap.RemainingReserve = liquidAssets.Sub(gap.TotalShortfall)
	if gap.RemainingReserve.IsNegative() {
		gap.RemainingReserve = decimal.Zero
	}
	return gap
}
