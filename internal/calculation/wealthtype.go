package calculation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// ClassifyWealth derives the four-axis wealth type from ledger aggregates.
// Each axis is evaluated independently against fixed threshold rules, so the
// result is stable for a given ledger and monotonic in each axis's primary
// driver.
func ClassifyWealth(cfg *domain.Configuration, entries []domain.YearlyLedgerEntry, gap domain.GapAnalysis) domain.WealthTypeResult {
	spending := classifySpending(entries)
	incomeSource := classifyIncomeSource(cfg, entries)
	expenseLevel := classifyExpenseLevel(entries)
	riskCount, flags := classifyRisk(cfg, entries, gap)

	result := domain.WealthTypeResult{
		Spending:     spending,
		IncomeSource: incomeSource,
		ExpenseLevel: expenseLevel,
		RiskCount:    riskCount,
		RiskFlags:    flags,
	}
	result.Code = strings.Join([]string{spending.Code, incomeSource.Code, expenseLevel.Code, riskCount.Code}, "-")
	result.Label = strings.Join([]string{spending.Label, incomeSource.Label, expenseLevel.Label, riskCount.Label}, " · ")
	return result
}

// classifySpending buckets the ratio of required spending to income.
func classifySpending(entries []domain.YearlyLedgerEntry) domain.TraitAxis {
	totalIncome := decimal.Zero
	totalSpend := decimal.Zero
	for i := range entries {
		totalIncome = totalIncome.Add(entries[i].Income)
		totalSpend = totalSpend.Add(entries[i].Expenses).Add(entries[i].LoanPayments)
	}
	if totalIncome.IsZero() {
		return domain.TraitAxis{Code: "S1", Label: "severe compression", Progress: 0}
	}
	ratio := totalSpend.Div(totalIncome)

	progress := decimal.NewFromInt(1).Sub(ratio).Mul(decimal.NewFromInt(100))
	switch {
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.95)):
		return domain.TraitAxis{Code: "S1", Label: "severe compression", Progress: clampProgress(progress)}
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.80)):
		return domain.TraitAxis{Code: "S2", Label: "tight", Progress: clampProgress(progress)}
	case ratio.GreaterThanOrEqual(decimal.NewFromFloat(0.60)):
		return domain.TraitAxis{Code: "S3", Label: "balanced", Progress: clampProgress(progress)}
	default:
		return domain.TraitAxis{Code: "S4", Label: "surplus", Progress: clampProgress(progress)}
	}
}

// classifyIncomeSource finds the dominant contributor among career, passive,
// and mixed income.
func classifyIncomeSource(cfg *domain.Configuration, entries []domain.YearlyLedgerEntry) domain.TraitAxis {
	career := decimal.Zero
	passive := decimal.Zero
	lb := NewLedgerBuilder(cfg, nil, nil, nil)
	for i := range cfg.IncomeStreams {
		s := &cfg.IncomeStreams[i]
		for _, e := range entries {
			amount := lb.streamAmountAt(s, e.Age)
			if s.Type == domain.IncomePassive {
				passive = passive.Add(amount)
			} else {
				career = career.Add(amount)
			}
		}
	}
	total := career.Add(passive)
	if total.IsZero() {
		return domain.TraitAxis{Code: "I3", Label: "mixed income", Progress: 0}
	}
	passiveShare := passive.Div(total)
	progress := clampProgress(passiveShare.Mul(decimal.NewFromInt(100)))
	switch {
	case passiveShare.LessThan(decimal.NewFromFloat(0.30)):
		return domain.TraitAxis{Code: "I1", Label: "career funded", Progress: progress}
	case passiveShare.GreaterThan(decimal.NewFromFloat(0.70)):
		return domain.TraitAxis{Code: "I2", Label: "passive funded", Progress: progress}
	default:
		return domain.TraitAxis{Code: "I3", Label: "mixed income", Progress: progress}
	}
}

// Expense-level percentile thresholds for lifetime outflow, in yuan.
var expenseLevelThresholds = []struct {
	limit decimal.Decimal
	code  string
	label string
}{
	{decimal.NewFromInt(5_000_000), "E1", "lean spend"},
	{decimal.NewFromInt(12_000_000), "E2", "moderate spend"},
	{decimal.NewFromInt(25_000_000), "E3", "elevated spend"},
}

func classifyExpenseLevel(entries []domain.YearlyLedgerEntry) domain.TraitAxis {
	lifetime := decimal.Zero
	for i := range entries {
		lifetime = lifetime.Add(entries[i].Expenses).Add(entries[i].LoanPayments)
	}
	top := expenseLevelThresholds[len(expenseLevelThresholds)-1].limit
	progress := clampProgress(lifetime.Div(top).Mul(decimal.NewFromInt(100)))
	for _, th := range expenseLevelThresholds {
		if lifetime.LessThan(th.limit) {
			return domain.TraitAxis{Code: th.code, Label: th.label, Progress: progress}
		}
	}
	return domain.TraitAxis{Code: "E4", Label: "heavy spend", Progress: progress}
}

// classifyRisk counts triggered risk flags, each a fixed threshold rule.
func classifyRisk(cfg *domain.Configuration, entries []domain.YearlyLedgerEntry, gap domain.GapAnalysis) (domain.TraitAxis, []string) {
	var flags []string

	careerStreams := 0
	for i := range cfg.IncomeStreams {
		if cfg.IncomeStreams[i].Type == domain.IncomeCareer {
			careerStreams++
		}
	}
	if careerStreams <= 1 {
		flags = append(flags, "single_earner")
	}
	if gap.MaxConsecutive >= 3 {
		flags = append(flags, "deficit_streak")
	}
	if avg := averageExpenses(entries); avg.IsPositive() && cfg.LiquidAssets().LessThan(avg) {
		flags = append(flags, "thin_reserve")
	}
	if hasLoanPressure(entries) {
		flags = append(flags, "loan_pressure")
	}
	if !passiveActiveAtRetirement(cfg) {
		flags = append(flags, "no_passive_at_retirement")
	}

	n := len(flags)
	label := "insulated"
	switch {
	case n >= 3:
		label = "fragile"
	case n == 2:
		label = "exposed"
	case n == 1:
		label = "watchful"
	}
	progress := 100 - 25*n
	if progress < 0 {
		progress = 0
	}
	return domain.TraitAxis{Code: fmt.Sprintf("R%d", n), Label: label, Progress: progress}, flags
}

func averageExpenses(entries []domain.YearlyLedgerEntry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for i := range entries {
		total = total.Add(entries[i].Expenses).Add(entries[i].LoanPayments)
	}
	return total.Div(decimal.NewFromInt(int64(len(entries))))
}

func hasLoanPressure(entries []domain.YearlyLedgerEntry) bool {
	threshold := decimal.NewFromFloat(0.4)
	for i := range entries {
		e := &entries[i]
		if e.Income.IsPositive() && e.LoanPayments.Div(e.Income).GreaterThan(threshold) {
			return true
		}
	}
	return false
}

func passiveActiveAtRetirement(cfg *domain.Configuration) bool {
	retireAt := cfg.RetirementAgeOf(cfg.Person.Name)
	assume := cfg.Assumptions.Normalized()
	for i := range cfg.IncomeStreams {
		s := &cfg.IncomeStreams[i]
		if s.Type != domain.IncomePassive {
			continue
		}
		end := s.EndAge
		if end == 0 {
			end = assume.EndAge
		}
		if end >= retireAt {
			return true
		}
	}
	return false
}

func clampProgress(d decimal.Decimal) int {
	n := int(d.Round(0).IntPart())
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
