package output

import (
	"bytes"
	"fmt"

	"github.com/lifeplan/household-calculator/internal/domain"
	"github.com/lifeplan/household-calculator/pkg/money"
)

// ConsoleFormatter provides a concise console summary of a projection.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.ProjectionResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "LIFETIME PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Wealth type: %s (%s)\n", result.WealthType.Code, result.WealthType.Label)
	fmt.Fprintf(&buf, "Lifetime income:   %s\n", money.FromDecimal(result.Summary.TotalLifetimeIncome).FormatWan())
	fmt.Fprintf(&buf, "Lifetime expenses: %s\n", money.FromDecimal(result.Summary.TotalLifetimeExpense).FormatWan())
	fmt.Fprintf(&buf, "Loan payments:     %s\n", money.FromDecimal(result.Summary.TotalLoanPayments).FormatWan())
	fmt.Fprintf(&buf, "Peak balance:      %s at age %d\n", money.FromDecimal(result.Summary.PeakBalance).FormatWan(), result.Summary.PeakBalanceAge)
	fmt.Fprintf(&buf, "Final balance:     %s\n", money.FromDecimal(result.Summary.FinalBalance).FormatWan())
	fmt.Fprintln(&buf)

	gap := result.Gap
	if gap.DeficitYears == 0 {
		fmt.Fprintln(&buf, "No deficit years.")
	} else {
		fmt.Fprintf(&buf, "Deficit years: %d (max streak %d), total shortfall %s\n",
			gap.DeficitYears, gap.MaxConsecutive, money.FromDecimal(gap.TotalShortfall).FormatWan())
		if gap.FirstDeficitAge != nil {
			fmt.Fprintf(&buf, "First deficit at age %d\n", *gap.FirstDeficitAge)
		}
		if gap.ExhaustionAge != nil {
			fmt.Fprintf(&buf, "Liquid assets exhausted at age %d\n", *gap.ExhaustionAge)
		}
	}

	if len(result.Excluded) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Excluded streams:")
		for _, ex := range result.Excluded {
			fmt.Fprintf(&buf, "  %s %q (%s): %s\n", ex.Kind, ex.Name, ex.Field, ex.Reason)
		}
	}

	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "Age  Year   Income       Expenses     Loans        CashFlow     Balance")
	for _, e := range result.Entries {
		marker := " "
		if e.InDeficit() {
			marker = "!"
		}
		fmt.Fprintf(&buf, "%-4d %-6d %-12s %-12s %-12s %s%-12s %-12s\n",
			e.Age, e.Year,
			e.Income.StringFixed(0),
			e.Expenses.StringFixed(0),
			e.LoanPayments.StringFixed(0),
			marker,
			e.CashFlow.StringFixed(0),
			e.EndingBalance.StringFixed(0))
	}
	return buf.Bytes(), nil
}
