package domain

import (
	"github.com/shopspring/decimal"
)

// YearlyLedgerEntry is one row of the age-indexed projection ledger.
//
// CashFlow is the year's own net flow (income - expenses - loan payments);
// it never includes the carried balance, so a deficit year stays visible even
// when prior surpluses cover it. TotalInflow adds the beginning balance, and
// EndingBalance carries forward floored at zero: the model reports shortfalls
// instead of auto-borrowing.
type YearlyLedgerEntry struct {
	Age              int             `json:"age"`
	Year             int             `json:"year"`
	BeginningBalance decimal.Decimal `json:"beginning_balance"`
	Income           decimal.Decimal `json:"income"`
	TotalInflow      decimal.Decimal `json:"total_inflow"`
	Expenses         decimal.Decimal `json:"expenses"`
	EventCosts       decimal.Decimal `json:"event_costs"`
	LoanPayments     decimal.Decimal `json:"loan_payments"`
	CashFlow         decimal.Decimal `json:"cash_flow"`
	EndingBalance    decimal.Decimal `json:"ending_balance"`
}

// InDeficit reports whether the year's own flow is negative.
func (e *YearlyLedgerEntry) InDeficit() bool {
	return e.CashFlow.IsNegative()
}

// GapAnalysis summarizes the deficit structure of a ledger.
type GapAnalysis struct {
	DeficitYears      int             `json:"deficit_years"`
	DeficitAges       []int           `json:"deficit_ages"`
	MaxConsecutive    int             `json:"max_consecutive"`
	TotalShortfall    decimal.Decimal `json:"total_shortfall"`
	LiquidAssets      decimal.Decimal `json:"liquid_assets"`
	ExhaustionAge     *int            `json:"exhaustion_age,omitempty"`
	YearsCovered      int             `json:"years_covered"`
	FirstDeficitAge   *int            `json:"first_deficit_age,omitempty"`
	RemainingReserve  decimal.Decimal `json:"remaining_reserve"`
}

// TraitAxis is one axis of the wealth classification: a short code, a human
// label, and a 0-100 progress score toward the healthiest tier.
type TraitAxis struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Progress int    `json:"progress"`
}

// WealthTypeResult is the four-axis classification of a ledger snapshot. It
// is immutable once computed.
type WealthTypeResult struct {
	Code         string    `json:"code"`
	Label        string    `json:"label"`
	Spending     TraitAxis `json:"spending"`
	IncomeSource TraitAxis `json:"income_source"`
	ExpenseLevel TraitAxis `json:"expense_level"`
	RiskCount    TraitAxis `json:"risk_count"`
	RiskFlags    []string  `json:"risk_flags,omitempty"`
}

// DisposableYear records the surplus left after required spending and target
// savings for one age.
type DisposableYear struct {
	Age    int             `json:"age"`
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

// ExcludedStream records an input stream that failed validation. The stream
// is skipped, except for an out-of-band custom amount, which projects on its
// tier default instead. The remaining streams always project normally.
type ExcludedStream struct {
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ProjectionSummary aggregates headline figures from the ledger.
type ProjectionSummary struct {
	TotalLifetimeIncome  decimal.Decimal `json:"total_lifetime_income"`
	TotalLifetimeExpense decimal.Decimal `json:"total_lifetime_expense"`
	TotalLoanPayments    decimal.Decimal `json:"total_loan_payments"`
	PeakBalance          decimal.Decimal `json:"peak_balance"`
	PeakBalanceAge       int             `json:"peak_balance_age"`
	FinalBalance         decimal.Decimal `json:"final_balance"`
}

// ProjectionResult is the complete engine output for one configuration.
type ProjectionResult struct {
	Entries    []YearlyLedgerEntry `json:"entries"`
	Gap        GapAnalysis         `json:"gap"`
	WealthType WealthTypeResult    `json:"wealth_type"`
	Disposable []DisposableYear    `json:"disposable"`
	Excluded   []ExcludedStream    `json:"excluded,omitempty"`
	Summary    ProjectionSummary   `json:"summary"`
}

// EntryAt returns the ledger entry for an age, or nil when out of range.
func (r *ProjectionResult) EntryAt(age int) *YearlyLedgerEntry {
	for i := range r.Entries {
		if r.Entries[i].Age == age {
			return &r.Entries[i]
		}
	}
	return nil
}
