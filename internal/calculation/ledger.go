package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// LedgerBuilder walks ages start through end and produces one ledger entry
// per year from the resolved cost sources. It is a pure state machine: given
// identical inputs the ledger is bit-for-bit reproducible.
type LedgerBuilder struct {
	cfg    *domain.Configuration
	assume domain.Assumptions
	events []CostStream
	// loan payments aggregated to annual, keyed by the planner's age
	loanPayments map[int]decimal.Decimal
	logger       Logger
}

// NewLedgerBuilder wires a builder over an immutable configuration, the
// resolved event streams, and the per-age loan payment totals.
func NewLedgerBuilder(cfg *domain.Configuration, events []CostStream, loanPayments map[int]decimal.Decimal, logger Logger) *LedgerBuilder {
	if logger == nil {
		logger = NopLogger{}
	}
	return &LedgerBuilder{
		cfg:          cfg,
		assume:       cfg.Assumptions.Normalized(),
		events:       events,
		loanPayments: loanPayments,
		logger:       logger,
	}
}

// Build produces the full age-indexed ledger. A year's ending balance is the
// prior balance plus the year's flow, floored at zero: deficits are reported,
// never carried forward as debt.
func (lb *LedgerBuilder) Build() []domain.YearlyLedgerEntry {
	startAge, endAge := lb.assume.StartAge, lb.assume.EndAge
	entries := make([]domain.YearlyLedgerEntry, 0, endAge-startAge+1)

	balance := lb.assume.OpeningBalance
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	for age := startAge; age <= endAge; age++ {
		income := lb.incomeAt(age)
		required := lb.requiredExpensesAt(age)
		eventCosts := lb.eventCostsAt(age)
		loan := lb.loanPayments[age]

		expenses := required.Add(eventCosts)
		cashFlow := income.Sub(expenses).Sub(loan)
		ending := balance.Add(cashFlow)
		if ending.IsNegative() {
			lb.logger.Debugf("age %d: shortfall %s not carried forward", age, ending.Abs().StringFixed(2))
			ending = decimal.Zero
		}

		entries = append(entries, domain.YearlyLedgerEntry{
			Age:              age,
			Year:             lb.cfg.Person.YearAtAge(age),
			BeginningBalance: balance,
			Income:           income,
			TotalInflow:      income.Add(balance),
			Expenses:         expenses,
			EventCosts:       eventCosts,
			LoanPayments:     loan,
			CashFlow:         cashFlow,
			EndingBalance:    ending,
		})
		balance = ending
	}
	return entries
}

// incomeAt sums every stream active at the given age. Career income zeroes
// out at the owner's retirement age; passive income continues.
func (lb *LedgerBuilder) incomeAt(age int) decimal.Decimal {
	total := decimal.Zero
	for i := range lb.cfg.IncomeStreams {
		s := &lb.cfg.IncomeStreams[i]
		total = total.Add(lb.streamAmountAt(s, age))
	}
	return total
}

func (lb *LedgerBuilder) streamAmountAt(s *domain.IncomeStream, age int) decimal.Decimal {
	start := s.StartAge
	if start == 0 {
		start = lb.assume.StartAge
	}
	end := s.EndAge
	if end == 0 {
		end = lb.assume.EndAge
	}
	if age < start || age > end {
		return decimal.Zero
	}
	if s.Type == domain.IncomeCareer {
		owner := lb.ownerOf(s)
		ownerAge := owner.Age(lb.cfg.Person.YearAtAge(age))
		retireAt := owner.RetirementAge
		if retireAt == 0 {
			retireAt = domain.DefaultRetirementAge
		}
		if ownerAge >= retireAt {
			return decimal.Zero
		}
	}
	if s.AnnualGrowthPercent.IsZero() {
		return s.AnnualAmount
	}
	return AdjustForInflation(s.AnnualAmount, start, age, s.AnnualGrowthPercent)
}

func (lb *LedgerBuilder) ownerOf(s *domain.IncomeStream) *domain.Person {
	if s.Owner == "" || s.Owner == lb.cfg.Person.Name {
		return &lb.cfg.Person
	}
	if lb.cfg.Partner != nil && lb.cfg.Partner.Name == s.Owner {
		return lb.cfg.Partner
	}
	return &lb.cfg.Person
}

// requiredExpensesAt sums the base-life, medical, and education bands for the
// age, each inflation-adjusted from the reference age.
func (lb *LedgerBuilder) requiredExpensesAt(age int) decimal.Decimal {
	exp := lb.assume.Expenses
	inflPct := *lb.assume.InflationPercent
	refAge := lb.assume.ReferenceAge

	base := exp.BaseLiving
	if age >= lb.selfRetirementAge() && !exp.RetirementLivingFactor.IsZero() {
		base = base.Mul(exp.RetirementLivingFactor)
	}

	medical := exp.Medical
	if age >= exp.MedicalElderAge {
		medical = medical.Mul(exp.MedicalElderFactor)
	}

	education := decimal.Zero
	if !exp.EducationPerChild.IsZero() {
		year := lb.cfg.Person.YearAtAge(age)
		for i := range lb.cfg.Children {
			childAge := lb.cfg.Children[i].Age(year)
			if childAge >= exp.EducationStartAge && childAge <= exp.EducationEndAge {
				education = education.Add(exp.EducationPerChild)
			}
		}
	}

	nominal := base.Add(medical).Add(education)
	return AdjustForInflation(nominal, refAge, age, inflPct)
}

func (lb *LedgerBuilder) selfRetirementAge() int {
	if lb.cfg.Person.RetirementAge > 0 {
		return lb.cfg.Person.RetirementAge
	}
	return domain.DefaultRetirementAge
}

// eventCostsAt sums each resolved cost stream occurring at the age,
// inflation-adjusted from the reference age.
func (lb *LedgerBuilder) eventCostsAt(age int) decimal.Decimal {
	total := decimal.Zero
	for i := range lb.events {
		cs := &lb.events[i]
		for _, at := range cs.OccursAtAges {
			if at == age {
				total = total.Add(cs.AmountAt(age, lb.assume.ReferenceAge, *lb.assume.InflationPercent))
			}
		}
	}
	return total
}
