package calculation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
	"github.com/lifeplan/household-calculator/pkg/money"
)

// DisposableByAge computes, per ledger year, the surplus left after required
// spending, loan service, and the target savings rate. Negative surpluses
// floor at zero.
func DisposableByAge(cfg *domain.Configuration, entries []domain.YearlyLedgerEntry) []domain.DisposableYear {
	assume := cfg.Assumptions.Normalized()
	savingsRate := assume.TargetSavingsPercent.Div(decimal.NewFromInt(100))

	out := make([]domain.DisposableYear, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		savings := e.Income.Mul(savingsRate)
		surplus := e.CashFlow.Sub(savings)
		if surplus.IsNegative() {
			surplus = decimal.Zero
		}
		out = append(out, domain.DisposableYear{Age: e.Age, Year: e.Year, Amount: surplus})
	}
	return out
}

// Planner validates support-plan allocations against the disposable surplus.
// Plans are value objects: every operation returns a re-clamped copy so the
// sum-under-cap invariant holds after any sequence of mutations.
type Planner struct {
	disposable  []domain.DisposableYear
	baselineAge int
}

// NewPlanner builds a planner over the per-age disposable amounts. The
// cumulative cap accumulates from baselineAge, the start of the projection.
func NewPlanner(disposable []domain.DisposableYear, baselineAge int) *Planner {
	return &Planner{disposable: disposable, baselineAge: baselineAge}
}

// DisposableAt returns the single year's disposable amount.
func (p *Planner) DisposableAt(age int) decimal.Decimal {
	for _, d := range p.disposable {
		if d.Age == age {
			return d.Amount
		}
	}
	return decimal.Zero
}

// CumulativeThrough sums disposable amounts from the baseline age through the
// target age inclusive.
func (p *Planner) CumulativeThrough(age int) decimal.Decimal {
	total := decimal.Zero
	for _, d := range p.disposable {
		if d.Age >= p.baselineAge && d.Age <= age {
			total = total.Add(d.Amount)
		}
	}
	return total
}

// NewPlan creates an empty support plan for the target age, capped by the
// chosen mode.
func (p *Planner) NewPlan(mode domain.CapMode, targetAge, targetYear int) (*domain.SupportPlan, error) {
	var ceiling decimal.Decimal
	switch mode {
	case domain.CapCurrent:
		ceiling = p.DisposableAt(targetAge)
	case domain.CapCumulative:
		ceiling = p.CumulativeThrough(targetAge)
	default:
		return nil, domain.Invalid("mode", "unknown cap mode %q", mode)
	}
	return &domain.SupportPlan{
		TargetAge:  targetAge,
		TargetYear: targetYear,
		Mode:       mode,
		MaxAmount:  ceiling,
	}, nil
}

// AddBeneficiary appends a beneficiary and re-clamps the whole plan. The new
// beneficiary keeps its requested amount up to the cap; earlier beneficiaries
// absorb any reduction. Over-allocation is a UI artifact, so it is corrected,
// never rejected.
func (p *Planner) AddBeneficiary(plan *domain.SupportPlan, name string, amount decimal.Decimal) *domain.SupportPlan {
	next := clonePlan(plan)
	b := domain.Beneficiary{ID: uuid.NewString(), Name: name, Amount: amount}
	next.Beneficiaries = append(next.Beneficiaries, b)
	reclamp(next, b.ID)
	return next
}

// EditBeneficiary sets a beneficiary's amount and re-clamps, with the edited
// beneficiary keeping priority.
func (p *Planner) EditBeneficiary(plan *domain.SupportPlan, id string, amount decimal.Decimal) (*domain.SupportPlan, error) {
	next := clonePlan(plan)
	found := false
	for i := range next.Beneficiaries {
		if next.Beneficiaries[i].ID == id {
			next.Beneficiaries[i].Amount = amount
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrBeneficiaryNotFound
	}
	reclamp(next, id)
	return next, nil
}

// RemoveBeneficiary drops a beneficiary. Removing the last one returns a nil
// plan: a plan with zero beneficiaries is deleted rather than kept empty.
func (p *Planner) RemoveBeneficiary(plan *domain.SupportPlan, id string) (*domain.SupportPlan, error) {
	idx := -1
	for i := range plan.Beneficiaries {
		if plan.Beneficiaries[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, domain.ErrBeneficiaryNotFound
	}
	if len(plan.Beneficiaries) == 1 {
		return nil, nil
	}
	next := clonePlan(plan)
	next.Beneficiaries = append(next.Beneficiaries[:idx], next.Beneficiaries[idx+1:]...)
	reclamp(next, "")
	return next, nil
}

// reclamp enforces sum(amounts) <= MaxAmount. The priority beneficiary keeps
// its amount up to the ceiling; the rest split the remaining headroom in slice
// order.
func reclamp(plan *domain.SupportPlan, priorityID string) {
	ceiling := money.FromDecimal(plan.MaxAmount)
	remaining := ceiling

	if priorityID != "" {
		for i := range plan.Beneficiaries {
			b := &plan.Beneficiaries[i]
			if b.ID == priorityID {
				clamped := money.Clamp(money.FromDecimal(b.Amount), money.Zero(), ceiling)
				b.Amount = clamped.Decimal
				remaining = remaining.Sub(clamped)
				break
			}
		}
	}

	for i := range plan.Beneficiaries {
		b := &plan.Beneficiaries[i]
		if b.ID == priorityID {
			continue
		}
		clamped := money.Clamp(money.FromDecimal(b.Amount), money.Zero(), money.Max(remaining, money.Zero()))
		b.Amount = clamped.Decimal
		remaining = remaining.Sub(clamped)
	}
}

func clonePlan(plan *domain.SupportPlan) *domain.SupportPlan {
	next := *plan
	next.Beneficiaries = append([]domain.Beneficiary(nil), plan.Beneficiaries...)
	return &next
}
