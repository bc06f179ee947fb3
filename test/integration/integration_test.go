package integration

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/household-calculator/internal/calculation"
	"github.com/lifeplan/household-calculator/internal/config"
	"github.com/lifeplan/household-calculator/internal/domain"
)

func TestEndToEndProjection(t *testing.T) {
	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile("../testdata/example_config.yaml")
	require.NoError(t, err)

	engine := calculation.NewEngine()
	result, err := engine.Project(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Entries, 56)
	assert.Empty(t, result.Excluded)
	assert.True(t, result.Summary.TotalLifetimeIncome.GreaterThan(decimal.Zero))
	assert.True(t, result.Summary.TotalLoanPayments.GreaterThan(decimal.Zero))
	assert.Regexp(t, `^S\d-I\d-E\d-R\d$`, result.WealthType.Code)

	// The mortgage runs ages 33 through 57, the car loan 32 through 34.
	assert.True(t, result.EntryAt(33).LoanPayments.GreaterThan(result.EntryAt(58).LoanPayments))
	assert.True(t, result.EntryAt(58).LoanPayments.IsZero())
}

func TestStandardAnnuityLoan(t *testing.T) {
	loan := &domain.Loan{
		Name:              "reference mortgage",
		Principal:         decimal.NewFromInt(1_000_000),
		AnnualRatePercent: decimal.NewFromInt(6),
		Method:            domain.RepayEqualPayment,
		TermMonths:        360,
	}
	schedule, err := calculation.BuildLoanSchedule(loan)
	require.NoError(t, err)
	assert.Equal(t, "5995.51", schedule.MonthlyPayment.StringFixed(2))
}

func TestFlatHouseholdHasNoDeficit(t *testing.T) {
	zero := decimal.Zero
	cfg := &domain.Configuration{
		Person: domain.Person{Name: "Wei", BirthYear: 1995, Role: domain.RoleSelf},
		IncomeStreams: []domain.IncomeStream{
			{Name: "rental", Type: domain.IncomePassive, AnnualAmount: decimal.NewFromInt(200_000)},
		},
		Assumptions: domain.Assumptions{
			StartAge:         30,
			EndAge:           85,
			InflationPercent: &zero,
			Expenses:         domain.ExpenseAssumptions{BaseLiving: decimal.NewFromInt(150_000)},
		},
	}

	result, err := calculation.NewEngine().Project(context.Background(), cfg)
	require.NoError(t, err)

	fifty := decimal.NewFromInt(50_000)
	for _, e := range result.Entries {
		assert.True(t, e.CashFlow.Equal(fifty), "age %d: %s", e.Age, e.CashFlow)
	}
	assert.Equal(t, 0, result.Gap.DeficitYears)
}

func TestLiquidAssetsExhaustSameYear(t *testing.T) {
	entries := []domain.YearlyLedgerEntry{
		{Age: 39, CashFlow: decimal.NewFromInt(10_000)},
		{Age: 40, CashFlow: decimal.NewFromInt(-150_000)},
		{Age: 41, CashFlow: decimal.NewFromInt(10_000)},
	}
	gap := calculation.AnalyzeGaps(entries, decimal.NewFromInt(100_000))
	require.NotNil(t, gap.ExhaustionAge)
	assert.Equal(t, 40, *gap.ExhaustionAge)
}

func TestSupportPlanClampSequence(t *testing.T) {
	planner := calculation.NewPlanner([]domain.DisposableYear{
		{Age: 45, Year: 2040, Amount: decimal.NewFromInt(150_000)},
	}, 30)

	plan, err := planner.NewPlan(domain.CapCurrent, 45, 2040)
	require.NoError(t, err)

	// One beneficiary asking 200,000 against a 150,000 cap is clamped.
	plan = planner.AddBeneficiary(plan, "parents", decimal.NewFromInt(200_000))
	assert.Equal(t, "150000", plan.Beneficiaries[0].Amount.String())

	// A second asking 100,000 keeps it; the first absorbs the reduction.
	plan = planner.AddBeneficiary(plan, "sibling", decimal.NewFromInt(100_000))
	assert.Equal(t, "50000", plan.Beneficiaries[0].Amount.String())
	assert.Equal(t, "100000", plan.Beneficiaries[1].Amount.String())
	assert.True(t, plan.Allocated().Equal(plan.MaxAmount))
}

func TestOutOfBandCustomAmountKeepsDefault(t *testing.T) {
	// Premium birth band runs 200,000 to 500,000; 50,000 is rejected and the
	// 300,000 default stays in effect.
	low := decimal.NewFromInt(50_000)
	cfg := &domain.Configuration{
		Person: domain.Person{Name: "Wei", BirthYear: 1995, Role: domain.RoleSelf},
		LifeEvents: []domain.LifeEvent{
			{Kind: domain.EventBirth, Tier: "premium", AtAge: 33, CustomAmount: &low},
		},
		Assumptions: domain.Assumptions{StartAge: 30, EndAge: 85},
	}

	result, err := calculation.NewEngine().Project(context.Background(), cfg)
	require.NoError(t, err)

	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "custom_amount", result.Excluded[0].Field)

	// Default 300,000 at the reference age, inflated 2%/yr to age 33.
	want := calculation.AdjustForInflation(decimal.NewFromInt(300_000), 30, 33, decimal.NewFromInt(2))
	entry := result.EntryAt(33)
	require.NotNil(t, entry)
	assert.True(t, entry.EventCosts.Equal(want), "got %s want %s", entry.EventCosts, want)
}
