package calculation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/household-calculator/internal/domain"
)

func TestProjectFlatScenario(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Project(context.Background(), flatConfig())
	require.NoError(t, err)

	require.Len(t, result.Entries, 56)
	assert.Equal(t, 0, result.Gap.DeficitYears)
	assert.Empty(t, result.Excluded)
	assert.Equal(t, "11200000", result.Summary.TotalLifetimeIncome.String())
	assert.Equal(t, 85, result.Summary.PeakBalanceAge)
	assert.True(t, result.Summary.FinalBalance.Equal(result.Entries[55].EndingBalance))
	require.Len(t, result.Disposable, 56)
}

func TestProjectRejectsNilAndBadConfig(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Project(context.Background(), nil)
	assert.Error(t, err)

	cfg := flatConfig()
	cfg.Assumptions.StartAge = 60
	cfg.Assumptions.EndAge = 50
	_, err = engine.Project(context.Background(), cfg)
	assert.True(t, domain.IsValidation(err))
}

func TestProjectHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine().Project(ctx, flatConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProjectOutOfBandCustomKeepsTierDefault(t *testing.T) {
	cfg := flatConfig()
	low := decimal.NewFromInt(50_000)
	cfg.LifeEvents = []domain.LifeEvent{
		{Kind: domain.EventMarriage, Tier: "premium", AtAge: 31, CustomAmount: &low},
	}

	result, err := NewEngine().Project(context.Background(), cfg)
	require.NoError(t, err)

	// The rejection is surfaced per-field, and the tier default still lands
	// in the ledger.
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "custom_amount", result.Excluded[0].Field)
	assert.Equal(t, "marriage", result.Excluded[0].Name)

	entry := result.EntryAt(31)
	require.NotNil(t, entry)
	assert.Equal(t, "500000.00", entry.EventCosts.StringFixed(2))
}

func TestProjectCarUnitOutOfBandKeepsSiblings(t *testing.T) {
	cfg := flatConfig()
	bad := decimal.NewFromInt(1_000)
	cfg.LifeEvents = []domain.LifeEvent{
		{Kind: domain.EventCar, Cars: []domain.CarPurchase{
			{Tier: "essential", AtAge: 32, CustomAmount: &bad},
			{Tier: "comfort", AtAge: 45},
		}},
	}

	result, err := NewEngine().Project(context.Background(), cfg)
	require.NoError(t, err)

	// Only the offending unit is reported; its tier default and the valid
	// sibling both reach the ledger.
	require.Len(t, result.Excluded, 1)
	assert.Equal(t, "custom_amount", result.Excluded[0].Field)
	assert.Equal(t, "car", result.Excluded[0].Name)
	assert.Contains(t, result.Excluded[0].Reason, "car 1")

	assert.Equal(t, "100000.00", result.EntryAt(32).EventCosts.StringFixed(2))
	assert.Equal(t, "250000.00", result.EntryAt(45).EventCosts.StringFixed(2))
}

func TestProjectExcludesInvalidStreamsIndependently(t *testing.T) {
	cfg := flatConfig()
	cfg.LifeEvents = []domain.LifeEvent{
		{Kind: domain.EventHousing, Tier: "comfort"}, // missing at_age
		{Kind: domain.EventTravel, Tier: "essential", StartAge: 35, EndAge: 40},
	}
	cfg.Loans = []domain.Loan{
		{Name: "bad loan", Method: "balloon", Principal: decimal.NewFromInt(1000), TermMonths: 12},
		{Name: "car loan", Method: domain.RepayEqualPayment, Principal: decimal.NewFromInt(120_000), TermMonths: 12, StartAge: 32},
	}

	result, err := NewEngine().Project(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, result.Excluded, 2)

	kinds := map[string]string{}
	for _, ex := range result.Excluded {
		kinds[ex.Kind] = ex.Name
	}
	assert.Equal(t, "housing", kinds["event"])
	assert.Equal(t, "bad loan", kinds["loan"])

	// The valid loan and event still project.
	entry := result.EntryAt(32)
	require.NotNil(t, entry)
	assert.Equal(t, "120000.00", entry.LoanPayments.StringFixed(2))
	assert.True(t, result.EntryAt(35).EventCosts.IsPositive())
}

func TestProjectLoanStartAgeFromStartDate(t *testing.T) {
	cfg := flatConfig()
	start := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg.Loans = []domain.Loan{{
		Name:       "mortgage",
		Method:     domain.RepayEqualPayment,
		Principal:  decimal.NewFromInt(240_000),
		TermMonths: 12,
		StartDate:  &start,
	}}

	result, err := NewEngine().Project(context.Background(), cfg)
	require.NoError(t, err)

	// Born 1995, loan starts 2030: payments land at age 35.
	entry := result.EntryAt(35)
	require.NotNil(t, entry)
	assert.Equal(t, "240000.00", entry.LoanPayments.StringFixed(2))
}

func TestProjectIsDeterministic(t *testing.T) {
	engine := NewEngine()
	cfg := flatConfig()
	cfg.LifeEvents = []domain.LifeEvent{
		{Kind: domain.EventTravel, Tier: "comfort", StartAge: 35, EndAge: 70},
	}

	first, err := engine.Project(context.Background(), cfg)
	require.NoError(t, err)
	second, err := engine.Project(context.Background(), cfg)
	require.NoError(t, err)

	for i := range first.Entries {
		assert.True(t, first.Entries[i].EndingBalance.Equal(second.Entries[i].EndingBalance),
			"age %d diverged", first.Entries[i].Age)
	}
	assert.Equal(t, first.WealthType.Code, second.WealthType.Code)
}
