package calculation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeplan/household-calculator/internal/domain"
)

func TestAnnuityPayment(t *testing.T) {
	tests := []struct {
		name        string
		principal   decimal.Decimal
		monthlyRate decimal.Decimal
		months      int
		expected    string
	}{
		{
			name:        "Standard 30-year mortgage at 6 percent",
			principal:   decimal.NewFromInt(1_000_000),
			monthlyRate: decimal.NewFromFloat(0.005),
			months:      360,
			expected:    "5995.51",
		},
		{
			name:        "Zero rate degrades to principal over months",
			principal:   decimal.NewFromInt(360_000),
			monthlyRate: decimal.Zero,
			months:      36,
			expected:    "10000.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := AnnuityPayment(tt.principal, tt.monthlyRate, tt.months)
			assert.Equal(t, tt.expected, payment.StringFixed(2))
		})
	}
}

func TestEqualPaymentSchedule(t *testing.T) {
	loan := &domain.Loan{
		Name:              "mortgage",
		Principal:         decimal.NewFromInt(1_000_000),
		AnnualRatePercent: decimal.NewFromInt(6),
		Method:            domain.RepayEqualPayment,
		TermMonths:        360,
	}

	schedule, err := BuildLoanSchedule(loan)
	require.NoError(t, err)
	require.Len(t, schedule.Periods, 360)

	// The balance closes at zero and the principal portions sum back to P.
	last := schedule.Periods[len(schedule.Periods)-1]
	assert.True(t, last.Remaining.IsZero(), "final balance = %s", last.Remaining)

	totalPrincipal := decimal.Zero
	for _, p := range schedule.Periods {
		totalPrincipal = totalPrincipal.Add(p.Principal)
	}
	assert.True(t, totalPrincipal.Equal(loan.Principal),
		"principal portions sum to %s, want %s", totalPrincipal, loan.Principal)

	// Interest plus principal accounts for every unit paid.
	assert.True(t, schedule.TotalPayment.Equal(schedule.TotalInterest.Add(totalPrincipal)),
		"total %s != interest %s + principal %s",
		schedule.TotalPayment, schedule.TotalInterest, totalPrincipal)

	// Interest share declines monotonically.
	for i := 1; i < len(schedule.Periods); i++ {
		assert.True(t, schedule.Periods[i].Interest.LessThan(schedule.Periods[i-1].Interest),
			"interest did not decline at period %d", i+1)
	}
}

func TestEqualPrincipalSchedule(t *testing.T) {
	loan := &domain.Loan{
		Name:              "car loan",
		Principal:         decimal.NewFromInt(120_000),
		AnnualRatePercent: decimal.NewFromInt(12),
		Method:            domain.RepayEqualPrincipal,
		TermMonths:        24,
	}

	schedule, err := BuildLoanSchedule(loan)
	require.NoError(t, err)
	require.Len(t, schedule.Periods, 24)

	// First payment is P/n plus a full month of interest on P: 5000 + 1200.
	assert.Equal(t, "6200.00", schedule.Periods[0].Payment.StringFixed(2))

	// Payments decline monotonically as the balance shrinks.
	for i := 1; i < len(schedule.Periods); i++ {
		assert.True(t, schedule.Periods[i].Payment.LessThan(schedule.Periods[i-1].Payment),
			"payment did not decline at period %d", i+1)
	}
	assert.True(t, schedule.Periods[23].Remaining.IsZero())
}

func TestInterestFirstSchedule(t *testing.T) {
	loan := &domain.Loan{
		Name:              "bridge loan",
		Principal:         decimal.NewFromInt(100_000),
		AnnualRatePercent: decimal.NewFromInt(12),
		Method:            domain.RepayInterestFirst,
		TermMonths:        24,
	}

	schedule, err := BuildLoanSchedule(loan)
	require.NoError(t, err)

	// 100,000 at 1% monthly: 1,000 interest per period, principal due at the end.
	assert.Equal(t, "1000.00", schedule.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "1000.00", schedule.Periods[0].Payment.StringFixed(2))
	assert.Equal(t, "101000.00", schedule.Periods[23].Payment.StringFixed(2))
	assert.Equal(t, "24000.00", schedule.TotalInterest.StringFixed(2))
	assert.True(t, schedule.Periods[23].Remaining.IsZero())
}

func TestLumpSumSchedule(t *testing.T) {
	loan := &domain.Loan{
		Name:              "business loan",
		Principal:         decimal.NewFromInt(100_000),
		AnnualRatePercent: decimal.NewFromInt(5),
		Method:            domain.RepayLumpSum,
		TermMonths:        24,
	}

	schedule, err := BuildLoanSchedule(loan)
	require.NoError(t, err)

	// Nothing due until term end, then P plus simple interest for two years.
	assert.True(t, schedule.MonthlyPayment.IsZero())
	for _, p := range schedule.Periods[:23] {
		assert.True(t, p.Payment.IsZero(), "period %d should be zero", p.Period)
	}
	assert.Equal(t, "110000.00", schedule.Periods[23].Payment.StringFixed(2))
	assert.Equal(t, "110000.00", schedule.TotalPayment.StringFixed(2))
}

func TestBuildLoanScheduleUsesRemainingPrincipal(t *testing.T) {
	remaining := decimal.NewFromInt(240_000)
	loan := &domain.Loan{
		Name:               "refinanced mortgage",
		Principal:          decimal.NewFromInt(1_000_000),
		RemainingPrincipal: &remaining,
		AnnualRatePercent:  decimal.Zero,
		Method:             domain.RepayEqualPayment,
		TermMonths:         24,
	}

	schedule, err := BuildLoanSchedule(loan)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", schedule.MonthlyPayment.StringFixed(2))
	assert.Equal(t, "240000.00", schedule.TotalPayment.StringFixed(2))
}

func TestBuildLoanScheduleValidation(t *testing.T) {
	excess := decimal.NewFromInt(2_000_000)
	tests := []struct {
		name  string
		loan  domain.Loan
		field string
	}{
		{
			name:  "Zero principal",
			loan:  domain.Loan{Method: domain.RepayEqualPayment, TermMonths: 12},
			field: "principal",
		},
		{
			name: "Negative rate",
			loan: domain.Loan{
				Principal:         decimal.NewFromInt(1000),
				AnnualRatePercent: decimal.NewFromInt(-1),
				Method:            domain.RepayEqualPayment,
				TermMonths:        12,
			},
			field: "annual_rate_percent",
		},
		{
			name: "Remaining exceeds original",
			loan: domain.Loan{
				Principal:          decimal.NewFromInt(1_000_000),
				RemainingPrincipal: &excess,
				Method:             domain.RepayEqualPayment,
				TermMonths:         12,
			},
			field: "remaining_principal",
		},
		{
			name: "Missing term",
			loan: domain.Loan{
				Principal: decimal.NewFromInt(1000),
				Method:    domain.RepayEqualPayment,
			},
			field: "term_months",
		},
		{
			name: "Unknown method",
			loan: domain.Loan{
				Principal:  decimal.NewFromInt(1000),
				Method:     "balloon",
				TermMonths: 12,
			},
			field: "method",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildLoanSchedule(&tt.loan)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "expected validation error, got %v", err)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoanTermMonths(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC)
	badEnd := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	months, err := LoanTermMonths(&domain.Loan{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, 60, months)

	months, err = LoanTermMonths(&domain.Loan{StartAge: 33, EndAge: 58})
	require.NoError(t, err)
	assert.Equal(t, 300, months)

	_, err = LoanTermMonths(&domain.Loan{StartDate: &start, EndDate: &badEnd})
	assert.Error(t, err)

	// Explicit months win over any other declaration.
	months, err = LoanTermMonths(&domain.Loan{TermMonths: 36, StartAge: 33, EndAge: 58})
	require.NoError(t, err)
	assert.Equal(t, 36, months)
}

func TestAnnualPayments(t *testing.T) {
	loan := &domain.Loan{
		Name:       "car loan",
		Principal:  decimal.NewFromInt(360_000),
		Method:     domain.RepayEqualPayment,
		TermMonths: 36,
	}
	schedule, err := BuildLoanSchedule(loan)
	require.NoError(t, err)

	annual := schedule.AnnualPayments(32)
	require.Len(t, annual, 3)
	for _, age := range []int{32, 33, 34} {
		assert.Equal(t, "120000.00", annual[age].StringFixed(2), "age %d", age)
	}
}
