package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
	"github.com/lifeplan/household-calculator/pkg/dateutil"
)

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// PaymentPeriod is one month of a loan schedule: the payment split into its
// principal and interest portions, plus the balance remaining afterwards.
type PaymentPeriod struct {
	Period    int             `json:"period"`
	Payment   decimal.Decimal `json:"payment"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Remaining decimal.Decimal `json:"remaining"`
}

// LoanSchedule is the full amortization of one loan.
type LoanSchedule struct {
	Method         domain.RepaymentMethod `json:"method"`
	Months         int                    `json:"months"`
	MonthlyPayment decimal.Decimal        `json:"monthly_payment"`
	Periods        []PaymentPeriod        `json:"periods"`
	TotalPayment   decimal.Decimal        `json:"total_payment"`
	TotalInterest  decimal.Decimal        `json:"total_interest"`
}

// LoanTermMonths resolves the loan's term from whichever of the three term
// declarations is present: explicit months, a start/end date pair, or a
// start/end age pair.
func LoanTermMonths(loan *domain.Loan) (int, error) {
	if loan.TermMonths > 0 {
		return loan.TermMonths, nil
	}
	if loan.StartDate != nil && loan.EndDate != nil {
		if !loan.EndDate.After(*loan.StartDate) {
			return 0, domain.Invalid("end_date", "must be after start date")
		}
		return dateutil.MonthsBetween(*loan.StartDate, *loan.EndDate), nil
	}
	if loan.EndAge > 0 {
		if loan.EndAge <= loan.StartAge {
			return 0, domain.Invalid("end_age", "must be greater than start_age")
		}
		return (loan.EndAge - loan.StartAge) * 12, nil
	}
	return 0, domain.Invalid("term_months", "loan term is required")
}

// BuildLoanSchedule amortizes a loan under its repayment method. Degenerate
// rates take an explicit branch (a zero rate never divides by zero); a
// non-positive principal or term is a validation error, not a silent zero
// schedule.
func BuildLoanSchedule(loan *domain.Loan) (*LoanSchedule, error) {
	principal := loan.AmortizedPrincipal()
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, domain.Invalid("principal", "must be positive")
	}
	if loan.RemainingPrincipal != nil && loan.RemainingPrincipal.GreaterThan(loan.Principal) && !loan.Principal.IsZero() {
		return nil, domain.Invalid("remaining_principal", "cannot exceed original principal")
	}
	if loan.AnnualRatePercent.IsNegative() {
		return nil, domain.Invalid("annual_rate_percent", "cannot be negative")
	}
	months, err := LoanTermMonths(loan)
	if err != nil {
		return nil, err
	}
	if months <= 0 {
		return nil, domain.Invalid("term_months", "must be positive")
	}

	monthlyRate := loan.AnnualRatePercent.Div(hundred).Div(twelve)

	var schedule *LoanSchedule
	switch loan.Method {
	case domain.RepayEqualPayment:
		schedule = equalPaymentSchedule(principal, monthlyRate, months)
	case domain.RepayEqualPrincipal:
		schedule = equalPrincipalSchedule(principal, monthlyRate, months)
	case domain.RepayInterestFirst:
		schedule = interestFirstSchedule(principal, monthlyRate, months)
	case domain.RepayLumpSum:
		schedule = lumpSumSchedule(principal, loan.AnnualRatePercent.Div(hundred), months)
	default:
		return nil, domain.Invalid("method", "unknown repayment method %q", loan.Method)
	}
	schedule.Method = loan.Method
	schedule.Months = months

	for _, p := range schedule.Periods {
		schedule.TotalPayment = schedule.TotalPayment.Add(p.Payment)
		schedule.TotalInterest = schedule.TotalInterest.Add(p.Interest)
	}
	return schedule, nil
}

// AnnuityPayment computes the level monthly payment for an equal-payment
// loan: P*r*(1+r)^n / ((1+r)^n - 1). A zero rate degrades to P/n.
func AnnuityPayment(principal, monthlyRate decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if monthlyRate.IsZero() {
		return principal.Div(n)
	}
	growth := one.Add(monthlyRate).Pow(n)
	return principal.Mul(monthlyRate).Mul(growth).Div(growth.Sub(one))
}

func equalPaymentSchedule(principal, rate decimal.Decimal, months int) *LoanSchedule {
	payment := AnnuityPayment(principal, rate, months)
	periods := make([]PaymentPeriod, months)
	remaining := principal
	for i := 1; i <= months; i++ {
		interest := remaining.Mul(rate)
		principalPart := payment.Sub(interest)
		if i == months {
			// Final period absorbs rounding drift so the balance closes at zero.
			principalPart = remaining
			payment = principalPart.Add(interest)
		}
		remaining = remaining.Sub(principalPart)
		periods[i-1] = PaymentPeriod{
			Period:    i,
			Payment:   payment,
			Principal: principalPart,
			Interest:  interest,
			Remaining: remaining,
		}
	}
	return &LoanSchedule{MonthlyPayment: AnnuityPayment(principal, rate, months), Periods: periods}
}

func equalPrincipalSchedule(principal, rate decimal.Decimal, months int) *LoanSchedule {
	n := decimal.NewFromInt(int64(months))
	principalPart := principal.Div(n)
	periods := make([]PaymentPeriod, months)
	remaining := principal
	for i := 1; i <= months; i++ {
		interest := remaining.Mul(rate)
		part := principalPart
		if i == months {
			part = remaining
		}
		payment := part.Add(interest)
		remaining = remaining.Sub(part)
		periods[i-1] = PaymentPeriod{
			Period:    i,
			Payment:   payment,
			Principal: part,
			Interest:  interest,
			Remaining: remaining,
		}
	}
	return &LoanSchedule{MonthlyPayment: periods[0].Payment, Periods: periods}
}

func interestFirstSchedule(principal, rate decimal.Decimal, months int) *LoanSchedule {
	interest := principal.Mul(rate)
	periods := make([]PaymentPeriod, months)
	for i := 1; i <= months; i++ {
		p := PaymentPeriod{Period: i, Payment: interest, Interest: interest, Remaining: principal}
		if i == months {
			p.Payment = interest.Add(principal)
			p.Principal = principal
			p.Remaining = decimal.Zero
		}
		periods[i-1] = p
	}
	return &LoanSchedule{MonthlyPayment: interest, Periods: periods}
}

func lumpSumSchedule(principal, annualRate decimal.Decimal, months int) *LoanSchedule {
	years := decimal.NewFromInt(int64(months)).Div(twelve)
	interest := principal.Mul(annualRate).Mul(years)
	periods := make([]PaymentPeriod, months)
	for i := 1; i <= months; i++ {
		p := PaymentPeriod{Period: i, Remaining: principal}
		if i == months {
			p.Payment = principal.Add(interest)
			p.Principal = principal
			p.Interest = interest
			p.Remaining = decimal.Zero
		}
		periods[i-1] = p
	}
	return &LoanSchedule{MonthlyPayment: decimal.Zero, Periods: periods}
}

// AnnualPayments aggregates the monthly schedule to annual totals keyed by
// the planner's age, with the first twelve periods falling in startAge's year.
func (s *LoanSchedule) AnnualPayments(startAge int) map[int]decimal.Decimal {
	out := make(map[int]decimal.Decimal, s.Months/12+1)
	for _, p := range s.Periods {
		age := startAge + (p.Period-1)/12
		out[age] = out[age].Add(p.Payment)
	}
	return out
}
