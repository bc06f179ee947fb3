package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RepaymentMethod enumerates the four supported repayment schemes.
type RepaymentMethod string

const (
	// RepayEqualPayment is the annuity scheme: constant monthly payment,
	// interest share declining over the term.
	RepayEqualPayment RepaymentMethod = "equal_payment"
	// RepayEqualPrincipal amortizes a constant principal share per month, so
	// the payment declines monotonically.
	RepayEqualPrincipal RepaymentMethod = "equal_principal"
	// RepayInterestFirst pays interest only until the final period, which adds
	// the full principal.
	RepayInterestFirst RepaymentMethod = "interest_first"
	// RepayLumpSum defers everything to a single payment of principal plus
	// simple interest at term end.
	RepayLumpSum RepaymentMethod = "lump_sum"
)

// RepaymentMethods lists every supported scheme.
func RepaymentMethods() []RepaymentMethod {
	return []RepaymentMethod{
		RepayEqualPayment, RepayEqualPrincipal, RepayInterestFirst, RepayLumpSum,
	}
}

// Loan represents one household loan obligation. The term is given either as
// months, as an end age, or as a start/end date pair; when both original and
// remaining principal are present, amortization runs on the remaining amount
// and the original is informational only.
type Loan struct {
	Name               string           `yaml:"name" json:"name"`
	Purpose            string           `yaml:"purpose,omitempty" json:"purpose,omitempty"`
	Principal          decimal.Decimal  `yaml:"principal" json:"principal"`
	RemainingPrincipal *decimal.Decimal `yaml:"remaining_principal,omitempty" json:"remaining_principal,omitempty"`
	AnnualRatePercent  decimal.Decimal  `yaml:"annual_rate_percent" json:"annual_rate_percent"`
	Method             RepaymentMethod  `yaml:"method" json:"method"`
	TermMonths         int              `yaml:"term_months,omitempty" json:"term_months,omitempty"`
	StartAge           int              `yaml:"start_age,omitempty" json:"start_age,omitempty"`
	EndAge             int              `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	StartDate          *time.Time       `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate            *time.Time       `yaml:"end_date,omitempty" json:"end_date,omitempty"`
}

// AmortizedPrincipal returns the balance the schedule runs on: the remaining
// principal when declared, otherwise the original.
func (l *Loan) AmortizedPrincipal() decimal.Decimal {
	if l.RemainingPrincipal != nil {
		return *l.RemainingPrincipal
	}
	return l.Principal
}
