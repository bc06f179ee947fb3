package domain

import (
	"github.com/shopspring/decimal"
)

// CapMode selects how a support plan's ceiling is computed.
type CapMode string

const (
	// CapCurrent limits allocations to the target year's own disposable amount.
	CapCurrent CapMode = "current"
	// CapCumulative limits allocations to the disposable amounts accumulated
	// from the baseline age through the target age.
	CapCumulative CapMode = "cumulative"
)

// Beneficiary is one recipient of a support plan allocation.
type Beneficiary struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// SupportPlan allocates a year's disposable surplus across beneficiaries.
// Invariant: the beneficiary amounts never sum above MaxAmount; every
// mutation re-clamps rather than waiting for a commit step.
type SupportPlan struct {
	TargetAge     int             `json:"target_age"`
	TargetYear    int             `json:"target_year"`
	Mode          CapMode         `json:"mode"`
	MaxAmount     decimal.Decimal `json:"max_amount"`
	Beneficiaries []Beneficiary   `json:"beneficiaries"`
}

// Allocated returns the sum of all beneficiary amounts.
func (p *SupportPlan) Allocated() decimal.Decimal {
	total := decimal.Zero
	for _, b := range p.Beneficiaries {
		total = total.Add(b.Amount)
	}
	return total
}

// Remaining returns the unallocated headroom under the cap.
func (p *SupportPlan) Remaining() decimal.Decimal {
	return p.MaxAmount.Sub(p.Allocated())
}
