package calculation

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// Engine orchestrates the lifetime projection: event resolution, loan
// amortization, the ledger build, gap analysis, classification, and the
// disposable series. It holds no state between calls; Project is a pure
// function of its configuration.
type Engine struct {
	Logger Logger
}

// NewEngine creates a projection engine with a no-op logger.
func NewEngine() *Engine {
	return &Engine{Logger: NopLogger{}}
}

// SetLogger sets the engine logger. If nil is provided, a no-op logger is used.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Project runs the complete projection for one configuration. Invalid
// streams are excluded and reported per-field; they never abort the
// projection of the remaining valid streams.
func (e *Engine) Project(ctx context.Context, cfg *domain.Configuration) (*domain.ProjectionResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	assume := cfg.Assumptions.Normalized()
	if assume.EndAge <= assume.StartAge {
		return nil, domain.Invalid("assumptions.end_age", "must be greater than start_age")
	}

	var excluded []domain.ExcludedStream

	events, eventExcluded := e.resolveEvents(cfg)
	excluded = append(excluded, eventExcluded...)

	loanPayments, loanExcluded := e.amortizeLoans(cfg, assume)
	excluded = append(excluded, loanExcluded...)

	normalized := *cfg
	normalized.Assumptions = assume

	entries := NewLedgerBuilder(&normalized, events, loanPayments, e.Logger).Build()
	gap := AnalyzeGaps(entries, cfg.LiquidAssets())
	wealthType := ClassifyWealth(&normalized, entries, gap)
	disposable := DisposableByAge(&normalized, entries)

	return &domain.ProjectionResult{
		Entries:    entries,
		Gap:        gap,
		WealthType: wealthType,
		Disposable: disposable,
		Excluded:   excluded,
		Summary:    summarize(entries),
	}, nil
}

// resolveEvents converts each configured life event to cost streams. An
// out-of-band custom amount is reported and the tier default stays in
// effect; any other validation failure excludes only its own event or
// car unit, never a valid sibling stream.
func (e *Engine) resolveEvents(cfg *domain.Configuration) ([]CostStream, []domain.ExcludedStream) {
	var streams []CostStream
	var excluded []domain.ExcludedStream

	for i := range cfg.LifeEvents {
		ev := cfg.LifeEvents[i]
		resolved, soft, err := ResolveLifeEvent(&ev, cfg)
		if err != nil {
			field := "event"
			reason := err.Error()
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				field, reason = verr.Field, verr.Reason
			}
			e.Logger.Warnf("event %s excluded: %v", ev.Kind, err)
			excluded = append(excluded, domain.ExcludedStream{
				Kind: "event", Name: string(ev.Kind), Field: field, Reason: reason,
			})
			continue
		}
		for _, verr := range soft {
			if verr.Field == "custom_amount" {
				e.Logger.Warnf("event %s: %v; tier default remains in effect", ev.Kind, verr)
			} else {
				e.Logger.Warnf("event %s: %v; unit skipped", ev.Kind, verr)
			}
			excluded = append(excluded, domain.ExcludedStream{
				Kind: "event", Name: string(ev.Kind), Field: verr.Field, Reason: verr.Reason,
			})
		}
		streams = append(streams, resolved...)
	}
	return streams, excluded
}

// amortizeLoans builds each loan's schedule and merges the annual payments
// keyed by age. A loan that fails validation is excluded on its own; the
// other loans still amortize.
func (e *Engine) amortizeLoans(cfg *domain.Configuration, assume domain.Assumptions) (map[int]decimal.Decimal, []domain.ExcludedStream) {
	payments := make(map[int]decimal.Decimal)
	var excluded []domain.ExcludedStream

	for i := range cfg.Loans {
		loan := &cfg.Loans[i]
		schedule, err := BuildLoanSchedule(loan)
		if err != nil {
			field := "loan"
			reason := err.Error()
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				field, reason = verr.Field, verr.Reason
			}
			e.Logger.Warnf("loan %q excluded: %v", loan.Name, err)
			excluded = append(excluded, domain.ExcludedStream{
				Kind: "loan", Name: loan.Name, Field: field, Reason: reason,
			})
			continue
		}

		startAge := loan.StartAge
		if startAge == 0 {
			if loan.StartDate != nil {
				startAge = loan.StartDate.Year() - cfg.Person.BirthYear
			} else {
				startAge = assume.StartAge
			}
		}
		for age, amount := range schedule.AnnualPayments(startAge) {
			payments[age] = payments[age].Add(amount)
		}
	}
	return payments, excluded
}

func summarize(entries []domain.YearlyLedgerEntry) domain.ProjectionSummary {
	var s domain.ProjectionSummary
	for i := range entries {
		e := &entries[i]
		s.TotalLifetimeIncome = s.TotalLifetimeIncome.Add(e.Income)
		s.TotalLifetimeExpense = s.TotalLifetimeExpense.Add(e.Expenses)
		s.TotalLoanPayments = s.TotalLoanPayments.Add(e.LoanPayments)
		if e.EndingBalance.GreaterThan(s.PeakBalance) {
			s.PeakBalance = e.EndingBalance
			s.PeakBalanceAge = e.Age
		}
	}
	if len(entries) > 0 {
		s.FinalBalance = entries[len(entries)-1].EndingBalance
	}
	return s
}
