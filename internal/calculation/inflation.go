package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// DefaultInflationRate is the annual rate in percent applied when a caller
// does not override it.
var DefaultInflationRate = decimal.NewFromInt(domain.DefaultInflationPercent)

// AdjustForInflation compounds a nominal amount over an age span:
// nominal * (1+rate)^(toAge-fromAge). The rate is annual, in percent.
// The identity adjust(x, a, a) == x holds for every rate, and a span of
// negative length discounts instead of compounding.
func AdjustForInflation(nominal decimal.Decimal, fromAge, toAge int, annualRatePercent decimal.Decimal) decimal.Decimal {
	span := toAge - fromAge
	if span == 0 || nominal.IsZero() {
		return nominal
	}
	rate := annualRatePercent.Div(decimal.NewFromInt(100))
	base := decimal.NewFromInt(1).Add(rate)
	if span > 0 {
		return nominal.Mul(base.Pow(decimal.NewFromInt(int64(span))))
	}
	return nominal.Div(base.Pow(decimal.NewFromInt(int64(-span))))
}

// AdjustDefault applies the default 2%/year rate.
func AdjustDefault(nominal decimal.Decimal, fromAge, toAge int) decimal.Decimal {
	return AdjustForInflation(nominal, fromAge, toAge, DefaultInflationRate)
}
