package domain

import (
	"github.com/shopspring/decimal"
)

// Role identifies a household member's relationship to the primary planner.
type Role string

const (
	RoleSelf    Role = "self"
	RolePartner Role = "partner"
	RoleChild   Role = "child"
	RoleParent  Role = "parent"
)

// Person represents a household member. Age is always derived from the birth
// year; it is never stored independently.
type Person struct {
	Name          string `yaml:"name" json:"name"`
	BirthYear     int    `yaml:"birth_year" json:"birth_year"`
	Role          Role   `yaml:"role" json:"role"`
	RetirementAge int    `yaml:"retirement_age,omitempty" json:"retirement_age,omitempty"`
}

// Age calculates the person's age reached during the given calendar year.
func (p *Person) Age(atYear int) int {
	return atYear - p.BirthYear
}

// YearAtAge returns the calendar year in which the person reaches the given age.
func (p *Person) YearAtAge(age int) int {
	return p.BirthYear + age
}

// IncomeType distinguishes career income, which stops at the owner's
// retirement age, from passive income, which continues.
type IncomeType string

const (
	IncomeCareer  IncomeType = "career"
	IncomePassive IncomeType = "passive"
)

// IncomeStream is a declared annual income, indexed by the planner's age.
type IncomeStream struct {
	Name                string          `yaml:"name" json:"name"`
	Owner               string          `yaml:"owner,omitempty" json:"owner,omitempty"`
	Type                IncomeType      `yaml:"type" json:"type"`
	AnnualAmount        decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
	StartAge            int             `yaml:"start_age,omitempty" json:"start_age,omitempty"`
	EndAge              int             `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	AnnualGrowthPercent decimal.Decimal `yaml:"annual_growth_percent,omitempty" json:"annual_growth_percent,omitempty"`
}

// Asset is a declared holding. Liquid assets back the gap analysis.
type Asset struct {
	Name   string          `yaml:"name" json:"name"`
	Amount decimal.Decimal `yaml:"amount" json:"amount"`
	Liquid bool            `yaml:"liquid" json:"liquid"`
}

// ExpenseAssumptions parameterize the required expenditure bands. All amounts
// are annual, stated at the reference age, and inflation-adjusted by the
// ledger builder.
type ExpenseAssumptions struct {
	BaseLiving               decimal.Decimal `yaml:"base_living" json:"base_living"`
	Medical                  decimal.Decimal `yaml:"medical" json:"medical"`
	MedicalElderFactor       decimal.Decimal `yaml:"medical_elder_factor,omitempty" json:"medical_elder_factor,omitempty"`
	MedicalElderAge          int             `yaml:"medical_elder_age,omitempty" json:"medical_elder_age,omitempty"`
	EducationPerChild        decimal.Decimal `yaml:"education_per_child" json:"education_per_child"`
	EducationStartAge        int             `yaml:"education_start_age,omitempty" json:"education_start_age,omitempty"`
	EducationEndAge          int             `yaml:"education_end_age,omitempty" json:"education_end_age,omitempty"`
	RetirementLivingFactor   decimal.Decimal `yaml:"retirement_living_factor,omitempty" json:"retirement_living_factor,omitempty"`
}

// Assumptions are the global projection parameters. InflationPercent is a
// pointer so an explicit zero (a flat projection) is distinct from an omitted
// value, which takes the default.
type Assumptions struct {
	StartAge             int                `yaml:"start_age,omitempty" json:"start_age,omitempty"`
	EndAge               int                `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	InflationPercent     *decimal.Decimal   `yaml:"inflation_percent,omitempty" json:"inflation_percent,omitempty"`
	ReferenceAge         int                `yaml:"reference_age,omitempty" json:"reference_age,omitempty"`
	OpeningBalance       decimal.Decimal    `yaml:"opening_balance,omitempty" json:"opening_balance,omitempty"`
	TargetSavingsPercent decimal.Decimal    `yaml:"target_savings_percent,omitempty" json:"target_savings_percent,omitempty"`
	Expenses             ExpenseAssumptions `yaml:"expenses" json:"expenses"`
}

// Configuration is the complete input to the projection engine. It is treated
// as immutable: the engine never writes back into it and recomputes all
// derived entities from scratch on every call.
type Configuration struct {
	Person        Person         `yaml:"person" json:"person"`
	Partner       *Person        `yaml:"partner,omitempty" json:"partner,omitempty"`
	Children      []Person       `yaml:"children,omitempty" json:"children,omitempty"`
	Parents       []Person       `yaml:"parents,omitempty" json:"parents,omitempty"`
	LifeEvents    []LifeEvent    `yaml:"life_events,omitempty" json:"life_events,omitempty"`
	Loans         []Loan         `yaml:"loans,omitempty" json:"loans,omitempty"`
	IncomeStreams []IncomeStream `yaml:"income_streams,omitempty" json:"income_streams,omitempty"`
	Assets        []Asset        `yaml:"assets,omitempty" json:"assets,omitempty"`
	Assumptions   Assumptions    `yaml:"assumptions" json:"assumptions"`
}

// Projection defaults. The reference questionnaire spans ages 30 through 85.
const (
	DefaultStartAge         = 30
	DefaultEndAge           = 85
	DefaultRetirementAge    = 60
	DefaultInflationPercent = 2
)

// Normalized returns a copy of the assumptions with defaults filled in.
func (a Assumptions) Normalized() Assumptions {
	out := a
	if out.StartAge == 0 {
		out.StartAge = DefaultStartAge
	}
	if out.EndAge == 0 {
		out.EndAge = DefaultEndAge
	}
	if out.InflationPercent == nil {
		rate := decimal.NewFromInt(DefaultInflationPercent)
		out.InflationPercent = &rate
	}
	if out.ReferenceAge == 0 {
		out.ReferenceAge = out.StartAge
	}
	if out.Expenses.MedicalElderAge == 0 {
		out.Expenses.MedicalElderAge = 60
	}
	if out.Expenses.MedicalElderFactor.IsZero() {
		out.Expenses.MedicalElderFactor = decimal.NewFromInt(1)
	}
	if out.Expenses.EducationStartAge == 0 {
		out.Expenses.EducationStartAge = 6
	}
	if out.Expenses.EducationEndAge == 0 {
		out.Expenses.EducationEndAge = 22
	}
	if out.Expenses.RetirementLivingFactor.IsZero() {
		out.Expenses.RetirementLivingFactor = decimal.NewFromInt(1)
	}
	return out
}

// LiquidAssets sums the liquid holdings in the configuration.
func (c *Configuration) LiquidAssets() decimal.Decimal {
	total := decimal.Zero
	for _, a := range c.Assets {
		if a.Liquid {
			total = total.Add(a.Amount)
		}
	}
	return total
}

// RetirementAgeOf returns the retirement age for the named household member,
// falling back to the default when unset. An empty name means the planner.
func (c *Configuration) RetirementAgeOf(name string) int {
	candidates := []*Person{&c.Person}
	if c.Partner != nil {
		candidates = append(candidates, c.Partner)
	}
	for _, p := range candidates {
		if name == "" && p.Role == RoleSelf || p.Name == name {
			if p.RetirementAge > 0 {
				return p.RetirementAge
			}
			return DefaultRetirementAge
		}
	}
	return DefaultRetirementAge
}
