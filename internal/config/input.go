package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ParseJSON parses and validates a configuration from raw JSON, the shape the
// surrounding application delivers over the API boundary.
func (ip *InputParser) ParseJSON(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// ValidateConfiguration validates the loaded configuration field by field.
// Stream-level problems the engine can exclude on its own (a single bad loan
// or event) are not fatal here; this rejects only what makes the whole
// projection meaningless.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.validatePerson("person", &config.Person); err != nil {
		return err
	}
	if config.Person.Role != "" && config.Person.Role != domain.RoleSelf {
		return domain.Invalid("person.role", "primary person must have role %q", domain.RoleSelf)
	}
	if config.Partner != nil {
		if err := ip.validatePerson("partner", config.Partner); err != nil {
			return err
		}
	}

	for i := range config.Children {
		child := &config.Children[i]
		field := fmt.Sprintf("children[%d]", i)
		if err := ip.validatePerson(field, child); err != nil {
			return err
		}
		// A parent must be at least 18 years older than the child.
		if child.BirthYear-config.Person.BirthYear < 18 {
			return domain.Invalid(field+".birth_year",
				"child must be born at least 18 years after the parent (parent %d, child %d)",
				config.Person.BirthYear, child.BirthYear)
		}
	}

	if err := ip.validateAssumptions(&config.Assumptions); err != nil {
		return err
	}

	for i := range config.IncomeStreams {
		if err := ip.validateIncomeStream(i, &config.IncomeStreams[i]); err != nil {
			return err
		}
	}
	for i := range config.Assets {
		if config.Assets[i].Amount.IsNegative() {
			return domain.Invalid(fmt.Sprintf("assets[%d].amount", i), "cannot be negative")
		}
	}
	return nil
}

func (ip *InputParser) validatePerson(field string, p *domain.Person) error {
	if p.BirthYear < 1900 || p.BirthYear > 2100 {
		return domain.Invalid(field+".birth_year", "must be a four-digit year, got %d", p.BirthYear)
	}
	if p.RetirementAge < 0 {
		return domain.Invalid(field+".retirement_age", "cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	norm := a.Normalized()
	if norm.EndAge <= norm.StartAge {
		return domain.Invalid("assumptions.end_age", "must be greater than start_age")
	}
	// Allow deflation but cap extreme values.
	if norm.InflationPercent.LessThan(decimal.NewFromInt(-10)) || norm.InflationPercent.GreaterThan(decimal.NewFromInt(20)) {
		return domain.Invalid("assumptions.inflation_percent", "must be between -10 and 20, got %s", norm.InflationPercent.String())
	}
	if norm.TargetSavingsPercent.IsNegative() || norm.TargetSavingsPercent.GreaterThan(decimal.NewFromInt(100)) {
		return domain.Invalid("assumptions.target_savings_percent", "must be between 0 and 100")
	}
	if norm.OpeningBalance.IsNegative() {
		return domain.Invalid("assumptions.opening_balance", "cannot be negative")
	}
	if norm.Expenses.BaseLiving.IsNegative() || norm.Expenses.Medical.IsNegative() || norm.Expenses.EducationPerChild.IsNegative() {
		return domain.Invalid("assumptions.expenses", "expense amounts cannot be negative")
	}
	return nil
}

func (ip *InputParser) validateIncomeStream(i int, s *domain.IncomeStream) error {
	field := fmt.Sprintf("income_streams[%d]", i)
	if s.AnnualAmount.IsNegative() {
		return domain.Invalid(field+".annual_amount", "cannot be negative")
	}
	switch s.Type {
	case domain.IncomeCareer, domain.IncomePassive:
	default:
		return domain.Invalid(field+".type", "must be %q or %q", domain.IncomeCareer, domain.IncomePassive)
	}
	if s.EndAge != 0 && s.EndAge < s.StartAge {
		return domain.Invalid(field+".end_age", "must not precede start_age")
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	custom := decimal.NewFromInt(250_000)
	inflation := decimal.NewFromInt(2)
	return &domain.Configuration{
		Person: domain.Person{
			Name:          "Wei",
			BirthYear:     1995,
			Role:          domain.RoleSelf,
			RetirementAge: 60,
		},
		Partner: &domain.Person{
			Name:          "Lin",
			BirthYear:     1996,
			Role:          domain.RolePartner,
			RetirementAge: 55,
		},
		Children: []domain.Person{
			{Name: "Yue", BirthYear: 2027, Role: domain.RoleChild},
		},
		LifeEvents: []domain.LifeEvent{
			{Kind: domain.EventMarriage, Tier: "comfort", AtAge: 31},
			{Kind: domain.EventBirth, Tier: "essential", Children: 1},
			{Kind: domain.EventHousing, Tier: "comfort", AtAge: 33},
			{Kind: domain.EventCar, Cars: []domain.CarPurchase{
				{Tier: "essential", AtAge: 32},
				{Tier: "comfort", AtAge: 45, CustomAmount: &custom},
			}},
			{Kind: domain.EventTravel, Tier: "comfort", StartAge: 35, EndAge: 70},
			{Kind: domain.EventCare, Tier: "essential", StartAge: 55, EndAge: 65, Recipients: 2},
			{Kind: domain.EventRetirement, Tier: "comfort"},
		},
		Loans: []domain.Loan{
			{
				Name:              "apartment mortgage",
				Purpose:           "mortgage",
				Principal:         decimal.NewFromInt(1_500_000),
				AnnualRatePercent: decimal.NewFromFloat(4.2),
				Method:            domain.RepayEqualPayment,
				TermMonths:        300,
				StartAge:          33,
			},
			{
				Name:              "car loan",
				Purpose:           "auto",
				Principal:         decimal.NewFromInt(120_000),
				AnnualRatePercent: decimal.NewFromFloat(5.5),
				Method:            domain.RepayEqualPrincipal,
				TermMonths:        36,
				StartAge:          32,
			},
		},
		IncomeStreams: []domain.IncomeStream{
			{Name: "salary", Owner: "Wei", Type: domain.IncomeCareer, AnnualAmount: decimal.NewFromInt(260_000), AnnualGrowthPercent: decimal.NewFromInt(3)},
			{Name: "partner salary", Owner: "Lin", Type: domain.IncomeCareer, AnnualAmount: decimal.NewFromInt(180_000), AnnualGrowthPercent: decimal.NewFromInt(2)},
			{Name: "rental", Type: domain.IncomePassive, AnnualAmount: decimal.NewFromInt(36_000), StartAge: 40},
			{Name: "pension", Owner: "Wei", Type: domain.IncomePassive, AnnualAmount: decimal.NewFromInt(60_000), StartAge: 60},
		},
		Assets: []domain.Asset{
			{Name: "savings", Amount: decimal.NewFromInt(300_000), Liquid: true},
			{Name: "index funds", Amount: decimal.NewFromInt(150_000), Liquid: true},
			{Name: "apartment equity", Amount: decimal.NewFromInt(800_000)},
		},
		Assumptions: domain.Assumptions{
			StartAge:             30,
			EndAge:               85,
			InflationPercent:     &inflation,
			TargetSavingsPercent: decimal.NewFromInt(10),
			OpeningBalance:       decimal.NewFromInt(50_000),
			Expenses: domain.ExpenseAssumptions{
				BaseLiving:             decimal.NewFromInt(96_000),
				Medical:                decimal.NewFromInt(12_000),
				MedicalElderFactor:     decimal.NewFromFloat(2.5),
				MedicalElderAge:        60,
				EducationPerChild:      decimal.NewFromInt(30_000),
				RetirementLivingFactor: decimal.NewFromFloat(0.8),
			},
		},
	}
}
