package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lifeplan/household-calculator/internal/domain"
)

func TestCreateExampleConfigurationIsValid(t *testing.T) {
	parser := NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	require.NoError(t, parser.ValidateConfiguration(cfg))

	assert.Equal(t, domain.RoleSelf, cfg.Person.Role)
	assert.NotEmpty(t, cfg.LifeEvents)
	assert.NotEmpty(t, cfg.Loans)
	assert.True(t, cfg.LiquidAssets().Equal(decimal.NewFromInt(450_000)))
}

func TestLoadFromFileYAML(t *testing.T) {
	parser := NewInputParser()
	data, err := yaml.Marshal(parser.CreateExampleConfiguration())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "household.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Wei", cfg.Person.Name)
	assert.Equal(t, 1995, cfg.Person.BirthYear)
	assert.Len(t, cfg.LifeEvents, 7)
	assert.True(t, cfg.Loans[0].Principal.Equal(decimal.NewFromInt(1_500_000)))
}

func TestLoadFromFileJSON(t *testing.T) {
	parser := NewInputParser()
	data, err := json.Marshal(parser.CreateExampleConfiguration())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "household.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Lin", cfg.Partner.Name)
	assert.Len(t, cfg.IncomeStreams, 4)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := NewInputParser().LoadFromFile("/nonexistent/household.yaml")
	assert.Error(t, err)
}

func TestParseJSONRejectsGarbage(t *testing.T) {
	_, err := NewInputParser().ParseJSON([]byte("{not json"))
	assert.Error(t, err)
}

func TestValidateConfiguration(t *testing.T) {
	parser := NewInputParser()
	base := func() *domain.Configuration { return parser.CreateExampleConfiguration() }

	tests := []struct {
		name   string
		mutate func(*domain.Configuration)
		field  string
	}{
		{
			name:   "Primary person must be self",
			mutate: func(c *domain.Configuration) { c.Person.Role = domain.RoleChild },
			field:  "person.role",
		},
		{
			name:   "Birth year out of range",
			mutate: func(c *domain.Configuration) { c.Person.BirthYear = 95 },
			field:  "person.birth_year",
		},
		{
			name:   "Child too close to parent age",
			mutate: func(c *domain.Configuration) { c.Children[0].BirthYear = 2005 },
			field:  "children[0].birth_year",
		},
		{
			name: "Inflation out of range",
			mutate: func(c *domain.Configuration) {
				rate := decimal.NewFromInt(50)
				c.Assumptions.InflationPercent = &rate
			},
			field: "assumptions.inflation_percent",
		},
		{
			name: "Savings target above 100",
			mutate: func(c *domain.Configuration) {
				c.Assumptions.TargetSavingsPercent = decimal.NewFromInt(150)
			},
			field: "assumptions.target_savings_percent",
		},
		{
			name: "Unknown income type",
			mutate: func(c *domain.Configuration) {
				c.IncomeStreams[0].Type = "windfall"
			},
			field: "income_streams[0].type",
		},
		{
			name: "Negative asset",
			mutate: func(c *domain.Configuration) {
				c.Assets[0].Amount = decimal.NewFromInt(-1)
			},
			field: "assets[0].amount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := parser.ValidateConfiguration(cfg)
			require.Error(t, err)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateConfigurationAcceptsOmittedRole(t *testing.T) {
	parser := NewInputParser()
	cfg := parser.CreateExampleConfiguration()
	cfg.Person.Role = ""
	assert.NoError(t, parser.ValidateConfiguration(cfg))
}
