package domain

import (
	"github.com/shopspring/decimal"
)

// EventKind enumerates the supported life events. The set is closed: resolver
// dispatch switches exhaustively over it, so a new kind is a compile-time
// extension rather than a stray string branch.
type EventKind string

const (
	EventMarriage   EventKind = "marriage"
	EventBirth      EventKind = "birth"
	EventHousing    EventKind = "housing"
	EventCar        EventKind = "car"
	EventTravel     EventKind = "travel"
	EventCare       EventKind = "care"
	EventRetirement EventKind = "retirement"
)

// EventKinds lists every supported kind in questionnaire order.
func EventKinds() []EventKind {
	return []EventKind{
		EventMarriage, EventBirth, EventHousing, EventCar,
		EventTravel, EventCare, EventRetirement,
	}
}

// Tier is a named price band. A custom amount for the event must lie inside
// [Min, Max]; the default applies when no custom amount is given.
type Tier struct {
	Name    string          `yaml:"name" json:"name"`
	Label   string          `yaml:"label" json:"label"`
	Min     decimal.Decimal `yaml:"min" json:"min"`
	Max     decimal.Decimal `yaml:"max" json:"max"`
	Default decimal.Decimal `yaml:"default" json:"default"`
}

// Contains reports whether the amount lies inside the band.
func (t Tier) Contains(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(t.Min) && amount.LessThanOrEqual(t.Max)
}

// CarPurchase is one vehicle within a car event. Each unit resolves
// independently, on its own purchase age.
type CarPurchase struct {
	Tier         string           `yaml:"tier" json:"tier"`
	AtAge        int              `yaml:"at_age" json:"at_age"`
	CustomAmount *decimal.Decimal `yaml:"custom_amount,omitempty" json:"custom_amount,omitempty"`
}

// LifeEvent is the tagged variant over the event kinds. Kind selects which of
// the parameter fields apply:
//
//	marriage, housing, retirement: Tier, AtAge
//	birth:                         Tier, AtAge, Children
//	car:                           Cars (per-unit tier and age)
//	travel:                        Tier, StartAge, EndAge (annual budget)
//	care:                          Tier, StartAge, EndAge, Recipients (annual, per recipient)
type LifeEvent struct {
	Kind         EventKind        `yaml:"kind" json:"kind"`
	Tier         string           `yaml:"tier,omitempty" json:"tier,omitempty"`
	CustomAmount *decimal.Decimal `yaml:"custom_amount,omitempty" json:"custom_amount,omitempty"`
	AtAge        int              `yaml:"at_age,omitempty" json:"at_age,omitempty"`
	StartAge     int              `yaml:"start_age,omitempty" json:"start_age,omitempty"`
	EndAge       int              `yaml:"end_age,omitempty" json:"end_age,omitempty"`
	Children     int              `yaml:"children,omitempty" json:"children,omitempty"`
	Recipients   int              `yaml:"recipients,omitempty" json:"recipients,omitempty"`
	Cars         []CarPurchase    `yaml:"cars,omitempty" json:"cars,omitempty"`
}

// Recurring reports whether the kind expands to an age span rather than a
// single occurrence.
func (k EventKind) Recurring() bool {
	return k == EventTravel || k == EventCare
}
