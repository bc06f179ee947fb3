package calculation

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/lifeplan/household-calculator/internal/domain"
)

// CostStream is the normalized form every life event resolves to: a base
// amount stated at the reference age plus the ages it occurs at. One-time
// events carry a single age; recurring events expand to every age in their
// span. Amounts inflate from the reference age to the occurrence age.
type CostStream struct {
	Name         string           `json:"name"`
	Kind         domain.EventKind `json:"kind"`
	BaseAmount   decimal.Decimal  `json:"base_amount"`
	OccursAtAges []int            `json:"occurs_at_ages"`
}

// AmountAt returns the inflation-adjusted cost at the given age.
func (cs *CostStream) AmountAt(age, referenceAge int, inflationPercent decimal.Decimal) decimal.Decimal {
	return AdjustForInflation(cs.BaseAmount, referenceAge, age, inflationPercent)
}

func wan(n int64) decimal.Decimal {
	return decimal.NewFromInt(n).Mul(decimal.NewFromInt(10000))
}

func tier(name, label string, min, max, def int64) domain.Tier {
	return domain.Tier{Name: name, Label: label, Min: wan(min), Max: wan(max), Default: wan(def)}
}

// defaultCatalog holds the standard price bands per event kind, in yuan.
// Tier bands follow the questionnaire's 万-denominated standards.
var defaultCatalog = map[domain.EventKind][]domain.Tier{
	domain.EventMarriage: {
		tier("essential", "简约版", 5, 15, 8),
		tier("comfort", "舒适体验版", 15, 30, 20),
		tier("premium", "高端定制版", 30, 100, 50),
	},
	domain.EventBirth: {
		tier("essential", "简约版", 3, 10, 5),
		tier("comfort", "舒适体验版", 10, 20, 15),
		tier("premium", "高端定制版", 20, 50, 30),
	},
	domain.EventHousing: {
		tier("essential", "简约版", 30, 80, 50),
		tier("comfort", "舒适体验版", 80, 150, 100),
		tier("premium", "高端定制版", 150, 500, 200),
	},
	domain.EventCar: {
		tier("essential", "简约版", 8, 15, 10),
		tier("comfort", "舒适体验版", 15, 35, 25),
		tier("premium", "高端定制版", 35, 200, 50),
	},
	domain.EventTravel: {
		tier("essential", "简约版", 1, 3, 2),
		tier("comfort", "舒适体验版", 3, 8, 5),
		tier("premium", "高端定制版", 8, 30, 12),
	},
	domain.EventCare: {
		tier("essential", "简约版", 2, 6, 3),
		tier("comfort", "舒适体验版", 6, 12, 8),
		tier("premium", "高端定制版", 12, 40, 20),
	},
	domain.EventRetirement: {
		tier("essential", "简约版", 10, 30, 20),
		tier("comfort", "舒适体验版", 30, 80, 50),
		tier("premium", "高端定制版", 80, 300, 150),
	},
}

// TiersFor returns the tier catalog for an event kind.
func TiersFor(kind domain.EventKind) []domain.Tier {
	return defaultCatalog[kind]
}

// FindTier looks up a tier by name within a kind's catalog. An empty name
// selects the middle (comfort) tier, matching the questionnaire's preselect.
func FindTier(kind domain.EventKind, name string) (domain.Tier, error) {
	tiers := defaultCatalog[kind]
	if len(tiers) == 0 {
		return domain.Tier{}, domain.Invalid("kind", "unknown event kind %q", kind)
	}
	if name == "" {
		return tiers[len(tiers)/2], nil
	}
	for _, t := range tiers {
		if t.Name == name {
			return t, nil
		}
	}
	return domain.Tier{}, domain.Invalid("tier", "unknown tier %q for event %q", name, kind)
}

// tierAmount resolves the effective amount for a tier selection. A custom
// amount outside the band is rejected, not clamped; the tier default is
// returned alongside the violation so the stream can keep resolving.
func tierAmount(t domain.Tier, custom *decimal.Decimal) (decimal.Decimal, *domain.ValidationError) {
	if custom == nil {
		return t.Default, nil
	}
	if !t.Contains(*custom) {
		return t.Default, domain.Invalid("custom_amount",
			"amount %s outside tier %q band [%s, %s]",
			custom.String(), t.Name, t.Min.String(), t.Max.String())
	}
	return *custom, nil
}

func ageSpan(start, end int) []int {
	ages := make([]int, 0, end-start+1)
	for a := start; a <= end; a++ {
		ages = append(ages, a)
	}
	return ages
}

// ResolveLifeEvent converts one event configuration into its cost streams.
// Multi-unit events (several cars, several children) resolve each unit
// independently, each potentially on a different occurrence age.
//
// An out-of-band custom amount does not abort resolution: the tier default
// takes its place and the violation is returned in the second value, one
// entry per affected stream. The error return covers failures that leave
// nothing to resolve, such as an unknown kind or a missing occurrence age.
func ResolveLifeEvent(ev *domain.LifeEvent, cfg *domain.Configuration) ([]CostStream, []*domain.ValidationError, error) {
	switch ev.Kind {
	case domain.EventMarriage, domain.EventHousing:
		return resolveOneTime(ev, ev.AtAge)

	case domain.EventRetirement:
		at := ev.AtAge
		if at == 0 {
			at = cfg.RetirementAgeOf(cfg.Person.Name)
		}
		return resolveOneTime(ev, at)

	case domain.EventBirth:
		return resolveBirth(ev, cfg)

	case domain.EventCar:
		return resolveCars(ev)

	case domain.EventTravel:
		return resolveRecurring(ev, decimal.NewFromInt(1))

	case domain.EventCare:
		recipients := ev.Recipients
		if recipients == 0 {
			recipients = 1
		}
		return resolveRecurring(ev, decimal.NewFromInt(int64(recipients)))

	default:
		return nil, nil, domain.Invalid("kind", "unknown event kind %q", ev.Kind)
	}
}

func resolveOneTime(ev *domain.LifeEvent, atAge int) ([]CostStream, []*domain.ValidationError, error) {
	t, err := FindTier(ev.Kind, ev.Tier)
	if err != nil {
		return nil, nil, err
	}
	if atAge <= 0 {
		return nil, nil, domain.Invalid("at_age", "required for %s", ev.Kind)
	}
	amount, verr := tierAmount(t, ev.CustomAmount)
	var soft []*domain.ValidationError
	if verr != nil {
		soft = append(soft, verr)
	}
	return []CostStream{{
		Name:         string(ev.Kind),
		Kind:         ev.Kind,
		BaseAmount:   amount,
		OccursAtAges: []int{atAge},
	}}, soft, nil
}

// resolveBirth places one cost per child. Declared children anchor each
// occurrence to the child's actual birth year; counts beyond the declared
// children fall back to two-year spacing from the event age.
func resolveBirth(ev *domain.LifeEvent, cfg *domain.Configuration) ([]CostStream, []*domain.ValidationError, error) {
	t, err := FindTier(ev.Kind, ev.Tier)
	if err != nil {
		return nil, nil, err
	}
	amount, verr := tierAmount(t, ev.CustomAmount)
	var soft []*domain.ValidationError
	if verr != nil {
		soft = append(soft, verr)
	}
	count := ev.Children
	if count == 0 {
		count = 1
	}
	streams := make([]CostStream, 0, count)
	for i := 0; i < count; i++ {
		var age int
		switch {
		case i < len(cfg.Children):
			age = cfg.Children[i].BirthYear - cfg.Person.BirthYear
		case len(cfg.Children) > 0:
			last := cfg.Children[len(cfg.Children)-1]
			age = last.BirthYear - cfg.Person.BirthYear + 2*(i-len(cfg.Children)+1)
		default:
			if ev.AtAge <= 0 {
				return nil, nil, domain.Invalid("at_age", "required when children are not declared")
			}
			age = ev.AtAge + 2*i
		}
		streams = append(streams, CostStream{
			Name:         string(ev.Kind),
			Kind:         ev.Kind,
			BaseAmount:   amount,
			OccursAtAges: []int{age},
		})
	}
	return streams, soft, nil
}

// carUnit prefixes a unit-level violation with its 1-based position so the
// report identifies which car it concerns.
func carUnit(i int, verr *domain.ValidationError) *domain.ValidationError {
	return domain.Invalid(verr.Field, "car %d: %s", i+1, verr.Reason)
}

// resolveCars expands a car event into one stream per unit. Units resolve
// independently: an out-of-band custom amount keeps that unit's tier
// default, and a unit that fails validation outright is skipped without
// taking its siblings down.
func resolveCars(ev *domain.LifeEvent) ([]CostStream, []*domain.ValidationError, error) {
	if len(ev.Cars) == 0 {
		return resolveOneTime(ev, ev.AtAge)
	}
	streams := make([]CostStream, 0, len(ev.Cars))
	var soft []*domain.ValidationError
	for i, unit := range ev.Cars {
		t, err := FindTier(domain.EventCar, unit.Tier)
		if err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				soft = append(soft, carUnit(i, verr))
			} else {
				soft = append(soft, domain.Invalid("cars", "car %d: %s", i+1, err.Error()))
			}
			continue
		}
		if unit.AtAge <= 0 {
			soft = append(soft, domain.Invalid("cars.at_age", "car %d: required", i+1))
			continue
		}
		amount, verr := tierAmount(t, unit.CustomAmount)
		if verr != nil {
			soft = append(soft, carUnit(i, verr))
		}
		streams = append(streams, CostStream{
			Name:         string(domain.EventCar),
			Kind:         domain.EventCar,
			BaseAmount:   amount,
			OccursAtAges: []int{unit.AtAge},
		})
	}
	return streams, soft, nil
}

func resolveRecurring(ev *domain.LifeEvent, multiplier decimal.Decimal) ([]CostStream, []*domain.ValidationError, error) {
	t, err := FindTier(ev.Kind, ev.Tier)
	if err != nil {
		return nil, nil, err
	}
	if ev.StartAge <= 0 {
		return nil, nil, domain.Invalid("start_age", "required for %s", ev.Kind)
	}
	if ev.EndAge < ev.StartAge {
		return nil, nil, domain.Invalid("end_age", "must not precede start_age")
	}
	amount, verr := tierAmount(t, ev.CustomAmount)
	var soft []*domain.ValidationError
	if verr != nil {
		soft = append(soft, verr)
	}
	return []CostStream{{
		Name:         string(ev.Kind),
		Kind:         ev.Kind,
		BaseAmount:   amount.Mul(multiplier),
		OccursAtAges: ageSpan(ev.StartAge, ev.EndAge),
	}}, soft, nil
}
