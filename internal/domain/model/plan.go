package model

import "time"

type PlanDuration string

const (
	PlanDurationAnnual   PlanDuration = "annual"
	PlanDurationLifetime PlanDuration = "lifetime"
)

// lifetimeYears is the sentinel horizon for "forever" memberships. Expiry is
// still a concrete date so read-time checks stay uniform across plan types.
const lifetimeYears = 100

// MembershipPlan is a static catalog entry. Plans are defined in code, not
// persisted; PricePaise is the authoritative amount for the plan and any
// client-submitted amount must match it exactly.
type MembershipPlan struct {
	ID          string
	Name        string
	PricePaise  int64 // INR minor units
	Duration    PlanDuration
	Features    []string
	Description string
	Popular     bool
}

func (p *MembershipPlan) IsZero() bool { return p == nil || p.ID == "" }

// PriceINR returns the whole-rupee price the gateway expects.
func (p *MembershipPlan) PriceINR() float64 { return float64(p.PricePaise) / 100 }

// ExpiryFrom computes the membership expiry as a pure function of the plan's
// duration type and the activation instant.
func (p *MembershipPlan) ExpiryFrom(start time.Time) time.Time {
	switch p.Duration {
	case PlanDurationLifetime:
		return start.AddDate(lifetimeYears, 0, 0)
	default:
		return start.AddDate(1, 0, 0)
	}
}

// PlanCatalog resolves plan ids to catalog entries.
type PlanCatalog struct {
	plans map[string]*MembershipPlan
	order []string
}

func NewPlanCatalog(plans ...*MembershipPlan) *PlanCatalog {
	c := &PlanCatalog{plans: make(map[string]*MembershipPlan, len(plans))}
	for _, p := range plans {
		c.plans[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	return c
}

func (c *PlanCatalog) Find(id string) (*MembershipPlan, bool) {
	p, ok := c.plans[id]
	return p, ok
}

// List returns plans in catalog order.
func (c *PlanCatalog) List() []*MembershipPlan {
	out := make([]*MembershipPlan, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.plans[id])
	}
	return out
}

// DefaultCatalog is the alumni-portal plan catalog.
func DefaultCatalog() *PlanCatalog {
	return NewPlanCatalog(
		&MembershipPlan{
			ID:         "annual",
			Name:       "1 Year Membership",
			PricePaise: 500_00,
			Duration:   PlanDurationAnnual,
			Features: []string{
				"Access to alumni directory",
				"Join alumni events",
				"Networking opportunities",
				"Job posting access",
				"Alumni newsletter",
				"Member-only resources",
			},
			Description: "Perfect for staying connected with the alumni community",
		},
		&MembershipPlan{
			ID:         "lifetime",
			Name:       "Lifetime Membership",
			PricePaise: 2000_00,
			Duration:   PlanDurationLifetime,
			Features: []string{
				"Everything in 1 Year plan",
				"Priority event registration",
				"Exclusive lifetime member badge",
				"Special alumni meetups",
				"Career mentorship access",
				"Alumni business directory",
				"Lifetime updates & benefits",
			},
			Description: "Best value for long-term alumni engagement",
			Popular:     true,
		},
	)
}
