package promo

import (
	"github.com/go-faster/errors"
)

// Tier is one row of the bulk discount ladder. For a cart holding q ticket
// units, the applicable tier is the one with the greatest MinQuantity <= q,
// and the free unit count is min(q - Subtract, Cap), floored at zero.
type Tier struct {
	// MinQuantity is the inclusive lower bound of the tier.
	MinQuantity int
	// Subtract is deducted from the quantity before counting free units.
	Subtract int
	// Cap is the maximum number of free units the tier grants.
	Cap int
}

// TierPolicy is an ordered ladder of discount tiers.
type TierPolicy struct {
	Tiers []Tier
}

// DefaultTierPolicy returns the standard bulk ticket ladder:
//
//	q <= 10          -> 0 free
//	11 <= q <= 49    -> min(q-10, 10) free
//	q >= 50          -> min(q-50, 150) free
//
// Note the boundary at q=50 yields 0 free units while q=49 yields 10. That
// cliff is the documented business rule, odd as it is commercially; do not
// smooth it out here.
func DefaultTierPolicy() TierPolicy {
	return TierPolicy{Tiers: []Tier{
		{MinQuantity: 0, Subtract: 0, Cap: 0},
		{MinQuantity: 11, Subtract: 10, Cap: 10},
		{MinQuantity: 50, Subtract: 50, Cap: 150},
	}}
}

// Validate checks that the ladder is non-empty, starts at zero, is strictly
// ascending, and carries no negative bounds.
func (p TierPolicy) Validate() error {
	if len(p.Tiers) == 0 {
		return errors.New("tier policy must have at least one tier")
	}
	if p.Tiers[0].MinQuantity != 0 {
		return errors.Errorf("first tier must start at quantity 0, got %d", p.Tiers[0].MinQuantity)
	}
	prev := -1
	for i, t := range p.Tiers {
		if t.MinQuantity <= prev {
			return errors.Errorf("tier %d: bounds must be strictly ascending", i)
		}
		if t.Subtract < 0 || t.Cap < 0 {
			return errors.Errorf("tier %d: subtract and cap must not be negative", i)
		}
		prev = t.MinQuantity
	}
	return nil
}

// FreeTickets returns how many of the given ticket units are free under the
// policy. It is pure and monotonically non-decreasing within each tier.
// Negative quantities are rejected with ErrInvalidQuantity.
func (p TierPolicy) FreeTickets(quantity int) (int, error) {
	if quantity < 0 {
		return 0, ErrInvalidQuantity
	}

	tier := Tier{}
	found := false
	for _, t := range p.Tiers {
		if t.MinQuantity > quantity {
			break
		}
		tier = t
		found = true
	}
	if !found {
		return 0, nil
	}

	free := quantity - tier.Subtract
	if free < 0 {
		free = 0
	}
	if free > tier.Cap {
		free = tier.Cap
	}
	return free, nil
}
