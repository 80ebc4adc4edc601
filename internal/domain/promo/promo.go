package promo

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when a cart snapshot carries a negative
// quantity. Quantities are rejected before any computation happens.
var ErrInvalidQuantity = errors.New("quantity must not be negative")

// LineItem is a single cart line as seen by the calculator. The calculator
// only reads line items; the host cart owns them.
type LineItem struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal

	// PriceUnknown marks a line whose unit price could not be resolved.
	// Such lines still count for reconciliation but never earn a
	// cross-sell allocation.
	PriceUnknown bool
}

// Subtotal returns UnitPrice * Quantity for the line.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Snapshot is an immutable view of the cart contents at one cart-change
// event. All calculator results are recomputed from scratch per snapshot;
// nothing persists between evaluations.
type Snapshot []LineItem

// FeeLine is a named fee to append to the cart totals. Discounts carry a
// negative amount.
type FeeLine struct {
	Name   string
	Amount decimal.Decimal
}

// Allocation is the advisory ticket-unit count offered for one non-ticket
// line. It sizes an explicit opt-in action and never mutates the cart by
// itself.
type Allocation struct {
	ProductID string
	Tickets   int
}

// Rules binds the calculator to a designated ticket product and a tier
// policy. A Rules value is immutable and safe for concurrent use.
type Rules struct {
	TicketProductID string
	Policy          TierPolicy
}

// cartStats holds the counters a single evaluation needs. They are computed
// in one pass over the snapshot and shared by the fee, reconciliation, and
// allocation steps, replacing any cross-call memoization.
type cartStats struct {
	ticketQuantity  int
	hasOtherProduct bool

	// ticketPrice is the unit price of the first ticket line with a known
	// positive price, or zero when no such line exists.
	ticketPrice decimal.Decimal

	// ticketSubtotal sums the subtotals of all priced ticket lines. The
	// bulk discount never exceeds it, whatever the ladder says.
	ticketSubtotal decimal.Decimal
}

// scan walks the snapshot once and collects the evaluation counters.
// Lines with zero quantity contribute nothing, not even presence.
// A negative quantity anywhere invalidates the whole snapshot.
func (r Rules) scan(snap Snapshot) (cartStats, error) {
	var stats cartStats
	for _, li := range snap {
		if li.Quantity < 0 {
			return cartStats{}, errors.Wrapf(ErrInvalidQuantity, "product %s", li.ProductID)
		}
		if li.Quantity == 0 {
			continue
		}
		if li.ProductID != r.TicketProductID {
			stats.hasOtherProduct = true
			continue
		}
		stats.ticketQuantity += li.Quantity
		if !li.PriceUnknown && li.UnitPrice.IsPositive() {
			stats.ticketSubtotal = stats.ticketSubtotal.Add(li.Subtotal())
			if stats.ticketPrice.IsZero() {
				stats.ticketPrice = li.UnitPrice
			}
		}
	}
	return stats, nil
}
