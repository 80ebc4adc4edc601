package promo

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Fee line names surfaced to the host alongside the signed amounts.
const (
	// BulkDiscountFeeName is the printf format for the bulk discount fee
	// line; the verb receives the free unit count.
	BulkDiscountFeeName = "%d Free Tickets Discount"
	// ComplimentaryFeeName is the fee line zeroing out the complimentary
	// ticket unit.
	ComplimentaryFeeName = "Free Entry Ticket Discount"
)

// Evaluation is the complete decision set for one cart snapshot: the fee
// lines to append, the reconciliation action to apply, and the advisory
// cross-sell allocations. The two counts and the discount amount are exactly
// what host-side copy needs to interpolate.
type Evaluation struct {
	TicketQuantity int
	FreeTickets    int
	DiscountAmount decimal.Decimal
	Fees           []FeeLine
	Action         Action
	Allocations    []Allocation
}

// Evaluate runs the full pipeline over one snapshot: scan once, compute the
// bulk discount fee, the complimentary fee, the reconciliation action, and
// the per-line allocations. The snapshot is never mutated and no state
// survives the call.
//
// Pricing degradation is deliberate: a missing or non-positive ticket price
// drops the affected fee lines instead of failing, because a pricing-rule
// miscalculation must never block checkout. The only hard error is a
// negative quantity in the snapshot.
func (r Rules) Evaluate(snap Snapshot) (Evaluation, error) {
	stats, err := r.scan(snap)
	if err != nil {
		return Evaluation{}, err
	}

	free, err := r.Policy.FreeTickets(stats.ticketQuantity)
	if err != nil {
		return Evaluation{}, err
	}
	// The policy already guarantees free <= quantity, but the fee must
	// never exceed the ticket line subtotal whatever the ladder says.
	if free > stats.ticketQuantity {
		free = stats.ticketQuantity
	}

	ev := Evaluation{
		TicketQuantity: stats.ticketQuantity,
		FreeTickets:    free,
		DiscountAmount: decimal.Zero,
		Action:         r.reconcile(stats),
	}

	if free > 0 && stats.ticketPrice.IsPositive() {
		discount := stats.ticketPrice.Mul(decimal.NewFromInt(int64(free)))
		// Ticket lines may carry differing submitted prices; the discount
		// must never exceed what the tickets actually cost.
		if discount.GreaterThan(stats.ticketSubtotal) {
			discount = stats.ticketSubtotal
		}
		ev.DiscountAmount = discount.Round(2)
		ev.Fees = append(ev.Fees, FeeLine{
			Name:   fmt.Sprintf(BulkDiscountFeeName, free),
			Amount: ev.DiscountAmount.Neg(),
		})
	}

	// One complimentary unit rides free whenever another product shares
	// the cart with at least one ticket unit. The fee equals one unit
	// price, independent of how often the reconciler has already run.
	if stats.hasOtherProduct && stats.ticketQuantity > 0 && stats.ticketPrice.IsPositive() {
		ev.Fees = append(ev.Fees, FeeLine{
			Name:   ComplimentaryFeeName,
			Amount: stats.ticketPrice.Round(2).Neg(),
		})
	}

	for _, li := range snap {
		if li.ProductID == r.TicketProductID || li.Quantity <= 0 {
			continue
		}
		tickets := 0
		if !li.PriceUnknown {
			tickets = AllocatedTickets(li.UnitPrice, false) * li.Quantity
		}
		ev.Allocations = append(ev.Allocations, Allocation{
			ProductID: li.ProductID,
			Tickets:   tickets,
		})
	}

	return ev, nil
}
