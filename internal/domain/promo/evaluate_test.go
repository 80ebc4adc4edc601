package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_SmallCartNoBulkDiscount(t *testing.T) {
	rules := testRules()
	snap := Snapshot{
		line(ticketID, 3, "10"),
		line("mug", 1, "25"),
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, 3, ev.TicketQuantity)
	assert.Equal(t, 0, ev.FreeTickets)
	assert.True(t, ev.DiscountAmount.IsZero())

	// Only the complimentary fee applies: another product is present and
	// ticket units exist, so one unit rides free at its own price.
	require.Len(t, ev.Fees, 1)
	assert.Equal(t, ComplimentaryFeeName, ev.Fees[0].Name)
	assert.True(t, ev.Fees[0].Amount.Equal(d("-10")))

	assert.Equal(t, Action{Type: ActionCap, TargetQuantity: 1}, ev.Action)

	require.Len(t, ev.Allocations, 1)
	assert.Equal(t, Allocation{ProductID: "mug", Tickets: 2}, ev.Allocations[0])
}

func TestEvaluate_BulkDiscountFee(t *testing.T) {
	rules := testRules()
	snap := Snapshot{
		line(ticketID, 20, "2.50"),
		line("poster", 1, "25"),
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, 20, ev.TicketQuantity)
	assert.Equal(t, 10, ev.FreeTickets)
	assert.True(t, ev.DiscountAmount.Equal(d("25.00")), "got %s", ev.DiscountAmount)

	require.Len(t, ev.Fees, 2)
	assert.Equal(t, "10 Free Tickets Discount", ev.Fees[0].Name)
	assert.True(t, ev.Fees[0].Amount.Equal(d("-25.00")))
	assert.Equal(t, ComplimentaryFeeName, ev.Fees[1].Name)
	assert.True(t, ev.Fees[1].Amount.Equal(d("-2.50")))
}

func TestEvaluate_TicketsOnly(t *testing.T) {
	rules := testRules()
	snap := Snapshot{line(ticketID, 60, "2")}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, 10, ev.FreeTickets)
	require.Len(t, ev.Fees, 1, "no complimentary fee without another product")
	assert.Equal(t, "10 Free Tickets Discount", ev.Fees[0].Name)
	assert.True(t, ev.Fees[0].Amount.Equal(d("-20")))
	assert.Equal(t, ActionRemove, ev.Action.Type)
	assert.Empty(t, ev.Allocations)
}

func TestEvaluate_DiscountCappedAtTicketSubtotal(t *testing.T) {
	rules := testRules()
	// A zero-priced ticket line drives the quantity into a discount tier
	// while a single expensive line sets the unit price. Unclamped, the
	// discount would be 10 x 100 against tickets worth 100 in total.
	snap := Snapshot{
		line(ticketID, 19, "0"),
		line(ticketID, 1, "100"),
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	assert.Equal(t, 20, ev.TicketQuantity)
	assert.Equal(t, 10, ev.FreeTickets)
	assert.True(t, ev.DiscountAmount.Equal(d("100.00")), "got %s", ev.DiscountAmount)
	require.Len(t, ev.Fees, 1)
	assert.True(t, ev.Fees[0].Amount.Equal(d("-100.00")))
}

func TestEvaluate_MixedTicketPrices(t *testing.T) {
	rules := testRules()
	snap := Snapshot{
		line(ticketID, 10, "2"),
		line(ticketID, 10, "4"),
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	// Free units price at the first positive ticket price; the subtotal
	// across both lines (60) leaves the 10 x 2 discount untouched.
	assert.Equal(t, 10, ev.FreeTickets)
	assert.True(t, ev.DiscountAmount.Equal(d("20.00")), "got %s", ev.DiscountAmount)
}

func TestEvaluate_MissingTicketPriceDegradesToZero(t *testing.T) {
	rules := testRules()
	snap := Snapshot{
		{ProductID: ticketID, Quantity: 20, PriceUnknown: true},
		line("mug", 1, "25"),
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	// Free units are still reported for host copy, but no fee is emitted
	// without a usable price. Degrading beats blocking checkout.
	assert.Equal(t, 10, ev.FreeTickets)
	assert.True(t, ev.DiscountAmount.IsZero())
	assert.Empty(t, ev.Fees)
}

func TestEvaluate_ZeroTicketPriceDegradesToZero(t *testing.T) {
	rules := testRules()
	snap := Snapshot{
		line(ticketID, 20, "0"),
		line("mug", 1, "25"),
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)
	assert.Empty(t, ev.Fees)
}

func TestEvaluate_UnknownProductAllocatesZero(t *testing.T) {
	rules := testRules()
	snap := Snapshot{
		line(ticketID, 1, "2"),
		{ProductID: "ghost", Quantity: 2, PriceUnknown: true},
	}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	require.Len(t, ev.Allocations, 1)
	assert.Equal(t, Allocation{ProductID: "ghost", Tickets: 0}, ev.Allocations[0])

	// The unknown line still counts as another product being present.
	require.Len(t, ev.Fees, 1)
	assert.Equal(t, ComplimentaryFeeName, ev.Fees[0].Name)
}

func TestEvaluate_AllocationScalesWithQuantity(t *testing.T) {
	rules := testRules()
	snap := Snapshot{line("poster", 3, "25")}

	ev, err := rules.Evaluate(snap)
	require.NoError(t, err)

	require.Len(t, ev.Allocations, 1)
	assert.Equal(t, 6, ev.Allocations[0].Tickets)
	assert.Equal(t, ActionAdd, ev.Action.Type)
}

func TestEvaluate_NegativeQuantity(t *testing.T) {
	rules := testRules()
	snap := Snapshot{line(ticketID, -1, "2")}

	_, err := rules.Evaluate(snap)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestEvaluate_EmptySnapshot(t *testing.T) {
	rules := testRules()

	ev, err := rules.Evaluate(Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, 0, ev.TicketQuantity)
	assert.Empty(t, ev.Fees)
	assert.Equal(t, ActionNone, ev.Action.Type)
}
