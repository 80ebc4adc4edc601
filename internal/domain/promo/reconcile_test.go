package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ticketID = "ticket-entry-2"

func testRules() Rules {
	return Rules{
		TicketProductID: ticketID,
		Policy:          DefaultTierPolicy(),
	}
}

func line(id string, qty int, price string) LineItem {
	return LineItem{ProductID: id, Quantity: qty, UnitPrice: d(price)}
}

func TestReconcile(t *testing.T) {
	rules := testRules()

	tests := []struct {
		name string
		snap Snapshot
		want Action
	}{
		{
			name: "empty cart",
			snap: Snapshot{},
			want: Action{Type: ActionNone},
		},
		{
			name: "other product only adds complimentary unit",
			snap: Snapshot{line("mug", 1, "15")},
			want: Action{Type: ActionAdd, TargetQuantity: 1},
		},
		{
			name: "other product with single ticket is settled",
			snap: Snapshot{line("mug", 1, "15"), line(ticketID, 1, "2")},
			want: Action{Type: ActionNone},
		},
		{
			name: "other product with ticket pile caps to one",
			snap: Snapshot{line(ticketID, 3, "10"), line("mug", 1, "25")},
			want: Action{Type: ActionCap, TargetQuantity: 1},
		},
		{
			name: "tickets alone are removed",
			snap: Snapshot{line(ticketID, 5, "8")},
			want: Action{Type: ActionRemove},
		},
		{
			name: "ticket quantity summed across lines",
			snap: Snapshot{line(ticketID, 1, "2"), line(ticketID, 1, "2"), line("mug", 2, "30")},
			want: Action{Type: ActionCap, TargetQuantity: 1},
		},
		{
			name: "zero-quantity lines do not count as presence",
			snap: Snapshot{line("mug", 0, "15"), line(ticketID, 2, "2")},
			want: Action{Type: ActionRemove},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rules.Reconcile(tt.snap)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Applying the action and reconciling again must settle.
			applied := rules.ApplyAction(tt.snap, got)
			again, err := rules.Reconcile(applied)
			require.NoError(t, err)
			assert.Equal(t, ActionNone, again.Type, "reconcile must be idempotent")
		})
	}
}

func TestReconcile_NegativeQuantity(t *testing.T) {
	rules := testRules()

	_, err := rules.Reconcile(Snapshot{line("mug", -2, "15")})
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestApplyAction_DoesNotMutateInput(t *testing.T) {
	rules := testRules()
	snap := Snapshot{line(ticketID, 3, "10"), line("mug", 1, "25")}

	out := rules.ApplyAction(snap, Action{Type: ActionCap, TargetQuantity: 1})

	assert.Equal(t, 3, snap[0].Quantity, "input snapshot must stay untouched")
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].Quantity)
}

func TestApplyAction_CapMergesDuplicateTicketLines(t *testing.T) {
	rules := testRules()
	snap := Snapshot{line(ticketID, 2, "2"), line("mug", 1, "25"), line(ticketID, 1, "2")}

	out := rules.ApplyAction(snap, Action{Type: ActionCap, TargetQuantity: 1})

	tickets := 0
	for _, li := range out {
		if li.ProductID == ticketID {
			tickets += li.Quantity
		}
	}
	assert.Equal(t, 1, tickets)
}

func TestApplyAction_Remove(t *testing.T) {
	rules := testRules()
	snap := Snapshot{line(ticketID, 5, "8")}

	out := rules.ApplyAction(snap, Action{Type: ActionRemove})
	assert.Empty(t, out)
}
