package promo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeTickets_Literals(t *testing.T) {
	policy := DefaultTierPolicy()

	tests := []struct {
		quantity int
		want     int
	}{
		{quantity: 0, want: 0},
		{quantity: 1, want: 0},
		{quantity: 10, want: 0},
		{quantity: 11, want: 1},
		{quantity: 15, want: 5},
		{quantity: 20, want: 10},
		{quantity: 49, want: 10}, // additional-tickets tier caps at 10, not q-10
		{quantity: 50, want: 0},  // boundary cliff, kept as the documented rule
		{quantity: 51, want: 1},
		{quantity: 150, want: 100},
		{quantity: 200, want: 150},
		{quantity: 201, want: 150},
		{quantity: 500, want: 150},
	}
	for _, tt := range tests {
		got, err := policy.FreeTickets(tt.quantity)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "quantity %d", tt.quantity)
	}
}

func TestFreeTickets_NegativeQuantity(t *testing.T) {
	policy := DefaultTierPolicy()

	_, err := policy.FreeTickets(-1)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestFreeTickets_NonDecreasingWithinTiers(t *testing.T) {
	policy := DefaultTierPolicy()

	// Monotonic within each tier of the default ladder; the only decrease
	// across the whole range is the documented 49 -> 50 cliff.
	prev := 0
	for q := 0; q <= 1000; q++ {
		got, err := policy.FreeTickets(q)
		require.NoError(t, err)
		if q != 50 {
			assert.GreaterOrEqual(t, got, prev, "quantity %d", q)
		}
		prev = got
	}
}

func TestFreeTickets_NeverExceedsPaidUnits(t *testing.T) {
	policy := DefaultTierPolicy()

	for q := 0; q <= 1000; q++ {
		got, err := policy.FreeTickets(q)
		require.NoError(t, err)

		bound := q - 1
		if bound < 0 {
			bound = 0
		}
		assert.LessOrEqual(t, got, bound, "quantity %d", q)
	}
}

func TestFreeTickets_EmptyLadderTier(t *testing.T) {
	policy := TierPolicy{}

	got, err := policy.FreeTickets(42)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestTierPolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  TierPolicy
		wantErr string
	}{
		{
			name:   "default ladder is valid",
			policy: DefaultTierPolicy(),
		},
		{
			name:    "empty ladder",
			policy:  TierPolicy{},
			wantErr: "at least one tier",
		},
		{
			name: "first tier not at zero",
			policy: TierPolicy{Tiers: []Tier{
				{MinQuantity: 5},
			}},
			wantErr: "must start at quantity 0",
		},
		{
			name: "bounds not ascending",
			policy: TierPolicy{Tiers: []Tier{
				{MinQuantity: 0},
				{MinQuantity: 20, Subtract: 10, Cap: 10},
				{MinQuantity: 20, Subtract: 20, Cap: 20},
			}},
			wantErr: "strictly ascending",
		},
		{
			name: "negative cap",
			policy: TierPolicy{Tiers: []Tier{
				{MinQuantity: 0, Cap: -1},
			}},
			wantErr: "must not be negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
