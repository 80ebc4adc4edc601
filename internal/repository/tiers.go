package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tixgate/promo-service/internal/domain/promo"
)

const listTiersSQL = `SELECT min_quantity, subtract, cap
	FROM promo_tiers ORDER BY min_quantity`

// TierRepository loads the bulk discount ladder from PostgreSQL.
type TierRepository struct {
	pool *pgxpool.Pool
}

// NewTierRepository returns a TierRepository that uses the given pool.
func NewTierRepository(pool *pgxpool.Pool) *TierRepository {
	return &TierRepository{pool: pool}
}

// Load returns the stored tier policy. An empty promo_tiers table falls back
// to the built-in default ladder, so a fresh deployment works out of the box.
// Stored ladders are validated before being returned.
func (r *TierRepository) Load(ctx context.Context) (promo.TierPolicy, error) {
	rows, err := r.pool.Query(ctx, listTiersSQL)
	if err != nil {
		return promo.TierPolicy{}, fmt.Errorf("loading promo tiers: %w", err)
	}

	tiers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (promo.Tier, error) {
		var t promo.Tier
		err := row.Scan(&t.MinQuantity, &t.Subtract, &t.Cap)
		return t, err
	})
	if err != nil {
		return promo.TierPolicy{}, fmt.Errorf("loading promo tiers: %w", err)
	}

	if len(tiers) == 0 {
		return promo.DefaultTierPolicy(), nil
	}

	policy := promo.TierPolicy{Tiers: tiers}
	if err := policy.Validate(); err != nil {
		return promo.TierPolicy{}, fmt.Errorf("stored tier policy invalid: %w", err)
	}
	return policy, nil
}
