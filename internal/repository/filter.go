package repository

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tixgate/promo-service/internal/domain/product"
)

const (
	// filterFPR is the accepted false-positive rate for the known-product
	// filter. A false positive only costs one catalog query.
	filterFPR = 0.001
	// filterMinCapacity keeps small catalogs from producing degenerate
	// filters with high collision rates after growth.
	filterMinCapacity = 10_000
)

// ProductFilter is a probabilistic set of known catalog product IDs. A
// definite "no" lets the evaluation path skip the catalog for IDs that
// cannot exist. The filter is rebuilt from the catalog on a schedule, so
// it may briefly miss freshly inserted products; those fall through to a
// catalog query via a false "maybe" only after the next rebuild, which is
// the safe direction to be stale in.
type ProductFilter struct {
	products product.Repository
	filter   atomic.Pointer[bloom.BloomFilter]
}

// NewProductFilter builds a filter from the current catalog contents.
func NewProductFilter(ctx context.Context, products product.Repository) (*ProductFilter, error) {
	f := &ProductFilter{products: products}
	if err := f.Refresh(ctx); err != nil {
		return nil, errors.Wrap(err, "initial filter build")
	}
	return f, nil
}

// MayExist reports whether the given product ID may exist in the catalog.
// False is definite; true may be a false positive.
func (f *ProductFilter) MayExist(id string) bool {
	bf := f.filter.Load()
	if bf == nil {
		return true
	}
	return bf.TestString(id)
}

// Refresh rebuilds the filter from the catalog. The old filter stays in
// service until the replacement is complete.
func (f *ProductFilter) Refresh(ctx context.Context) error {
	ids, err := f.products.ListIDs(ctx)
	if err != nil {
		return errors.Wrap(err, "list product ids")
	}

	capacity := uint(len(ids))
	if capacity < filterMinCapacity {
		capacity = filterMinCapacity
	}

	bf := bloom.NewWithEstimates(capacity, filterFPR)
	for _, id := range ids {
		bf.AddString(id)
	}

	f.filter.Store(bf)
	return nil
}

// Run rebuilds the filter at the given interval until ctx is cancelled.
// Rebuild failures are logged and retried on the next tick; a stale filter
// is still correct, just less fresh.
func (f *ProductFilter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.Refresh(ctx); err != nil {
				zctx.From(ctx).Warn("product filter refresh failed", zap.Error(err))
			}
		}
	}
}
