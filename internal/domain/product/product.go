package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. The designated
// ticket product is an ordinary catalog row; which row that is lives in
// configuration, not here.
type Product struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Category string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]Product, error)
	// ListIDs returns every catalog product ID. Used to warm the
	// known-product filter at startup.
	ListIDs(ctx context.Context) ([]string, error)
}
