package promo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tixgate/promo-service/internal/domain/product"
)

// RequestLine is one cart line as submitted by the host. UnitPrice is
// optional; when nil the service resolves it from the product catalog.
type RequestLine struct {
	ProductID string
	Quantity  int
	UnitPrice *decimal.Decimal
}

// EvaluateRequest is a host-supplied cart snapshot awaiting price resolution.
type EvaluateRequest struct {
	Lines []RequestLine
}

// Result is an Evaluation stamped with a unique identifier for correlation
// in host logs.
type Result struct {
	ID string
	Evaluation
}

// ProductFilter answers whether a product ID may exist in the catalog.
// False answers are definite; true answers may be false positives.
type ProductFilter interface {
	MayExist(id string) bool
}

// Service resolves snapshot prices against the product catalog and runs the
// calculator. It holds no per-request state; every evaluation starts from a
// fresh snapshot.
type Service struct {
	rules    Rules
	products product.Repository
	filter   ProductFilter
	observer *Observer
}

// Option customizes a Service.
type Option func(*Service)

// WithObserver attaches tracing and metrics instruments to the evaluation
// path.
func WithObserver(o *Observer) Option {
	return func(s *Service) { s.observer = o }
}

// NewService creates a promo Service for the given rules, catalog, and
// known-product filter. The filter may be nil, in which case every
// unresolved line goes to the catalog.
func NewService(rules Rules, products product.Repository, filter ProductFilter, opts ...Option) *Service {
	s := &Service{
		rules:    rules,
		products: products,
		filter:   filter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rules exposes the bound rule set, for surfaces that present the tier
// ladder itself.
func (s *Service) Rules() Rules {
	return s.rules
}

// Evaluate builds a priced snapshot from the request and runs the full
// calculator pipeline over it.
//
// Lines without a submitted price are resolved from the catalog in a single
// batch. IDs the known-product filter rules out are marked unknown without a
// catalog round-trip, as are IDs the catalog does not return; unknown lines
// degrade to a zero allocation rather than failing the evaluation.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (res *Result, err error) {
	ctx, span := s.observer.start(ctx, len(req.Lines))
	defer func() { s.observer.finish(ctx, span, res, err) }()

	snap := make(Snapshot, len(req.Lines))

	var unresolved []string
	for i, line := range req.Lines {
		snap[i] = LineItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		switch {
		case line.UnitPrice != nil:
			snap[i].UnitPrice = *line.UnitPrice
		case s.filter != nil && !s.filter.MayExist(line.ProductID):
			snap[i].PriceUnknown = true
		default:
			unresolved = append(unresolved, line.ProductID)
		}
	}

	if len(unresolved) > 0 {
		fetched, err := s.products.GetByIDs(ctx, unresolved)
		if err != nil {
			return nil, errors.Wrap(err, "resolve prices")
		}
		prices := make(map[string]decimal.Decimal, len(fetched))
		for _, p := range fetched {
			prices[p.ID] = p.Price
		}
		for i := range snap {
			if snap[i].PriceUnknown || req.Lines[i].UnitPrice != nil {
				continue
			}
			price, ok := prices[snap[i].ProductID]
			if !ok {
				snap[i].PriceUnknown = true
				continue
			}
			snap[i].UnitPrice = price
		}
	}

	ev, err := s.rules.Evaluate(snap)
	if err != nil {
		return nil, err
	}

	return &Result{
		ID:         uuid.New().String(),
		Evaluation: ev,
	}, nil
}
