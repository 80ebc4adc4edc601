// Package handler exposes the pricing-rules service over HTTP. The surface
// is the snapshot-in / decision-out boundary: hosts post cart snapshots and
// receive fee lines, a reconciliation action, and advisory allocations. The
// service never touches a cart itself.
package handler

import (
	"net/http"

	"github.com/tixgate/promo-service/internal/domain/product"
	"github.com/tixgate/promo-service/internal/domain/promo"
)

// Handler serves the promo API routes.
type Handler struct {
	promos   *promo.Service
	products product.Repository
	security *Security
}

// NewHandler constructs a Handler with the required domain dependencies.
// A nil security disables API key checks; only tests should do that.
func NewHandler(promos *promo.Service, products product.Repository, security *Security) *Handler {
	return &Handler{
		promos:   promos,
		products: products,
		security: security,
	}
}

// Routes registers all API routes on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/offers/bulk", h.BulkOffer)
	mux.HandleFunc("POST /api/cart/evaluate", h.secured(h.EvaluateCart))
	mux.HandleFunc("POST /api/tickets/add", h.secured(h.AddTickets))
}

// secured wraps a handler with the API key check when security is configured.
func (h *Handler) secured(next http.HandlerFunc) http.HandlerFunc {
	if h.security == nil {
		return next
	}
	return h.security.Require(next)
}
