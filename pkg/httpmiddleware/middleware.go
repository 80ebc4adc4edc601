// Package httpmiddleware provides net/http middleware for the promo API:
// panic recovery, request IDs, CORS, rate limiting, request logging, and
// OpenTelemetry instrumentation.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// Wrap applies the given middlewares to h. The first middleware in the list
// becomes the outermost layer, so Wrap(h, a, b) serves requests as a(b(h)).
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
