package promo

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Observer carries the tracing and metrics instruments for the evaluation
// path. A nil Observer disables instrumentation.
type Observer struct {
	tracer      trace.Tracer
	evaluations metric.Int64Counter
	freeTickets metric.Int64Counter
}

// NewObserver builds the evaluation instruments from the given providers.
func NewObserver(tp trace.TracerProvider, mp metric.MeterProvider) (*Observer, error) {
	meter := mp.Meter("promo")

	evaluations, err := meter.Int64Counter("promo.evaluations",
		metric.WithDescription("Cart evaluations performed, by reconciliation action"))
	if err != nil {
		return nil, errors.Wrap(err, "evaluations counter")
	}
	freeTickets, err := meter.Int64Counter("promo.free_tickets",
		metric.WithDescription("Free tickets granted by the bulk discount ladder"))
	if err != nil {
		return nil, errors.Wrap(err, "free tickets counter")
	}

	return &Observer{
		tracer:      tp.Tracer("promo"),
		evaluations: evaluations,
		freeTickets: freeTickets,
	}, nil
}

func (o *Observer) start(ctx context.Context, lines int) (context.Context, trace.Span) {
	if o == nil {
		return ctx, nil
	}
	return o.tracer.Start(ctx, "promo.Evaluate",
		trace.WithAttributes(attribute.Int("cart.lines", lines)))
}

func (o *Observer) finish(ctx context.Context, span trace.Span, res *Result, err error) {
	if o == nil {
		return
	}
	defer span.End()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}

	span.SetAttributes(
		attribute.Int("cart.ticket_quantity", res.TicketQuantity),
		attribute.Int("promo.free_tickets", res.FreeTickets),
		attribute.String("promo.action", string(res.Action.Type)),
	)
	o.evaluations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("action", string(res.Action.Type))))
	if res.FreeTickets > 0 {
		o.freeTickets.Add(ctx, int64(res.FreeTickets))
	}
}
