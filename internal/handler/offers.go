package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
)

// BulkOffer handles GET /api/offers/bulk. It returns the tier ladder plus
// the projected free-unit count for the optional quantity parameter, which
// is what a host needs to render the bulk purchase offer box.
func (h *Handler) BulkOffer(w http.ResponseWriter, r *http.Request) {
	quantity := 0
	if raw := r.URL.Query().Get("quantity"); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "quantity must be an integer")
			return
		}
		quantity = q
	}

	rules := h.promos.Rules()
	free, err := rules.Policy.FreeTickets(quantity)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("ticketProductId")
	e.Str(rules.TicketProductID)
	e.FieldStart("quantity")
	e.Int(quantity)
	e.FieldStart("freeTickets")
	e.Int(free)

	e.FieldStart("tiers")
	e.ArrStart()
	for _, t := range rules.Policy.Tiers {
		e.ObjStart()
		e.FieldStart("minQuantity")
		e.Int(t.MinQuantity)
		e.FieldStart("subtract")
		e.Int(t.Subtract)
		e.FieldStart("cap")
		e.Int(t.Cap)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}
