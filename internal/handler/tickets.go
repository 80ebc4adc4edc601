package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// AddTickets handles POST /api/tickets/add, the explicit opt-in that turns
// an advisory allocation into an add-to-cart instruction. The host performs
// the actual cart mutation; this endpoint only validates the quantity and
// names the product to add.
func (h *Handler) AddTickets(w http.ResponseWriter, r *http.Request) {
	quantity, err := decodeAddTicketsRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if quantity <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "quantity must be greater than 0")
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("productId")
	e.Str(h.promos.Rules().TicketProductID)
	e.FieldStart("quantity")
	e.Int(quantity)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}

func decodeAddTicketsRequest(w http.ResponseWriter, r *http.Request) (int, error) {
	quantity := 0
	d := jx.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), 512)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		quantity = v
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "decode request")
	}
	return quantity, nil
}
