package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/tixgate/promo-service/internal/domain/promo"
)

const maxBodyBytes = 1 << 20

// EvaluateCart handles POST /api/cart/evaluate. It decodes a cart snapshot,
// runs the full calculator pipeline, and returns the decision set: fee
// lines, reconciliation action, and advisory allocations.
func (h *Handler) EvaluateCart(w http.ResponseWriter, r *http.Request) {
	req, err := decodeEvaluateRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, http.StatusBadRequest, "items required")
		return
	}
	for _, line := range req.Lines {
		if line.ProductID == "" {
			writeError(w, http.StatusBadRequest, "productId required")
			return
		}
		if line.Quantity <= 0 {
			writeError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("quantity must be greater than 0 for product %s", line.ProductID))
			return
		}
	}

	res, err := h.promos.Evaluate(r.Context(), req)
	if err != nil {
		if errors.Is(err, promo.ErrInvalidQuantity) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeInternalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, encodeEvaluation(res))
}

func decodeEvaluateRequest(w http.ResponseWriter, r *http.Request) (promo.EvaluateRequest, error) {
	var req promo.EvaluateRequest

	d := jx.Decode(http.MaxBytesReader(w, r.Body, maxBodyBytes), 4096)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "items" {
			return d.Skip()
		}
		return d.Arr(func(d *jx.Decoder) error {
			line, err := decodeRequestLine(d)
			if err != nil {
				return err
			}
			req.Lines = append(req.Lines, line)
			return nil
		})
	})
	if err != nil {
		return promo.EvaluateRequest{}, errors.Wrap(err, "decode request")
	}
	return req, nil
}

func decodeRequestLine(d *jx.Decoder) (promo.RequestLine, error) {
	var line promo.RequestLine
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Str()
			line.ProductID = v
			return err
		case "quantity":
			v, err := d.Int()
			line.Quantity = v
			return err
		case "unitPrice":
			price, err := decodePrice(d)
			if err != nil {
				return err
			}
			line.UnitPrice = price
			return nil
		default:
			return d.Skip()
		}
	})
	return line, err
}

// decodePrice accepts a price as a JSON string or number, or null for
// "resolve from catalog".
func decodePrice(d *jx.Decoder) (*decimal.Decimal, error) {
	switch d.Next() {
	case jx.Null:
		return nil, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return nil, err
		}
		p, err := decimal.NewFromString(s)
		if err != nil {
			return nil, errors.Wrap(err, "parse unitPrice")
		}
		return &p, nil
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}
		p, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil, errors.Wrap(err, "parse unitPrice")
		}
		return &p, nil
	default:
		return nil, errors.New("unitPrice must be a string or number")
	}
}

func encodeEvaluation(res *promo.Result) *jx.Encoder {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(res.ID)
	e.FieldStart("ticketQuantity")
	e.Int(res.TicketQuantity)
	e.FieldStart("freeTickets")
	e.Int(res.FreeTickets)
	e.FieldStart("discountAmount")
	e.Str(res.DiscountAmount.StringFixed(2))

	e.FieldStart("fees")
	e.ArrStart()
	for _, f := range res.Fees {
		e.ObjStart()
		e.FieldStart("name")
		e.Str(f.Name)
		e.FieldStart("amount")
		e.Str(f.Amount.StringFixed(2))
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("action")
	e.ObjStart()
	e.FieldStart("type")
	e.Str(string(res.Action.Type))
	if res.Action.TargetQuantity > 0 {
		e.FieldStart("targetQuantity")
		e.Int(res.Action.TargetQuantity)
	}
	e.ObjEnd()

	e.FieldStart("allocations")
	e.ArrStart()
	for _, a := range res.Allocations {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(a.ProductID)
		e.FieldStart("tickets")
		e.Int(a.Tickets)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.ObjEnd()
	return &e
}
