package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/domain/quote"
	"github.com/xenking/basket-pricer/pkg/moneyfmt"
)

// maxQuoteBody bounds request bodies; a basket request is tiny.
const maxQuoteBody = 1 << 20

// PriceQuote prices a basket request and returns the itemised quote.
func (h *Handler) PriceQuote(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxQuoteBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}

	req, err := decodeQuoteRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q, err := h.quotes.Price(r.Context(), req)
	if err != nil {
		mapQuoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, encodeQuote(q))
}

func decodeQuoteRequest(body []byte) (quote.Request, error) {
	var req quote.Request

	d := jx.DecodeBytes(body)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				item, err := decodeLineItem(d)
				if err != nil {
					return err
				}
				req.Items = append(req.Items, item)
				return nil
			})
		case "export":
			v, err := d.Bool()
			if err != nil {
				return err
			}
			req.Export = v
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return quote.Request{}, errors.Wrap(err, "decode request")
	}
	return req, nil
}

func decodeLineItem(d *jx.Decoder) (quote.LineItem, error) {
	item := quote.LineItem{Quantity: decimal.NewFromInt(1)}

	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "category":
			v, err := d.Str()
			if err != nil {
				return err
			}
			item.Category = v
			return nil
		case "quantity":
			qty, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, "quantity")
			}
			item.Quantity = qty
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return quote.LineItem{}, err
	}
	if item.Category == "" {
		return quote.LineItem{}, errors.New("category required")
	}
	return item, nil
}

// decodeDecimal accepts both JSON numbers and numeric strings, so weighed
// quantities like "0.5" survive clients that quote decimals.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var raw string
	switch d.Next() {
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		raw = v
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return decimal.Zero, err
		}
		raw = n.String()
	default:
		return decimal.Zero, errors.New("expected number or string")
	}
	return decimal.NewFromString(raw)
}

func encodeQuote(q *quote.Quote) *jx.Encoder {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str(q.ID)
	e.FieldStart("lines")
	e.ArrStart()
	for _, line := range q.Lines {
		e.ObjStart()
		e.FieldStart("category")
		e.Str(line.Category)
		e.FieldStart("quantity")
		e.Str(line.Quantity.String())
		e.FieldStart("price")
		e.Str(line.Price.StringFixed(2))
		e.FieldStart("display")
		e.Str(moneyfmt.ItemLabel(line.Category, line.Quantity, line.Price))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("total")
	e.Str(q.Total.StringFixed(2))
	e.FieldStart("created_at")
	e.Str(q.CreatedAt.UTC().Format(time.RFC3339))
	e.ObjEnd()
	return &e
}

// mapQuoteError converts domain errors to API responses.
func mapQuoteError(w http.ResponseWriter, err error) {
	if errors.Is(err, quote.ErrEmptyItems) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var iqErr *quote.InvalidQuantityError
	if errors.As(err, &iqErr) {
		writeError(w, http.StatusUnprocessableEntity, iqErr.Error())
		return
	}

	var nfErr *quote.CategoryNotFoundError
	if errors.As(err, &nfErr) {
		writeError(w, http.StatusUnprocessableEntity, nfErr.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, "internal error")
}
