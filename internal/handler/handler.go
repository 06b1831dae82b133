// Package handler exposes the pricing engine over HTTP: a catalog listing
// and a quote endpoint. Bodies are encoded and decoded with go-faster/jx.
package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/basket-pricer/internal/domain/catalog"
	"github.com/xenking/basket-pricer/internal/domain/quote"
)

// Handler serves the pricing API.
type Handler struct {
	catalog *catalog.Catalog
	quotes  *quote.Service
}

// NewHandler constructs a Handler.
func NewHandler(c *catalog.Catalog, quotes *quote.Service) *Handler {
	return &Handler{
		catalog: c,
		quotes:  quotes,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog", h.ListCatalog)
	mux.HandleFunc("POST /api/quote", h.PriceQuote)
}

// writeJSON writes an encoded body with the JSON content type.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes the API error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, &e)
}
