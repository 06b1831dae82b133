package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/basket-pricer/internal/domain/pricing"
	"github.com/xenking/basket-pricer/pkg/moneyfmt"
)

// ListCatalog returns all registered categories with their pricing terms.
func (h *Handler) ListCatalog(w http.ResponseWriter, _ *http.Request) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("categories")
	e.ArrStart()
	for _, name := range h.catalog.Categories() {
		strategy, ok := h.catalog.Strategy(name)
		if !ok {
			continue
		}

		e.ObjStart()
		e.FieldStart("name")
		e.Str(name)
		e.FieldStart("kind")
		e.Str(string(strategy.Kind()))
		e.FieldStart("terms")
		e.Str(describeStrategy(strategy))
		e.ObjEnd()
	}
	e.ArrEnd()
	e.ObjEnd()

	writeJSON(w, http.StatusOK, &e)
}

// describeStrategy renders a strategy's pricing terms for display.
func describeStrategy(s pricing.Strategy) string {
	switch s := s.(type) {
	case pricing.PerUnit:
		return fmt.Sprintf("%s each", moneyfmt.Amount(s.UnitPrice))
	case pricing.PerWeight:
		return fmt.Sprintf("%s per kilo", moneyfmt.Amount(s.PricePerKilo))
	case pricing.MultiBuy:
		return fmt.Sprintf("%s for %s", s.BundleSize, moneyfmt.Amount(s.BundlePrice))
	default:
		return string(s.Kind())
	}
}
