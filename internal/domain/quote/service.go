// Package quote prices customer baskets against the catalog and returns
// itemised quotes. Nothing is persisted: a quote is a pure computation over
// the request and the configured promotion rules and tax policies.
package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/domain/basket"
	"github.com/xenking/basket-pricer/internal/domain/catalog"
	"github.com/xenking/basket-pricer/internal/domain/product"
	"github.com/xenking/basket-pricer/internal/domain/promotion"
	"github.com/xenking/basket-pricer/internal/domain/tax"
)

// Sentinel errors for request validation.
var (
	ErrEmptyItems = fmt.Errorf("items required")
)

// CategoryNotFoundError indicates a requested category is not in the catalog.
type CategoryNotFoundError struct {
	Category string
}

func (e *CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category %s not found", e.Category)
}

// InvalidQuantityError indicates a line item has a negative quantity.
type InvalidQuantityError struct {
	Category string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must not be negative for category %s", e.Category)
}

// LineItem is one requested basket line. Quantity is a count for per-unit
// and multi-buy goods and kilograms for weighed goods.
type LineItem struct {
	Category string
	Quantity decimal.Decimal
}

// Request holds the input for pricing a basket. Export selects the export
// tax policy instead of the standard one.
type Request struct {
	Items  []LineItem
	Export bool
}

// Line is a priced basket line after promotions: the billable quantity may
// be lower than requested and the price may come from a promotion override.
type Line struct {
	Category string
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

// Quote is the result of pricing one basket.
type Quote struct {
	ID        string
	Lines     []Line
	Total     decimal.Decimal
	CreatedAt time.Time
}

// Service prices baskets. The catalog, promotion rules, and tax policies are
// fixed at construction; per-request state lives entirely in the basket.
type Service struct {
	catalog  *catalog.Catalog
	rules    []promotion.Rule
	standard tax.Policy
	export   tax.Policy
	now      func() time.Time
}

// NewService creates a quote Service.
func NewService(c *catalog.Catalog, rules []promotion.Rule, standard, export tax.Policy) *Service {
	return &Service{
		catalog:  c,
		rules:    rules,
		standard: standard,
		export:   export,
		now:      time.Now,
	}
}

// Price validates the request, builds a fresh basket from the catalog, and
// computes its total. Each call constructs new products, so promotion
// mutation never leaks between requests.
func (s *Service) Price(_ context.Context, req Request) (*Quote, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	built, err := s.buildProducts(req.Items)
	if err != nil {
		return nil, err
	}

	policy := s.standard
	if req.Export {
		policy = s.export
	}

	b := basket.New(built, s.rules, policy)
	total, err := b.Total()
	if err != nil {
		return nil, fmt.Errorf("price basket: %w", err)
	}

	// Lines reflect promotion-adjusted quantities and prices.
	lines := make([]Line, len(built))
	for i, p := range built {
		lines[i] = Line{
			Category: p.Category(),
			Quantity: p.Quantity(),
			Price:    p.Price(),
		}
	}

	return &Quote{
		ID:        uuid.New().String(),
		Lines:     lines,
		Total:     total,
		CreatedAt: s.now(),
	}, nil
}

func (s *Service) buildProducts(items []LineItem) ([]*product.Product, error) {
	built := make([]*product.Product, len(items))
	for i, item := range items {
		if item.Quantity.IsNegative() {
			return nil, &InvalidQuantityError{Category: item.Category}
		}

		p, err := s.catalog.NewProduct(item.Category, item.Quantity)
		if err != nil {
			if errors.Is(err, catalog.ErrUnknownCategory) {
				return nil, &CategoryNotFoundError{Category: item.Category}
			}
			return nil, fmt.Errorf("build product %q: %w", item.Category, err)
		}
		built[i] = p
	}
	return built, nil
}
