// Package product models a catalog entry placed in a basket: a category tag,
// a quantity, and the pricing strategy it was registered with.
package product

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/domain/pricing"
)

// ErrInvalidQuantity is returned when a product is constructed with a
// negative quantity. Only promotion-driven reductions are clamped; a caller
// supplying a negative quantity is a bug and is rejected outright.
var ErrInvalidQuantity = errors.New("quantity must not be negative")

// Product is a priced basket line. Quantity is mutable because promotion
// rules may reduce it; the strategy itself never changes, but a promotion can
// install a price override that shadows it.
type Product struct {
	category string
	quantity decimal.Decimal
	strategy pricing.Strategy
	override pricing.PriceFunc
}

// New constructs a product of the given category and quantity.
func New(category string, strategy pricing.Strategy, quantity decimal.Decimal) (*Product, error) {
	if quantity.IsNegative() {
		return nil, errors.Wrapf(ErrInvalidQuantity, "product %q quantity %s", category, quantity)
	}
	return &Product{
		category: category,
		quantity: quantity,
		strategy: strategy,
	}, nil
}

// Category returns the catalog category this product belongs to.
func (p *Product) Category() string { return p.category }

// Quantity returns the current billable quantity.
func (p *Product) Quantity() decimal.Decimal { return p.quantity }

// Strategy returns the pricing strategy the product was registered with.
// Promotion rules use its Kind to tell weighed goods apart.
func (p *Product) Strategy() pricing.Strategy { return p.strategy }

// Price returns the current line price: the promotion override when one has
// been installed, otherwise the registered strategy.
func (p *Product) Price() decimal.Decimal {
	if p.override != nil {
		return p.override(p.quantity)
	}
	return p.strategy.Price(p.quantity)
}

// SetPriceOverride installs a replacement price computation. The first
// override sticks for the product's lifetime; installing another is a no-op,
// so re-pricing a basket cannot stack overrides.
func (p *Product) SetPriceOverride(fn pricing.PriceFunc) {
	if p.override != nil {
		return
	}
	p.override = fn
}

// Overridden reports whether a promotion has replaced the price computation.
func (p *Product) Overridden() bool { return p.override != nil }

// ReduceQuantityBy lowers the billable quantity by n, clamping at zero.
// Over-reduction is not an error: a promotion giving away more units than the
// basket holds simply makes the line free.
func (p *Product) ReduceQuantityBy(n decimal.Decimal) {
	p.quantity = p.quantity.Sub(n)
	if p.quantity.IsNegative() {
		p.quantity = decimal.Zero
	}
}
