// Package catalog maps category names to pricing strategies. The catalog is
// an explicit value passed to whoever builds products; there is no implicit
// process-wide registry.
package catalog

import (
	"sort"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/domain/pricing"
	"github.com/xenking/basket-pricer/internal/domain/product"
)

var (
	// ErrUnknownCategory is returned when a product is requested for a
	// category the catalog does not carry.
	ErrUnknownCategory = errors.New("unknown catalog category")
	// ErrDuplicateCategory is returned when a category is registered twice.
	ErrDuplicateCategory = errors.New("category already registered")
)

// Catalog holds the registered categories. It is built once at startup and
// read-only afterwards.
type Catalog struct {
	entries map[string]pricing.Strategy
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]pricing.Strategy)}
}

// Register binds a category name to a pricing strategy.
func (c *Catalog) Register(name string, strategy pricing.Strategy) error {
	if _, ok := c.entries[name]; ok {
		return errors.Wrapf(ErrDuplicateCategory, "category %q", name)
	}
	c.entries[name] = strategy
	return nil
}

// Strategy looks up the pricing strategy for a category.
func (c *Catalog) Strategy(name string) (pricing.Strategy, bool) {
	s, ok := c.entries[name]
	return s, ok
}

// Categories returns all registered category names, sorted.
func (c *Catalog) Categories() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered categories.
func (c *Catalog) Len() int { return len(c.entries) }

// NewProduct builds a product of the given category. Quantity is optional
// and defaults to 1; at most one value may be passed.
func (c *Catalog) NewProduct(category string, quantity ...decimal.Decimal) (*product.Product, error) {
	strategy, ok := c.entries[category]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCategory, "category %q", category)
	}

	qty := decimal.NewFromInt(1)
	switch len(quantity) {
	case 0:
	case 1:
		qty = quantity[0]
	default:
		return nil, errors.New("at most one quantity may be given")
	}

	return product.New(category, strategy, qty)
}

// Default returns the stock greengrocer catalog the engine originally
// shipped with. Useful for development and as loader fallback when no
// catalog files are configured.
func Default() *Catalog {
	c := New()

	perUnit := func(name, price string) {
		// Registration of literals cannot collide.
		_ = c.Register(name, pricing.NewPerUnit(decimal.RequireFromString(price)))
	}
	perKilo := func(name, price string) {
		_ = c.Register(name, pricing.NewPerWeight(decimal.RequireFromString(price)))
	}

	perUnit("banana", "1.00")
	perUnit("apple", "1.00")
	perUnit("orange", "1.50")
	perUnit("plum", "1.50")
	perUnit("grapefruit", "1.50")
	perKilo("strawberry", "1.00")
	perKilo("cherry", "2.00")
	perKilo("raspberry", "2.00")
	perKilo("blackberry", "2.00")
	perKilo("cranberry", "2.00")
	perUnit("cucumber", "1.00")
	perUnit("lettuce", "0.50")
	perKilo("tomato", "1.00")

	aubergine, _ := pricing.NewMultiBuy(2, decimal.RequireFromString("1.00"))
	_ = c.Register("aubergine", aubergine)

	return c
}
