// Package promotion implements basket-level promotion rules: conditional
// transformations that may change one product's effective price or quantity
// based on the composition of the whole basket.
package promotion

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/domain/product"
)

// Rule inspects a basket's products and may mutate at most one of them.
// Rules are applied in an explicit, configured order; a rule whose categories
// are absent from the basket is a no-op.
type Rule interface {
	// Name identifies the rule in configuration and logs.
	Name() string
	// Apply runs the rule against the basket's products.
	Apply(products []*product.Product)
}

// findByCategory returns the first product of the given category. Baskets are
// expected to carry at most one product per category; when they do not, the
// first match wins and later duplicates are left untouched.
func findByCategory(products []*product.Product, category string) *product.Product {
	for _, p := range products {
		if p.Category() == category {
			return p
		}
	}
	return nil
}

// CrossDiscount makes the Discounted category cheaper when the basket holds
// strictly more than Threshold units of the Trigger category: the discounted
// product's price becomes quantity * FlatUnitPrice, replacing its normal
// strategy. All four parameters are per-instance configuration.
type CrossDiscount struct {
	Trigger       string
	Discounted    string
	Threshold     decimal.Decimal
	FlatUnitPrice decimal.Decimal
}

// Name implements Rule.
func (r CrossDiscount) Name() string { return "cross_discount" }

// Apply implements Rule.
func (r CrossDiscount) Apply(products []*product.Product) {
	discounted := findByCategory(products, r.Discounted)
	trigger := findByCategory(products, r.Trigger)

	if discounted == nil || trigger == nil {
		return
	}
	if !trigger.Quantity().GreaterThan(r.Threshold) {
		return
	}

	flat := r.FlatUnitPrice
	discounted.SetPriceOverride(func(qty decimal.Decimal) decimal.Decimal {
		return qty.Mul(flat)
	})
}

// FreeWithPurchase gives away one unit of the Receiver category for every
// unit (or kilogram) of the Giver category in the basket: the receiver's
// billable quantity is reduced by the giver's quantity, clamped at zero.
type FreeWithPurchase struct {
	Giver    string
	Receiver string
}

// Name implements Rule.
func (r FreeWithPurchase) Name() string { return "free_with_purchase" }

// Apply implements Rule.
func (r FreeWithPurchase) Apply(products []*product.Product) {
	giver := findByCategory(products, r.Giver)
	receiver := findByCategory(products, r.Receiver)

	if giver == nil || receiver == nil {
		return
	}

	receiver.ReduceQuantityBy(giver.Quantity())
}
