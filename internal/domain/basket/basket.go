// Package basket aggregates products, promotion rules, and a tax policy into
// the single total computation the rest of the system consumes.
package basket

import (
	"github.com/shopspring/decimal"

	"github.com/xenking/basket-pricer/internal/domain/product"
	"github.com/xenking/basket-pricer/internal/domain/promotion"
	"github.com/xenking/basket-pricer/internal/domain/tax"
)

// Basket holds a fixed snapshot of products plus the rules and tax policy to
// price them under. Membership never changes after construction; promotion
// rules may mutate the products themselves during the first Total call.
//
// A basket owns its products exclusively. Promotion application is
// destructive, so products must not be shared between baskets, and a caller
// invoking Total concurrently on one instance must serialize those calls.
type Basket struct {
	products []*product.Product
	rules    []promotion.Rule
	policy   tax.Policy

	rulesApplied bool
}

// New constructs a basket. Rules are applied in exactly the order given.
func New(products []*product.Product, rules []promotion.Rule, policy tax.Policy) *Basket {
	return &Basket{
		products: products,
		rules:    rules,
		policy:   policy,
	}
}

// Products exposes the basket's lines for display purposes. After Total has
// been called they reflect promotion-adjusted quantities and prices.
func (b *Basket) Products() []*product.Product {
	return b.products
}

// Total prices the basket: promotion rules run once, in order, possibly
// mutating product quantities or installing price overrides; line prices are
// then summed without intermediate rounding; finally the tax policy produces
// the rounded total. Rules run at most once per basket, so calling Total
// again returns the same value.
func (b *Basket) Total() (decimal.Decimal, error) {
	b.applyRules()

	subtotal := decimal.Zero
	for _, p := range b.products {
		subtotal = subtotal.Add(p.Price())
	}

	return b.policy.Apply(subtotal)
}

func (b *Basket) applyRules() {
	if b.rulesApplied {
		return
	}
	b.rulesApplied = true

	for _, r := range b.rules {
		r.Apply(b.products)
	}
}
