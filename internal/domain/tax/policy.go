// Package tax implements the policies applied to a basket's pre-tax subtotal.
// Every policy rounds exactly once, to two decimal places, after all tax
// arithmetic; line prices are never rounded individually.
package tax

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNegativeSubtotal is returned when a policy receives a negative subtotal.
// Basket invariants keep subtotals non-negative, so hitting this means a bug
// upstream rather than a pricing condition worth a silent negative total.
var ErrNegativeSubtotal = errors.New("subtotal must not be negative")

var one = decimal.NewFromInt(1)

// Policy transforms a pre-tax subtotal into the final rounded total.
type Policy interface {
	Apply(subtotal decimal.Decimal) (decimal.Decimal, error)
}

// round2 rounds to the nearest cent, ties away from zero, matching the
// reference totals.
func round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Standard applies VAT: total = round2(subtotal * (1 + VATRate)).
type Standard struct {
	VATRate decimal.Decimal
}

// NewStandard returns a VAT policy with the given rate, e.g. 0.175 for 17.5%.
func NewStandard(vatRate decimal.Decimal) Standard {
	return Standard{VATRate: vatRate}
}

// Apply implements Policy.
func (p Standard) Apply(subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrNegativeSubtotal, "subtotal %s", subtotal)
	}
	return round2(subtotal.Mul(one.Add(p.VATRate))), nil
}

// Export applies the export rate plus a fixed per-basket fee:
// total = round2(subtotal * (1 + Rate) + FixedFee). The fee is added before
// the single rounding step, never rounded separately.
type Export struct {
	Rate     decimal.Decimal
	FixedFee decimal.Decimal
}

// NewExport returns an export policy with the given rate and fixed fee.
func NewExport(rate, fixedFee decimal.Decimal) Export {
	return Export{Rate: rate, FixedFee: fixedFee}
}

// Apply implements Policy.
func (p Export) Apply(subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrNegativeSubtotal, "subtotal %s", subtotal)
	}
	return round2(subtotal.Mul(one.Add(p.Rate)).Add(p.FixedFee)), nil
}

// None charges no tax; the subtotal is still rounded at the same single
// boundary as the other policies.
type None struct{}

// Apply implements Policy.
func (None) Apply(subtotal decimal.Decimal) (decimal.Decimal, error) {
	if subtotal.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrNegativeSubtotal, "subtotal %s", subtotal)
	}
	return round2(subtotal), nil
}
