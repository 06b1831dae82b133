// Package moneyfmt renders decimal amounts for display. It is purely a
// presentation concern: totals are computed elsewhere and never read back
// from these strings.
package moneyfmt

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// Amount renders an amount in the shop's traditional style: values below one
// pound as whole pence ("42p"), everything else as pounds ("£4.20").
func Amount(v decimal.Decimal) string {
	if v.LessThan(one) {
		return fmt.Sprintf("%2dp", v.Mul(decimal.NewFromInt(100)).IntPart())
	}
	return "£" + v.StringFixed(2)
}

// ItemLabel renders a basket line as "12 bananas - £12.00". Pluralisation is
// the naive trailing "s" the till receipts always used.
func ItemLabel(category string, quantity, price decimal.Decimal) string {
	name := strings.ToLower(category)
	if !quantity.Equal(one) {
		name += "s"
	}
	return fmt.Sprintf("%s %s - %s", quantity, name, Amount(price))
}
