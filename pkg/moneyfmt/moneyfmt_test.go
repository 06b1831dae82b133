package moneyfmt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestAmount(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{amount: "0.50", want: "50p"},
		{amount: "0.05", want: " 5p"},
		{amount: "1", want: "£1.00"},
		{amount: "4.20", want: "£4.20"},
		{amount: "57.58", want: "£57.58"},
		{amount: "0", want: " 0p"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, Amount(d(tt.amount)))
		})
	}
}

func TestItemLabel(t *testing.T) {
	assert.Equal(t, "12 bananas - £12.00", ItemLabel("banana", d("12"), d("12.00")))
	assert.Equal(t, "1 lettuce - 50p", ItemLabel("lettuce", d("1"), d("0.50")))
	assert.Equal(t, "0.5 cherrys - £1.00", ItemLabel("cherry", d("0.5"), d("1.00")))
}
