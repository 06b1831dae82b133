package quote

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/basket-pricer/internal/domain/catalog"
	"github.com/xenking/basket-pricer/internal/domain/promotion"
	"github.com/xenking/basket-pricer/internal/domain/tax"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func newTestService() *Service {
	rules := []promotion.Rule{
		promotion.CrossDiscount{
			Trigger:       "orange",
			Discounted:    "grapefruit",
			Threshold:     d("3"),
			FlatUnitPrice: d("1.00"),
		},
		promotion.FreeWithPurchase{Giver: "tomato", Receiver: "cucumber"},
	}
	return NewService(
		catalog.Default(),
		rules,
		tax.NewStandard(d("0.175")),
		tax.NewExport(d("0.05"), d("1.00")),
	)
}

func TestPrice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("standard basket", func(t *testing.T) {
		q, err := svc.Price(ctx, Request{Items: []LineItem{
			{Category: "banana", Quantity: d("12")},
			{Category: "orange", Quantity: d("24")},
			{Category: "apple", Quantity: d("1")},
		}})
		require.NoError(t, err)

		assert.NotEmpty(t, q.ID)
		assert.Len(t, q.Lines, 3)
		assert.True(t, d("57.58").Equal(q.Total), "got %s", q.Total)
	})

	t.Run("cross discount applies", func(t *testing.T) {
		q, err := svc.Price(ctx, Request{Items: []LineItem{
			{Category: "grapefruit", Quantity: d("1")},
			{Category: "orange", Quantity: d("4")},
		}})
		require.NoError(t, err)

		assert.True(t, d("8.22").Equal(q.Total), "got %s", q.Total)
		// The grapefruit line shows the promotion price.
		assert.True(t, d("1.00").Equal(q.Lines[0].Price))
	})

	t.Run("free with purchase adjusts line quantity", func(t *testing.T) {
		q, err := svc.Price(ctx, Request{Items: []LineItem{
			{Category: "tomato", Quantity: d("1")},
			{Category: "cucumber", Quantity: d("2")},
		}})
		require.NoError(t, err)

		assert.True(t, d("1").Equal(q.Lines[1].Quantity))
		// 2.00 * 1.175 = 2.35
		assert.True(t, d("2.35").Equal(q.Total), "got %s", q.Total)
	})

	t.Run("export policy", func(t *testing.T) {
		q, err := svc.Price(ctx, Request{
			Items:  []LineItem{{Category: "plum", Quantity: d("3")}},
			Export: true,
		})
		require.NoError(t, err)

		assert.True(t, d("5.73").Equal(q.Total), "got %s", q.Total)
	})

	t.Run("repeat requests do not share basket state", func(t *testing.T) {
		req := Request{Items: []LineItem{
			{Category: "tomato", Quantity: d("1")},
			{Category: "cucumber", Quantity: d("2")},
		}}

		first, err := svc.Price(ctx, req)
		require.NoError(t, err)
		second, err := svc.Price(ctx, req)
		require.NoError(t, err)

		assert.True(t, first.Total.Equal(second.Total))
	})
}

func TestPriceValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	t.Run("empty items", func(t *testing.T) {
		_, err := svc.Price(ctx, Request{})
		require.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.Price(ctx, Request{Items: []LineItem{
			{Category: "durian", Quantity: d("1")},
		}})

		var nfErr *CategoryNotFoundError
		require.ErrorAs(t, err, &nfErr)
		assert.Equal(t, "durian", nfErr.Category)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := svc.Price(ctx, Request{Items: []LineItem{
			{Category: "banana", Quantity: d("-1")},
		}})

		var iqErr *InvalidQuantityError
		require.ErrorAs(t, err, &iqErr)
		assert.Equal(t, "banana", iqErr.Category)
	})
}
