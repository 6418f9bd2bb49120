package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopfront/pkg/models"
)

func camera() models.Product {
	return models.Product{
		ID: 1, Name: "Lumix S5 II", Brand: "Panasonic", Category: "Cameras",
		Summary: "hybrid mirrorless", Details: "full data sheet",
		Price: models.PriceFromFloat(1999.99), DisplayPrice: "$1,999.99",
		Images: []string{"a.jpg"},
	}
}

func lens() models.Product {
	return models.Product{
		ID: 3, Name: "FE 85mm f/1.8", Brand: "Sony", Category: "Lenses",
		Price: models.PriceFromInt(598), Images: []string{"b.jpg"},
	}
}

func TestAddProjectsProduct(t *testing.T) {
	items, outcome := Add(nil, camera())
	require.Equal(t, OutcomeAdded, outcome)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, 1, it.ID)
	assert.Equal(t, "Lumix S5 II", it.Name)
	assert.Equal(t, "Cameras", it.Category)
	assert.Equal(t, "$1,999.99", it.DisplayPrice)
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	items, outcome := Add(nil, camera())
	require.Equal(t, OutcomeAdded, outcome)

	again, outcome := Add(items, camera())
	assert.Equal(t, OutcomeAlreadyPresent, outcome)
	assert.Len(t, again, 1)
}

func TestRemoveByPosition(t *testing.T) {
	items, _ := Add(nil, camera())
	items, _ = Add(items, lens())

	items, name, err := Remove(items, 0)
	require.NoError(t, err)
	assert.Equal(t, "Lumix S5 II", name)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ID)

	// same index again now targets the shifted item
	items, name, err = Remove(items, 0)
	require.NoError(t, err)
	assert.Equal(t, "FE 85mm f/1.8", name)
	assert.Empty(t, items)

	// and once the cart is empty it is out of range
	_, _, err = Remove(items, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestRemoveOutOfRange(t *testing.T) {
	items, _ := Add(nil, camera())
	for _, idx := range []int{-1, 1, 5} {
		_, _, err := Remove(items, idx)
		assert.ErrorIs(t, err, ErrIndexOutOfRange, "index %d", idx)
	}
}

func TestShippingTiers(t *testing.T) {
	cases := map[int]int64{
		0: 0,
		1: 170,
		2: 220,
		3: 270,
		4: 270,
		5: 270,
		6: 350,
		9: 350,
	}
	for n, want := range cases {
		got := ShippingFor(n)
		assert.True(t, got.Equal(models.PriceFromInt(want).Decimal), "n=%d want %d got %s", n, want, got)
	}
}

func TestComputeTotals(t *testing.T) {
	items, _ := Add(nil, camera())
	items, _ = Add(items, lens())

	totals := ComputeTotals(items)
	assert.True(t, totals.Subtotal.Equal(models.PriceFromFloat(2597.99).Decimal), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Shipping.Equal(models.PriceFromInt(220).Decimal), "shipping %s", totals.Shipping)
	assert.True(t, totals.Total.Equal(models.PriceFromFloat(2817.99).Decimal), "total %s", totals.Total)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Shipping.IsZero())
	assert.True(t, totals.Total.IsZero())
}

// Mirrors the storefront scenario: filter cameras, add one, add it again.
func TestSingleItemScenario(t *testing.T) {
	items, outcome := Add(nil, camera())
	require.Equal(t, OutcomeAdded, outcome)

	totals := ComputeTotals(items)
	wantTotal := models.PriceFromFloat(1999.99).Add(models.PriceFromInt(170))
	assert.True(t, totals.Subtotal.Equal(models.PriceFromFloat(1999.99).Decimal))
	assert.True(t, totals.Shipping.Equal(models.PriceFromInt(170).Decimal))
	assert.True(t, totals.Total.Equal(wantTotal.Decimal))

	items, outcome = Add(items, camera())
	assert.Equal(t, OutcomeAlreadyPresent, outcome)
	assert.Len(t, items, 1)
}
