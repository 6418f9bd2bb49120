package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"shopfront/pkg/models"
)

var (
	// ErrDuplicateItem means an add targeted an id already in the cart.
	// The add is a no-op; the caller surfaces a warning.
	ErrDuplicateItem = errors.New("item already in cart")

	// ErrIndexOutOfRange means a remove targeted an invalid position.
	// The UI never offers one, so this is a caller contract violation.
	ErrIndexOutOfRange = errors.New("cart index out of range")
)

// Shipping is a flat per-order step function of item count, not per-item.
var shippingTiers = []struct {
	maxItems int
	price    int64
}{
	{0, 0},
	{1, 170},
	{2, 220},
	{5, 270},
}

// shippingCeiling applies to carts of six or more items.
const shippingCeiling = 350

// Add appends the product's projection unless its id is already present.
// The input slice is returned unchanged on a duplicate.
func Add(items []models.CartLineItem, p models.Product) ([]models.CartLineItem, Outcome) {
	for _, it := range items {
		if it.ID == p.ID {
			return items, OutcomeAlreadyPresent
		}
	}
	return append(items, models.LineItemFromProduct(p)), OutcomeAdded
}

// Remove deletes the line item at the given position and reports its name
// for user feedback.
func Remove(items []models.CartLineItem, index int) ([]models.CartLineItem, string, error) {
	if index < 0 || index >= len(items) {
		return items, "", ErrIndexOutOfRange
	}
	name := items[index].Name
	out := make([]models.CartLineItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out, name, nil
}

// ComputeTotals derives subtotal, shipping and total from the current
// cart. The result is never persisted.
func ComputeTotals(items []models.CartLineItem) models.Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Price.Decimal)
	}

	shipping := ShippingFor(len(items))
	return models.Totals{
		Subtotal: models.Price{Decimal: subtotal},
		Shipping: shipping,
		Total:    models.Price{Decimal: subtotal.Add(shipping.Decimal)},
	}
}

// ShippingFor returns the flat shipping price for a cart of n items.
func ShippingFor(n int) models.Price {
	for _, tier := range shippingTiers {
		if n <= tier.maxItems {
			return models.PriceFromInt(tier.price)
		}
	}
	return models.PriceFromInt(shippingCeiling)
}
