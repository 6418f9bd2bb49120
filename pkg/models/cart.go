package models

// CartLineItem is the slice of a Product the cart keeps. Details are
// deliberately dropped; the cart view never shows them.
type CartLineItem struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand,omitempty"`
	Category     string   `json:"category"`
	Summary      string   `json:"summary,omitempty"`
	Price        Price    `json:"price"`
	DisplayPrice string   `json:"display_price,omitempty"`
	Images       []string `json:"images"`
}

// LineItemFromProduct projects a Product into the shape the cart persists.
func LineItemFromProduct(p Product) CartLineItem {
	return CartLineItem{
		ID:           p.ID,
		Name:         p.Name,
		Brand:        p.Brand,
		Category:     p.Category,
		Summary:      p.Summary,
		Price:        p.Price,
		DisplayPrice: p.DisplayPrice,
		Images:       p.Images,
	}
}

// Totals is recomputed from the cart on every read and never persisted.
type Totals struct {
	Subtotal Price `json:"subtotal"`
	Shipping Price `json:"shipping"`
	Total    Price `json:"total"`
}
