package models

// Product is one purchasable catalog entry. The catalog document is decoded
// once at the boundary and the resulting snapshot is immutable for the
// session.
type Product struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Brand        string   `json:"brand,omitempty"`
	Category     string   `json:"category"`
	Summary      string   `json:"summary,omitempty"`
	Details      string   `json:"details,omitempty"`
	Price        Price    `json:"price"`
	DisplayPrice string   `json:"display_price,omitempty"`
	Images       []string `json:"images"`
}
