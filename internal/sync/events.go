package sync

import "time"

const (
	EventCartAdd      = "cart.add"
	EventCartRemove   = "cart.remove"
	EventCartCheckout = "cart.checkout"
)

// CartEvent is broadcast to every connected sync client whenever a cart
// mutates. Items carries the cart size after the mutation.
type CartEvent struct {
	Type      string    `json:"type"`
	SessionID string    `json:"session_id"`
	ProductID int       `json:"product_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Items     int       `json:"items"`
	At        time.Time `json:"at"`
}
