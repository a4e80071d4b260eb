package entity

import "time"

// CartItem is one (user, product) cart line pending checkout. The pair is
// unique per user; all of a user's lines are deleted on successful checkout.
type CartItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	ProductID int       `json:"-"`
	Product   *Product  `json:"product,omitempty"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"-"`
}
