package entity

import "time"

type WishlistItem struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user"`
	ProductID int       `json:"-"`
	Product   *Product  `json:"product,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}
