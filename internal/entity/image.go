package entity

import "time"

// ProductImage is one attachment of a product. Image holds the object key
// under which the binary is stored; the blob is released when the row is
// deleted or the image replaced.
type ProductImage struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MaxProductImages caps how many images a single product may carry.
const MaxProductImages = 7
