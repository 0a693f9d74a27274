package domain

import "time"

// Cart holds a user's pending selection. One cart per user; carts for
// anonymous visitors are keyed by SessionID instead. The row survives
// checkout, only its lines are cleared.
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *int64     `gorm:"uniqueIndex" json:"user_id"`
	SessionID string     `gorm:"size:100;index" json:"session_id,omitempty"`
	Lines     []CartLine `gorm:"foreignKey:CartID" json:"lines"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Cart) TableName() string {
	return "store_cart"
}

// CartLine is one (product, quantity) entry. The composite unique
// index makes concurrent adds of the same product merge into a single
// row via upsert.
type CartLine struct {
	ID        int64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64    `gorm:"uniqueIndex:idx_cart_line_product" json:"cart_id"`
	ProductID int64    `gorm:"uniqueIndex:idx_cart_line_product" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `json:"quantity"`
}

func (CartLine) TableName() string {
	return "store_cart_line"
}
