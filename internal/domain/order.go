package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderShipped   = "SHIPPED"
	OrderCancelled = "CANCELLED"
)

// Order is created exactly once by checkout, in status PENDING, and
// is immutable through the store API. Totals are write-once:
// Total = Subtotal + ShippingCost.
type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"index" json:"user_id"`
	AddressID     *int64          `json:"address_id"`
	Address       *Address        `gorm:"foreignKey:AddressID" json:"address,omitempty"`
	Status        string          `gorm:"size:20;index" json:"status"`
	PaymentMethod string          `gorm:"size:50" json:"payment_method"`
	TransactionID string          `gorm:"size:100" json:"transaction_id"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2)" json:"subtotal"`
	ShippingCost  decimal.Decimal `gorm:"type:decimal(12,2)" json:"shipping_cost"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2)" json:"total"`
	Lines         []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "store_order"
}

// OrderLine snapshots quantity, unit price and product name at the
// moment of purchase; later catalog changes never touch it.
type OrderLine struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"index" json:"order_id"`
	ProductID   int64           `gorm:"index" json:"product_id"`
	ProductName string          `gorm:"size:200" json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price"`
}

func (OrderLine) TableName() string {
	return "store_order_line"
}
