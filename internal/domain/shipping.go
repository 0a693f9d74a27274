package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingRate is a per-city pricing rule. BasePrice covers carts up
// to the surcharge threshold; ExtraUnitPrice applies to each unit
// beyond it. City lookup at checkout is case-insensitive.
type ShippingRate struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	City           string          `gorm:"size:100;uniqueIndex" json:"city"`
	Region         string          `gorm:"size:100" json:"region"`
	BasePrice      decimal.Decimal `gorm:"type:decimal(12,2)" json:"base_price"`
	ExtraUnitPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"extra_unit_price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (ShippingRate) TableName() string {
	return "store_shipping_rate"
}
