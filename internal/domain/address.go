package domain

import "time"

// Address is a user's shipping destination. At most one address per
// user may have IsPrimary set; the address service enforces that in a
// single transaction on save.
type Address struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index" json:"user_id"`
	Recipient string    `gorm:"size:150" json:"recipient"`
	Street    string    `gorm:"size:255" json:"street"`
	City      string    `gorm:"size:100" json:"city"`
	Region    string    `gorm:"size:100" json:"region"`
	Phone     string    `gorm:"size:20" json:"phone"`
	Reference string    `gorm:"size:255" json:"reference"`
	IsPrimary bool      `gorm:"column:is_primary" json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Address) TableName() string {
	return "store_address"
}
