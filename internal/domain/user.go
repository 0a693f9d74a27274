package domain

import "time"

// User is a storefront customer account. Login is by email.
type User struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email         string    `gorm:"size:150;uniqueIndex" json:"email"`
	Password      string    `gorm:"size:128" json:"-"`
	FirstName     string    `gorm:"size:150" json:"first_name"`
	LastName      string    `gorm:"size:150" json:"last_name"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Photo         string    `gorm:"size:1024" json:"photo"`
	ReceiveOffers bool      `json:"receive_offers"`
	Status        string    `gorm:"size:16" json:"status"`
	LastLogin     time.Time `json:"last_login"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "store_user"
}
