package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is shared between the store and the content sections,
// discriminated by Type (PRODUCT, NEWS, BLOG, RESEARCH).
type Category struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Slug      string    `gorm:"size:255;uniqueIndex" json:"slug"`
	Type      string    `gorm:"size:32;index" json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "store_category"
}

const (
	CategoryProduct  = "PRODUCT"
	CategoryNews     = "NEWS"
	CategoryBlog     = "BLOG"
	CategoryResearch = "RESEARCH"
)

// Product is a catalog item. Stock is only authoritative under the
// checkout row lock; reads elsewhere are advisory.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryID  *int64          `gorm:"index" json:"category_id"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Name        string          `gorm:"size:200;index" json:"name"`
	Slug        string          `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Stock       int             `json:"stock"`
	Featured    bool            `gorm:"index" json:"featured"`
	Image       string          `gorm:"size:1024" json:"image"`
	Related     []*Product      `gorm:"many2many:store_product_related;joinForeignKey:ProductID;joinReferences:RelatedID" json:"related,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (Product) TableName() string {
	return "store_product"
}

// Favorite marks a product as saved by a user. One row per
// (user, product) pair.
type Favorite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"uniqueIndex:idx_favorite_user_product" json:"user_id"`
	ProductID int64     `gorm:"uniqueIndex:idx_favorite_user_product" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "store_favorite"
}
