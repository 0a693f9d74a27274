package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenvida/greenstore/internal/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps the in-memory database alive and
	// serializes writers the way production row locks do
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *domain.Product {
	t.Helper()
	p := domain.Product{
		Name:  name,
		Slug:  name,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func seedAddress(t *testing.T, db *gorm.DB, userID int64, city string) *domain.Address {
	t.Helper()
	a := domain.Address{
		UserID:    userID,
		Recipient: "Ana Torres",
		Street:    "Calle 10 #4-21",
		City:      city,
	}
	require.NoError(t, db.Create(&a).Error)
	return &a
}

func seedRate(t *testing.T, db *gorm.DB, city string, base, extra int64) *domain.ShippingRate {
	t.Helper()
	r := domain.ShippingRate{
		City:           city,
		BasePrice:      decimal.NewFromInt(base),
		ExtraUnitPrice: decimal.NewFromInt(extra),
	}
	require.NoError(t, db.Create(&r).Error)
	return &r
}

func seedCartLine(t *testing.T, db *gorm.DB, userID int64, productID int64, qty int) *domain.Cart {
	t.Helper()
	var cart domain.Cart
	require.NoError(t, db.Where(domain.Cart{UserID: &userID}).FirstOrCreate(&cart).Error)
	require.NoError(t, db.Create(&domain.CartLine{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
	return &cart
}
