package store

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
)

// SurchargeThreshold is the cart quantity covered by a city's base
// price; every unit above it pays the per-extra-unit price.
const SurchargeThreshold = 5

// QuoteShipping computes the shipping cost for a total cart quantity
// against a city rate.
func QuoteShipping(rate *domain.ShippingRate, totalQty int) decimal.Decimal {
	cost := rate.BasePrice
	if totalQty > SurchargeThreshold {
		extra := rate.ExtraUnitPrice.Mul(decimal.NewFromInt(int64(totalQty - SurchargeThreshold)))
		cost = cost.Add(extra)
	}
	return cost
}

// RateForCity resolves the shipping rate for a city, matching
// case-insensitively. Returns a validation error when the city has no
// coverage; checkout never falls back to a default rate.
func RateForCity(ctx context.Context, db *gorm.DB, city string) (*domain.ShippingRate, error) {
	city = strings.TrimSpace(city)
	var rate domain.ShippingRate
	err := db.WithContext(ctx).
		Where("LOWER(city) = ?", strings.ToLower(city)).
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("", "no shipping coverage for %s", city)
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
