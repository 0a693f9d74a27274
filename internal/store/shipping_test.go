package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvida/greenstore/internal/domain"
)

func TestQuoteShipping(t *testing.T) {
	rate := &domain.ShippingRate{
		BasePrice:      decimal.NewFromInt(10000),
		ExtraUnitPrice: decimal.NewFromInt(500),
	}

	cases := []struct {
		qty  int
		want int64
	}{
		{1, 10000},
		{4, 10000},
		{5, 10000},
		{6, 10500},
		{8, 11500},
		{15, 15000},
	}
	for _, tc := range cases {
		got := QuoteShipping(rate, tc.qty)
		assert.True(t, got.Equal(decimal.NewFromInt(tc.want)),
			"qty %d: want %d got %s", tc.qty, tc.want, got)
	}
}

func TestRateForCityCaseInsensitive(t *testing.T) {
	db := openTestDB(t)
	seedRate(t, db, "Bogotá", 10000, 500)

	rate, err := RateForCity(context.Background(), db, "bogotá")
	require.NoError(t, err)
	assert.Equal(t, "Bogotá", rate.City)

	rate, err = RateForCity(context.Background(), db, "  Bogotá ")
	require.NoError(t, err)
	assert.Equal(t, "Bogotá", rate.City)
}

func TestRateForCityNoCoverage(t *testing.T) {
	db := openTestDB(t)
	seedRate(t, db, "Bogotá", 10000, 500)

	_, err := RateForCity(context.Background(), db, "Leticia")
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "no shipping coverage for Leticia")
}
