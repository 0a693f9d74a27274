package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvida/greenstore/internal/domain"
)

func TestCartGetOrCreateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&domain.Cart{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCartAddItem(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "aloe-gel", 5000, 10)

	view, err := svc.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(10000)))

	// same product again merges into the existing line
	view, err = svc.AddItem(ctx, 1, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 5, view.Lines[0].Quantity)
	assert.True(t, view.Total.Equal(decimal.NewFromInt(25000)))

	var lines int64
	db.Model(&domain.CartLine{}).Count(&lines)
	assert.EqualValues(t, 1, lines)
}

func TestCartAddItemRejectsNonPositiveQuantity(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "aloe-gel", 5000, 10)

	for _, qty := range []int{0, -1} {
		_, err := svc.AddItem(context.Background(), 1, p.ID, qty)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "quantity", ve.Field)
	}
}

func TestCartAddItemUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)

	_, err := svc.AddItem(context.Background(), 1, 999, 1)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Resource)
}

func TestCartAddItemAdvisoryStockCheck(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	p := seedProduct(t, db, "aloe-gel", 5000, 3)

	_, err := svc.AddItem(context.Background(), 1, p.ID, 4)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "insufficient stock")

	// within stock succeeds
	view, err := svc.AddItem(context.Background(), 1, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Lines[0].Quantity)
}

func TestCartRemoveItem(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "aloe-gel", 5000, 10)

	_, err := svc.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)

	view, err := svc.RemoveItem(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.True(t, view.Total.IsZero())
}

func TestCartRemoveItemTouchesCart(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)
	ctx := context.Background()
	p := seedProduct(t, db, "aloe-gel", 5000, 10)

	_, err := svc.AddItem(ctx, 1, p.ID, 2)
	require.NoError(t, err)

	// housekeeping prunes carts by updated_at, so removals must bump it
	stale := time.Now().Add(-48 * time.Hour)
	userID := int64(1)
	var cart domain.Cart
	require.NoError(t, db.Where(domain.Cart{UserID: &userID}).First(&cart).Error)
	require.NoError(t, db.Model(&cart).UpdateColumn("updated_at", stale).Error)

	_, err = svc.RemoveItem(ctx, 1, p.ID)
	require.NoError(t, err)

	require.NoError(t, db.First(&cart, cart.ID).Error)
	assert.True(t, cart.UpdatedAt.After(stale))
}

func TestCartRemoveItemMissingLine(t *testing.T) {
	db := openTestDB(t)
	svc := NewCartService(db)

	_, err := svc.RemoveItem(context.Background(), 1, 999)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "cart line", nf.Resource)
}
