package store

import (
	"context"
	"sync"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvida/greenstore/internal/domain"
)

func TestPlaceOrderEndToEnd(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	productA := seedProduct(t, db, "product-a", 5000, 10)
	productB := seedProduct(t, db, "product-b", 20000, 1)
	addr := seedAddress(t, db, 1, "Springfield")
	seedRate(t, db, "Springfield", 3000, 500)
	cart := seedCartLine(t, db, 1, productA.ID, 2)
	seedCartLine(t, db, 1, productB.ID, 1)

	bus := EventBus.New()
	var published *domain.Order
	require.NoError(t, bus.Subscribe(TopicOrderCreated, func(o *domain.Order) {
		published = o
	}))

	svc := NewCheckoutService(db, bus)
	order, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID, PaymentMethod: "card"})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderPending, order.Status)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(30000)), "subtotal %s", order.Subtotal)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(3000)))
	assert.True(t, order.Total.Equal(decimal.NewFromInt(33000)), "total %s", order.Total)
	require.Len(t, order.Lines, 2)

	// stock deducted
	var a, b domain.Product
	require.NoError(t, db.First(&a, productA.ID).Error)
	require.NoError(t, db.First(&b, productB.ID).Error)
	assert.Equal(t, 8, a.Stock)
	assert.Equal(t, 0, b.Stock)

	// cart emptied
	var lines int64
	db.Model(&domain.CartLine{}).Where("cart_id = ?", cart.ID).Count(&lines)
	assert.EqualValues(t, 0, lines)

	require.NotNil(t, published)
	assert.Equal(t, order.ID, published.ID)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	productA := seedProduct(t, db, "product-a", 5000, 10)
	productB := seedProduct(t, db, "product-b", 20000, 0)
	addr := seedAddress(t, db, 1, "Springfield")
	seedRate(t, db, "Springfield", 3000, 500)
	cart := seedCartLine(t, db, 1, productA.ID, 2)
	seedCartLine(t, db, 1, productB.ID, 1)

	svc := NewCheckoutService(db, nil)
	_, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "insufficient stock for product-b")
	assert.Contains(t, ve.Message, "available: 0")

	// nothing from the attempt survives
	var orders, orderLines int64
	db.Model(&domain.Order{}).Count(&orders)
	db.Model(&domain.OrderLine{}).Count(&orderLines)
	assert.EqualValues(t, 0, orders)
	assert.EqualValues(t, 0, orderLines)

	var a domain.Product
	require.NoError(t, db.First(&a, productA.ID).Error)
	assert.Equal(t, 10, a.Stock)

	var lines []domain.CartLine
	db.Where("cart_id = ?", cart.ID).Order("id").Find(&lines)
	require.Len(t, lines, 2)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestPlaceOrderConcurrentLastUnit(t *testing.T) {
	db := openTestDB(t)
	p := seedProduct(t, db, "product-a", 5000, 1)
	addr1 := seedAddress(t, db, 1, "Springfield")
	addr2 := seedAddress(t, db, 2, "Springfield")
	seedRate(t, db, "Springfield", 3000, 0)
	seedCartLine(t, db, 1, p.ID, 1)
	seedCartLine(t, db, 2, p.ID, 1)

	svc := NewCheckoutService(db, nil)
	inputs := []CheckoutInput{
		{UserID: 1, AddressID: addr1.ID},
		{UserID: 2, AddressID: addr2.ID},
	}

	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, in := range inputs {
		wg.Add(1)
		go func(i int, in CheckoutInput) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), in)
		}(i, in)
	}
	wg.Wait()

	// exactly one checkout wins the last unit, the other is rejected
	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		lost++
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Contains(t, ve.Message, "insufficient stock for product-a")
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)

	var reloaded domain.Product
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)

	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	assert.EqualValues(t, 1, orders)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := openTestDB(t)
	svc := NewCheckoutService(db, nil)

	// no cart row at all
	_, err := svc.PlaceOrder(context.Background(), CheckoutInput{UserID: 1, AddressID: 1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cart is empty", ve.Message)

	// cart exists but has no lines
	userID := int64(1)
	require.NoError(t, db.Create(&domain.Cart{UserID: &userID}).Error)
	_, err = svc.PlaceOrder(context.Background(), CheckoutInput{UserID: 1, AddressID: 1})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cart is empty", ve.Message)
}

func TestPlaceOrderAddressValidation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "product-a", 5000, 10)
	seedCartLine(t, db, 1, p.ID, 1)
	svc := NewCheckoutService(db, nil)

	// missing address id
	_, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "address_id", ve.Field)

	// another user's address reads as not found
	other := seedAddress(t, db, 2, "Springfield")
	_, err = svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: other.ID})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "address", nf.Resource)
}

func TestPlaceOrderNoShippingCoverage(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "product-a", 5000, 10)
	addr := seedAddress(t, db, 1, "Leticia")
	seedCartLine(t, db, 1, p.ID, 1)

	svc := NewCheckoutService(db, nil)
	_, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "no shipping coverage for Leticia")

	var orders int64
	db.Model(&domain.Order{}).Count(&orders)
	assert.EqualValues(t, 0, orders)
}

func TestPlaceOrderSurcharge(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "product-a", 1000, 20)
	addr := seedAddress(t, db, 1, "Bogotá")
	seedRate(t, db, "Bogotá", 10000, 500)
	seedCartLine(t, db, 1, p.ID, 8)

	svc := NewCheckoutService(db, nil)
	order, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID})
	require.NoError(t, err)
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(11500)),
		"shipping %s", order.ShippingCost)
}

func TestOrderLinePriceSnapshot(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "product-a", 5000, 10)
	addr := seedAddress(t, db, 1, "Springfield")
	seedRate(t, db, "Springfield", 3000, 0)
	seedCartLine(t, db, 1, p.ID, 1)

	svc := NewCheckoutService(db, nil)
	order, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID})
	require.NoError(t, err)

	// raise the price after the order is placed
	require.NoError(t, db.Model(&domain.Product{}).
		Where("id = ?", p.ID).
		Update("price", decimal.NewFromInt(9000)).Error)

	reloaded, err := svc.Get(ctx, 1, order.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Lines, 1)
	assert.True(t, reloaded.Lines[0].UnitPrice.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "product-a", reloaded.Lines[0].ProductName)
	assert.True(t, reloaded.Total.Equal(decimal.NewFromInt(8000)))
}

func TestOrderTotalReconciliation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	a := seedProduct(t, db, "product-a", 3500, 10)
	b := seedProduct(t, db, "product-b", 1250, 10)
	addr := seedAddress(t, db, 1, "Springfield")
	seedRate(t, db, "Springfield", 3000, 500)
	seedCartLine(t, db, 1, a.ID, 3)
	seedCartLine(t, db, 1, b.ID, 4)

	svc := NewCheckoutService(db, nil)
	order, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID})
	require.NoError(t, err)

	sum := decimal.Zero
	for _, line := range order.Lines {
		sum = sum.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	assert.True(t, order.Subtotal.Equal(sum))
	assert.True(t, order.Total.Equal(order.Subtotal.Add(order.ShippingCost)))
}

func TestGetOrderOwnerScoped(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p := seedProduct(t, db, "product-a", 5000, 10)
	addr := seedAddress(t, db, 1, "Springfield")
	seedRate(t, db, "Springfield", 3000, 0)
	seedCartLine(t, db, 1, p.ID, 1)

	svc := NewCheckoutService(db, nil)
	order, err := svc.PlaceOrder(ctx, CheckoutInput{UserID: 1, AddressID: addr.ID})
	require.NoError(t, err)

	_, err = svc.Get(ctx, 2, order.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	orders, err := svc.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	orders, err = svc.ListByUser(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
