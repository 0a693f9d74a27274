package store

import (
	"context"
	"strings"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenvida/greenstore/internal/domain"
)

// TopicOrderCreated is published on the application bus after a
// checkout transaction commits. Subscribers must never be able to
// affect the checkout result.
const TopicOrderCreated = "order.created"

// CheckoutInput carries the caller identity and checkout parameters.
type CheckoutInput struct {
	UserID        int64
	AddressID     int64
	PaymentMethod string
}

// CheckoutService converts a cart into an order: it validates the
// cart and address, quotes shipping, and runs the transactional stock
// deduction and order creation.
type CheckoutService struct {
	db  *gorm.DB
	bus EventBus.Bus
}

func NewCheckoutService(db *gorm.DB, bus EventBus.Bus) *CheckoutService {
	return &CheckoutService{db: db, bus: bus}
}

// PlaceOrder runs the checkout workflow.
//
// Validation happens before any transaction is opened: missing cart
// and empty cart are the same failure to the caller, the address must
// exist and belong to the user, and the address city must have a
// shipping rate. Inside the transaction every product is re-read
// under an exclusive row lock, so two checkouts racing for the last
// unit serialize and the loser gets an insufficient-stock error. Any
// failure rolls back the order, its lines, the stock decrements and
// the cart clearing as one unit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in CheckoutInput) (*domain.Order, error) {
	var cart domain.Cart
	err := s.db.WithContext(ctx).Where("user_id = ?", in.UserID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("", "cart is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, "checkout: load cart")
	}

	var lines []domain.CartLine
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Order("id").Find(&lines).Error; err != nil {
		return nil, errors.Wrap(err, "checkout: load cart lines")
	}
	if len(lines) == 0 {
		return nil, validationf("", "cart is empty")
	}

	if in.AddressID == 0 {
		return nil, validationf("address_id", "this field is required")
	}
	var address domain.Address
	err = s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", in.AddressID, in.UserID).
		First(&address).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("address")
	}
	if err != nil {
		return nil, errors.Wrap(err, "checkout: load address")
	}

	rate, err := RateForCity(ctx, s.db, address.City)
	if err != nil {
		return nil, err
	}

	totalQty := 0
	for _, line := range lines {
		totalQty += line.Quantity
	}
	shippingCost := QuoteShipping(rate, totalQty)

	var order domain.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order = domain.Order{
			UserID:        in.UserID,
			AddressID:     &address.ID,
			Status:        domain.OrderPending,
			PaymentMethod: in.PaymentMethod,
			ShippingCost:  shippingCost,
			Subtotal:      decimal.Zero,
			Total:         decimal.Zero,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		subtotal := decimal.Zero
		for _, line := range lines {
			// Re-read under lock; the quantity cached on the cart
			// line's product reference may be stale.
			var product domain.Product
			if err := lockForUpdate(tx).First(&product, line.ProductID).Error; err != nil {
				return err
			}

			if product.Stock < line.Quantity {
				return validationf("", "insufficient stock for %s, available: %d", product.Name, product.Stock)
			}

			if err := tx.Create(&domain.OrderLine{
				OrderID:     order.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   product.Price,
			}).Error; err != nil {
				return err
			}

			product.Stock -= line.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order.Subtotal = subtotal
		order.Total = subtotal.Add(shippingCost)
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartLine{}).Error
	})
	if err != nil {
		return nil, err
	}

	created, err := s.Get(ctx, in.UserID, order.ID)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(TopicOrderCreated, created)
	}
	zap.L().Info("order placed",
		zap.Int64("order_id", created.ID),
		zap.Int64("user_id", in.UserID),
		zap.String("total", created.Total.String()))

	return created, nil
}

// Get returns one order owned by the user, with lines and address.
func (s *CheckoutService) Get(ctx context.Context, userID, orderID int64) (*domain.Order, error) {
	var order domain.Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Preload("Address").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order")
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (s *CheckoutService) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	var orders []domain.Order
	err := s.db.WithContext(ctx).
		Preload("Lines").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

// lockForUpdate attaches an exclusive row lock on dialects that
// support it. SQLite (the test harness) serializes writers at the
// connection level and rejects FOR UPDATE.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	switch strings.ToLower(tx.Name()) {
	case "postgres", "mysql":
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}
