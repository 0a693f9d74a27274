package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenvida/greenstore/internal/domain"
)

// CartView is the cart representation returned by every cart
// operation: all lines with product cards plus the computed total.
type CartView struct {
	ID    int64           `json:"id"`
	Lines []CartLineView  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type CartLineView struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartService manages a user's cart lines. Stock checks here are
// advisory; checkout under row lock is the only authority.
type CartService struct {
	db *gorm.DB
}

func NewCartService(db *gorm.DB) *CartService {
	return &CartService{db: db}
}

// GetOrCreate resolves the user's cart, creating an empty one on
// first access.
func (s *CartService) GetOrCreate(ctx context.Context, userID int64) (*domain.Cart, error) {
	var cart domain.Cart
	err := s.db.WithContext(ctx).
		Where(domain.Cart{UserID: &userID}).
		FirstOrCreate(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// View returns the current cart contents with computed totals.
func (s *CartService) View(ctx context.Context, userID int64) (*CartView, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, cart)
}

// AddItem adds quantity of a product to the cart. The line for
// (cart, product) is upserted atomically: concurrent adds of the same
// product merge into one row with the summed quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID int64, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, validationf("quantity", "quantity must be greater than zero")
	}

	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var product domain.Product
	err = s.db.WithContext(ctx).First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("product")
	}
	if err != nil {
		return nil, err
	}

	if product.Stock < quantity {
		return nil, validationf("", "insufficient stock for %s, available: %d", product.Name, product.Stock)
	}

	line := domain.CartLine{CartID: cart.ID, ProductID: product.ID, Quantity: quantity}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
		}),
	}).Create(&line).Error
	if err != nil {
		return nil, err
	}

	s.touch(ctx, cart.ID)
	return s.buildView(ctx, cart)
}

// RemoveItem deletes the line for the given product. The product id
// is the lookup key, not the line id.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID int64) (*CartView, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	var line domain.CartLine
	err = s.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("cart line")
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Delete(&line).Error; err != nil {
		return nil, err
	}

	s.touch(ctx, cart.ID)
	return s.buildView(ctx, cart)
}

func (s *CartService) touch(ctx context.Context, cartID int64) {
	err := s.db.WithContext(ctx).Model(&domain.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
	if err != nil {
		zap.L().Warn("failed to touch cart", zap.Int64("cart_id", cartID), zap.Error(err))
	}
}

func (s *CartService) buildView(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	var lines []domain.CartLine
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("cart_id = ?", cart.ID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	view := &CartView{ID: cart.ID, Lines: make([]CartLineView, 0, len(lines)), Total: decimal.Zero}
	for _, line := range lines {
		if line.Product == nil {
			continue
		}
		subtotal := line.Product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Lines = append(view.Lines, CartLineView{
			ProductID: line.ProductID,
			Name:      line.Product.Name,
			Slug:      line.Product.Slug,
			Image:     line.Product.Image,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
			Subtotal:  subtotal,
		})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}
