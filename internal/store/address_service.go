package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/greenvida/greenstore/internal/domain"
)

// AddressService manages a user's address book and the single-primary
// invariant.
type AddressService struct {
	db *gorm.DB
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// List returns all addresses of a user, primary first.
func (s *AddressService) List(ctx context.Context, userID int64) ([]domain.Address, error) {
	var addrs []domain.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_primary DESC, id").
		Find(&addrs).Error
	return addrs, err
}

// Get returns one address owned by the user.
func (s *AddressService) Get(ctx context.Context, userID, id int64) (*domain.Address, error) {
	var addr domain.Address
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&addr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("address")
	}
	if err != nil {
		return nil, err
	}
	return &addr, nil
}

// Save creates or updates an address. When the address is marked
// primary, every other primary of the same user is unset inside the
// same transaction, so the invariant holds under failure.
func (s *AddressService) Save(ctx context.Context, addr *domain.Address) error {
	if addr.Recipient == "" {
		return validationf("recipient", "recipient is required")
	}
	if addr.Street == "" {
		return validationf("street", "street is required")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if addr.IsPrimary {
			err := tx.Model(&domain.Address{}).
				Where("user_id = ? AND is_primary = ? AND id <> ?", addr.UserID, true, addr.ID).
				Update("is_primary", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Save(addr).Error
	})
}

// Delete removes an address owned by the user.
func (s *AddressService) Delete(ctx context.Context, userID, id int64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Address{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("address")
	}
	return nil
}
