package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greenvida/greenstore/internal/domain"
)

func TestAddressSaveValidation(t *testing.T) {
	db := openTestDB(t)
	svc := NewAddressService(db)
	ctx := context.Background()

	err := svc.Save(ctx, &domain.Address{UserID: 1, Street: "Calle 10"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "recipient", ve.Field)

	err = svc.Save(ctx, &domain.Address{UserID: 1, Recipient: "Ana"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "street", ve.Field)
}

func TestAddressSinglePrimary(t *testing.T) {
	db := openTestDB(t)
	svc := NewAddressService(db)
	ctx := context.Background()

	first := &domain.Address{UserID: 1, Recipient: "Ana", Street: "Calle 10", City: "Bogotá", IsPrimary: true}
	require.NoError(t, svc.Save(ctx, first))

	second := &domain.Address{UserID: 1, Recipient: "Ana", Street: "Carrera 7", City: "Bogotá", IsPrimary: true}
	require.NoError(t, svc.Save(ctx, second))

	var primaries []domain.Address
	require.NoError(t, db.Where("user_id = ? AND is_primary = ?", 1, true).Find(&primaries).Error)
	require.Len(t, primaries, 1)
	assert.Equal(t, second.ID, primaries[0].ID)

	// another user's primary is untouched
	other := &domain.Address{UserID: 2, Recipient: "Luis", Street: "Calle 1", IsPrimary: true}
	require.NoError(t, svc.Save(ctx, other))

	var reloaded domain.Address
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.True(t, reloaded.IsPrimary)
}

func TestAddressListPrimaryFirst(t *testing.T) {
	db := openTestDB(t)
	svc := NewAddressService(db)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, &domain.Address{UserID: 1, Recipient: "Ana", Street: "Calle 10"}))
	primary := &domain.Address{UserID: 1, Recipient: "Ana", Street: "Carrera 7", IsPrimary: true}
	require.NoError(t, svc.Save(ctx, primary))

	addrs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, primary.ID, addrs[0].ID)
}

func TestAddressGetAndDeleteOwnerScoped(t *testing.T) {
	db := openTestDB(t)
	svc := NewAddressService(db)
	ctx := context.Background()

	addr := &domain.Address{UserID: 1, Recipient: "Ana", Street: "Calle 10"}
	require.NoError(t, svc.Save(ctx, addr))

	_, err := svc.Get(ctx, 2, addr.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	err = svc.Delete(ctx, 2, addr.ID)
	require.ErrorAs(t, err, &nf)

	require.NoError(t, svc.Delete(ctx, 1, addr.ID))
	err = svc.Delete(ctx, 1, addr.ID)
	require.ErrorAs(t, err, &nf)
}
