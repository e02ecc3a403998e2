package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItem_NewAndMergedLines(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)
	tee := seedVariant(t, f.db, "Logo Tee", "TEE-1", "10.00", 5)

	cart, err := f.carts.AddItem(context.Background(), userID, tee, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, "20.00", cart.Subtotal.StringFixed(2))

	// same variant merges into the existing line
	cart, err = f.carts.AddItem(context.Background(), userID, tee, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "30.00", cart.Subtotal.StringFixed(2))
}

func TestAddItem_StockGuard(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)
	tee := seedVariant(t, f.db, "Logo Tee", "TEE-1", "10.00", 2)

	_, err := f.carts.AddItem(context.Background(), userID, tee, 3)
	assert.ErrorIs(t, err, ErrOutOfStock)

	_, err = f.carts.AddItem(context.Background(), userID, tee, 2)
	require.NoError(t, err)

	// merged quantity would exceed stock
	_, err = f.carts.AddItem(context.Background(), userID, tee, 1)
	assert.ErrorIs(t, err, ErrOutOfStock)
}

func TestAddItem_Validation(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)

	_, err := f.carts.AddItem(context.Background(), userID, "v-1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.carts.AddItem(context.Background(), userID, "missing", 1)
	assert.ErrorIs(t, err, ErrVariantNotFound)
}

func TestUpdateQuantity(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)
	tee := seedVariant(t, f.db, "Logo Tee", "TEE-1", "10.00", 5)
	f.addToCart(t, userID, tee, 2)

	cart, err := f.carts.UpdateQuantity(context.Background(), userID, tee, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)

	_, err = f.carts.UpdateQuantity(context.Background(), userID, tee, -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.carts.UpdateQuantity(context.Background(), userID, "missing", 1)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)
	tee := seedVariant(t, f.db, "Logo Tee", "TEE-1", "10.00", 5)
	f.addToCart(t, userID, tee, 2)

	cart, err := f.carts.UpdateQuantity(context.Background(), userID, tee, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Subtotal.StringFixed(2))
}

func TestRemoveItem(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)
	tee := seedVariant(t, f.db, "Logo Tee", "TEE-1", "10.00", 5)
	sticker := seedVariant(t, f.db, "Sticker Pack", "STK-1", "5.00", 5)
	f.addToCart(t, userID, tee, 1)
	f.addToCart(t, userID, sticker, 1)

	cart, err := f.carts.RemoveItem(context.Background(), userID, tee)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, sticker, cart.Items[0].VariantID)

	_, err = f.carts.RemoveItem(context.Background(), userID, tee)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestGetCart_AbsentReadsEmpty(t *testing.T) {
	f := newOrderFixture(t)
	userID, _ := seedUserWithAddress(t, f.db)

	cart, err := f.carts.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}
