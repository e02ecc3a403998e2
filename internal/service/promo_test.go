package service

import (
	"context"
	"testing"
	"time"

	"flowcart/internal/model"
	"flowcart/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func percentPromo(percent string) *model.PromoCode {
	return &model.PromoCode{
		ID:      "promo-1",
		Code:    "SAVE10",
		Type:    model.PromoPercentage,
		Percent: decimal.RequireFromString(percent),
		Active:  true,
	}
}

func fixedPromo(amount string) *model.PromoCode {
	return &model.PromoCode{
		ID:     "promo-2",
		Code:   "5OFF",
		Type:   model.PromoFixed,
		Amount: decimal.RequireFromString(amount),
		Active: true,
	}
}

func TestDiscount_Percentage(t *testing.T) {
	subtotal := decimal.RequireFromString("25.00")
	got := Discount(percentPromo("0.1"), subtotal)
	assert.Equal(t, "2.50", got.StringFixed(2))
}

func TestDiscount_PercentageRoundsToCents(t *testing.T) {
	subtotal := decimal.RequireFromString("10.01")
	got := Discount(percentPromo("0.333"), subtotal)
	assert.Equal(t, "3.33", got.StringFixed(2))
}

func TestDiscount_Fixed(t *testing.T) {
	subtotal := decimal.RequireFromString("25.00")
	got := Discount(fixedPromo("5.00"), subtotal)
	assert.Equal(t, "5.00", got.StringFixed(2))
}

func TestDiscount_CappedAtSubtotal(t *testing.T) {
	subtotal := decimal.RequireFromString("3.00")
	got := Discount(fixedPromo("5.00"), subtotal)
	assert.Equal(t, "3.00", got.StringFixed(2))
}

func TestCheckConstraints_Active(t *testing.T) {
	promo := percentPromo("0.1")
	assert.NoError(t, CheckConstraints(promo, time.Now()))

	promo.Active = false
	assert.ErrorIs(t, CheckConstraints(promo, time.Now()), ErrPromoNotFound)
}

func TestCheckConstraints_Expiry(t *testing.T) {
	now := time.Now()
	promo := percentPromo("0.1")

	future := now.Add(time.Hour)
	promo.ExpiresAt = &future
	assert.NoError(t, CheckConstraints(promo, now))

	past := now.Add(-time.Hour)
	promo.ExpiresAt = &past
	assert.ErrorIs(t, CheckConstraints(promo, now), ErrPromoExpired)
}

func TestValidate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromoService(repository.NewPromoRepository(db))
	ctx := context.Background()

	promo := percentPromo("0.1")
	promo.MinSubtotal = decimal.RequireFromString("20.00")
	require.NoError(t, db.Create(promo).Error)

	got, discount, err := svc.Validate(ctx, "SAVE10", decimal.RequireFromString("25.00"))
	require.NoError(t, err)
	assert.Equal(t, promo.ID, got.ID)
	assert.Equal(t, "2.50", discount.StringFixed(2))

	// validation never consumes a use
	reloaded, err := repository.NewPromoRepository(db).FindByCode(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Zero(t, reloaded.UsageCount)

	_, _, err = svc.Validate(ctx, "SAVE10", decimal.RequireFromString("15.00"))
	assert.ErrorIs(t, err, ErrPromoMinimumNotMet)

	_, _, err = svc.Validate(ctx, "NOPE", decimal.RequireFromString("25.00"))
	assert.ErrorIs(t, err, ErrPromoNotFound)
}

func TestDeactivate(t *testing.T) {
	db := newTestDB(t)
	svc := NewPromoService(repository.NewPromoRepository(db))
	ctx := context.Background()

	require.NoError(t, db.Create(percentPromo("0.1")).Error)
	require.NoError(t, svc.Deactivate(ctx, "SAVE10"))

	_, _, err := svc.Validate(ctx, "SAVE10", decimal.RequireFromString("25.00"))
	assert.ErrorIs(t, err, ErrPromoNotFound)
}

func TestCheckConstraints_UsageLimit(t *testing.T) {
	promo := percentPromo("0.1")
	limit := 3

	promo.UsageLimit = &limit
	promo.UsageCount = 2
	assert.NoError(t, CheckConstraints(promo, time.Now()))

	promo.UsageCount = 3
	assert.ErrorIs(t, CheckConstraints(promo, time.Now()), ErrPromoUsageLimit)
}
