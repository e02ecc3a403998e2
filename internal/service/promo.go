package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"flowcart/internal/dto"
	"flowcart/internal/model"
	"flowcart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PromoService interface {
	// Validate checks the code against its constraints and returns the
	// discount for the given subtotal. It never mutates usage counters;
	// the increment happens inside the checkout transaction.
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*model.PromoCode, decimal.Decimal, error)

	Create(ctx context.Context, req *dto.PromoCodeRequest) (*model.PromoCode, error)
	List(ctx context.Context) ([]*model.PromoCode, error)
	Update(ctx context.Context, code string, req *dto.PromoCodeRequest) (*model.PromoCode, error)
	Deactivate(ctx context.Context, code string) error
}

type promoServiceImpl struct {
	promoRepo repository.PromoRepository
	now       func() time.Time
}

func NewPromoService(promoRepo repository.PromoRepository) PromoService {
	return &promoServiceImpl{
		promoRepo: promoRepo,
		now:       time.Now,
	}
}

func (s *promoServiceImpl) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (*model.PromoCode, decimal.Decimal, error) {
	promo, err := s.promoRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, ErrPromoNotFound
		}
		return nil, decimal.Zero, fmt.Errorf("find promo code: %w", err)
	}

	if err := CheckConstraints(promo, s.now()); err != nil {
		return nil, decimal.Zero, err
	}
	if subtotal.LessThan(promo.MinSubtotal) {
		return nil, decimal.Zero, fmt.Errorf("%w: minimum is %s", ErrPromoMinimumNotMet, promo.MinSubtotal)
	}

	return promo, Discount(promo, subtotal), nil
}

// CheckConstraints validates the subtotal-independent promo constraints:
// active flag, expiry, and the soft usage-limit check. Final usage-limit
// enforcement happens in the atomic increment at checkout.
func CheckConstraints(promo *model.PromoCode, now time.Time) error {
	if !promo.Active {
		return ErrPromoNotFound
	}
	if promo.ExpiresAt != nil && !promo.ExpiresAt.After(now) {
		return ErrPromoExpired
	}
	if promo.UsageLimit != nil && promo.UsageCount >= *promo.UsageLimit {
		return ErrPromoUsageLimit
	}
	return nil
}

// Discount computes the promo's discount, capped at the subtotal and rounded
// to cents.
func Discount(promo *model.PromoCode, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch promo.Type {
	case model.PromoPercentage:
		discount = subtotal.Mul(promo.Percent).Round(2)
	case model.PromoFixed:
		discount = promo.Amount
	}

	if discount.GreaterThan(subtotal) {
		return subtotal
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}

func (s *promoServiceImpl) Create(ctx context.Context, req *dto.PromoCodeRequest) (*model.PromoCode, error) {
	promo := &model.PromoCode{
		ID:          uuid.NewString(),
		Code:        req.Code,
		Type:        model.PromoType(req.Type),
		Percent:     req.Percent,
		Amount:      req.Amount,
		MinSubtotal: req.MinSubtotal,
		ExpiresAt:   req.ExpiresAt,
		UsageLimit:  req.UsageLimit,
		Active:      true,
	}
	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("create promo code: %w", err)
	}
	return promo, nil
}

func (s *promoServiceImpl) List(ctx context.Context) ([]*model.PromoCode, error) {
	return s.promoRepo.List(ctx)
}

func (s *promoServiceImpl) Update(ctx context.Context, code string, req *dto.PromoCodeRequest) (*model.PromoCode, error) {
	promo, err := s.promoRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoNotFound
		}
		return nil, fmt.Errorf("find promo code: %w", err)
	}

	promo.Type = model.PromoType(req.Type)
	promo.Percent = req.Percent
	promo.Amount = req.Amount
	promo.MinSubtotal = req.MinSubtotal
	promo.ExpiresAt = req.ExpiresAt
	promo.UsageLimit = req.UsageLimit
	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, fmt.Errorf("update promo code: %w", err)
	}
	return promo, nil
}

func (s *promoServiceImpl) Deactivate(ctx context.Context, code string) error {
	promo, err := s.promoRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromoNotFound
		}
		return fmt.Errorf("find promo code: %w", err)
	}

	promo.Active = false
	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return fmt.Errorf("update promo code: %w", err)
	}
	return nil
}
