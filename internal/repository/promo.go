package repository

import (
	"context"
	"strings"
	"time"

	"flowcart/internal/model"

	"gorm.io/gorm"
)

type PromoRepository interface {
	Create(ctx context.Context, promo *model.PromoCode) error
	FindByCode(ctx context.Context, code string) (*model.PromoCode, error)
	List(ctx context.Context) ([]*model.PromoCode, error)
	Update(ctx context.Context, promo *model.PromoCode) error
	// IncrementUsage bumps usage_count only while it is below the usage limit.
	// It reports false when the limit has been reached, which must fail the
	// surrounding checkout transaction.
	IncrementUsage(ctx context.Context, tx *gorm.DB, promoID string) (bool, error)
}

type promoRepoImpl struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) PromoRepository {
	return &promoRepoImpl{db: db}
}

func (r *promoRepoImpl) Create(ctx context.Context, promo *model.PromoCode) error {
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *promoRepoImpl) FindByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))

	var promo model.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ?", normalized).
		First(&promo).Error

	if err != nil {
		return nil, err
	}

	return &promo, nil
}

func (r *promoRepoImpl) List(ctx context.Context) ([]*model.PromoCode, error) {
	var promos []*model.PromoCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&promos).Error

	if err != nil {
		return nil, err
	}

	return promos, nil
}

func (r *promoRepoImpl) Update(ctx context.Context, promo *model.PromoCode) error {
	return r.db.WithContext(ctx).Save(promo).Error
}

func (r *promoRepoImpl) IncrementUsage(ctx context.Context, tx *gorm.DB, promoID string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.PromoCode{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", promoID).
		Updates(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + 1"),
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
