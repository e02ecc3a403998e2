package repository

import (
	"context"
	"time"

	"flowcart/internal/model"

	"gorm.io/gorm"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindByUser(ctx context.Context, userID string) (*model.Cart, error)
	FindByUserForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error)
	FindItem(ctx context.Context, cartID, variantID string) (*model.CartItem, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error
	DeleteItem(ctx context.Context, itemID uint) error
	// Clear removes the cart and all of its items in one shot. Callers run it
	// inside the checkout transaction.
	Clear(ctx context.Context, tx *gorm.DB, cartID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{db: db}
}

func (r *cartRepoImpl) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepoImpl) FindByUser(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindByUserForUpdate(ctx context.Context, tx *gorm.DB, userID string) (*model.Cart, error) {
	var cart model.Cart
	err := forUpdate(tx.WithContext(ctx)).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&cart).Error

	if err != nil {
		return nil, err
	}

	return &cart, nil
}

func (r *cartRepoImpl) FindItem(ctx context.Context, cartID, variantID string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND variant_id = ?", cartID, variantID).
		First(&item).Error

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (r *cartRepoImpl) CreateItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepoImpl) UpdateItemQuantity(ctx context.Context, itemID uint, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"updated_at": time.Now(),
		}).Error
}

func (r *cartRepoImpl) DeleteItem(ctx context.Context, itemID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&model.CartItem{}).Error
}

func (r *cartRepoImpl) Clear(ctx context.Context, tx *gorm.DB, cartID string) error {
	if err := tx.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).
		Where("id = ?", cartID).
		Delete(&model.Cart{}).Error
}
