package repository

import (
	"context"

	"flowcart/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	List(ctx context.Context, categoryID string) ([]*model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID string) error

	CreateVariant(ctx context.Context, variant *model.Variant) error
	FindVariantByID(ctx context.Context, variantID string) (*model.Variant, error)
	FindVariantForUpdate(ctx context.Context, tx *gorm.DB, variantID string) (*model.Variant, error)
	UpdateVariant(ctx context.Context, variant *model.Variant) error
	DeleteVariant(ctx context.Context, variantID string) error
	// DecrementStock conditionally takes qty units off a variant. It reports
	// false when the remaining stock is insufficient.
	DecrementStock(ctx context.Context, tx *gorm.DB, variantID string, qty int) (bool, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{db: db}
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) List(ctx context.Context, categoryID string) ([]*model.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Variants").
		Where("active = ?", true)
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var products []*model.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", productID).
		Delete(&model.Product{}).Error
}

func (r *productRepoImpl) CreateVariant(ctx context.Context, variant *model.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *productRepoImpl) FindVariantByID(ctx context.Context, variantID string) (*model.Variant, error) {
	var variant model.Variant
	err := r.db.WithContext(ctx).
		Where("id = ?", variantID).
		First(&variant).Error

	if err != nil {
		return nil, err
	}

	return &variant, nil
}

func (r *productRepoImpl) FindVariantForUpdate(ctx context.Context, tx *gorm.DB, variantID string) (*model.Variant, error) {
	var variant model.Variant
	err := forUpdate(tx.WithContext(ctx)).
		Preload("Product").
		Where("id = ?", variantID).
		First(&variant).Error

	if err != nil {
		return nil, err
	}

	return &variant, nil
}

func (r *productRepoImpl) UpdateVariant(ctx context.Context, variant *model.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *productRepoImpl) DeleteVariant(ctx context.Context, variantID string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", variantID).
		Delete(&model.Variant{}).Error
}

func (r *productRepoImpl) DecrementStock(ctx context.Context, tx *gorm.DB, variantID string, qty int) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Variant{}).
		Where("id = ? AND stock >= ?", variantID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
