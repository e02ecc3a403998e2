package repository

import (
	"context"
	"time"

	"flowcart/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	// FindByOrderID returns the latest payment for an order. tx may be nil
	// for reads outside a transaction.
	FindByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Payment, error)
	FindByIntentID(ctx context.Context, tx *gorm.DB, intentID string) (*model.Payment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, paymentID string, status model.PaymentStatus) error
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{db: db}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByOrderID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Payment, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var payment model.Payment
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) FindByIntentID(ctx context.Context, tx *gorm.DB, intentID string) (*model.Payment, error) {
	var payment model.Payment
	err := forUpdate(tx.WithContext(ctx)).
		Where("intent_id = ?", intentID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, paymentID string, status model.PaymentStatus) error {
	return tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ?", paymentID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
