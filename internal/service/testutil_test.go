package service

import (
	"context"
	"path/filepath"
	"testing"

	"flowcart/internal/client"
	"flowcart/internal/model"
	"flowcart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, client.Migrate(db))
	return db
}

// mockStripeClient implements client.StripeClient for testing
type mockStripeClient struct {
	CreateErr   error
	CancelErr   error
	RefundErr   error
	Cancelled   []string
	Refunded    []string
	CreateCalls int
}

func (m *mockStripeClient) CreateIntent(_ context.Context, orderID string, _ decimal.Decimal, _ string) (*client.Intent, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.CreateCalls++
	return &client.Intent{
		ID:           "pi_" + orderID,
		ClientSecret: "pi_" + orderID + "_secret",
		Status:       "requires_payment_method",
	}, nil
}

func (m *mockStripeClient) CancelIntent(_ context.Context, intentID string) error {
	if m.CancelErr != nil {
		return m.CancelErr
	}
	m.Cancelled = append(m.Cancelled, intentID)
	return nil
}

func (m *mockStripeClient) RefundIntent(_ context.Context, intentID string) error {
	if m.RefundErr != nil {
		return m.RefundErr
	}
	m.Refunded = append(m.Refunded, intentID)
	return nil
}

type orderFixture struct {
	db          *gorm.DB
	stripe      *mockStripeClient
	orders      OrderService
	carts       CartService
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	promoRepo   repository.PromoRepository
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()

	db := newTestDB(t)
	stripe := &mockStripeClient{}

	cartRepo := repository.NewCartRepository(db)
	productRepo := repository.NewProductRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	orders := NewOrderService(
		db,
		cartRepo,
		productRepo,
		promoRepo,
		orderRepo,
		paymentRepo,
		addressRepo,
		webhookEventRepo,
		stripe,
		NewGatewayAdapter(testWebhookSecret),
		decimal.RequireFromString("0.1"),
	)

	return &orderFixture{
		db:          db,
		stripe:      stripe,
		orders:      orders,
		carts:       NewCartService(cartRepo, productRepo),
		cartRepo:    cartRepo,
		productRepo: productRepo,
		promoRepo:   promoRepo,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
	}
}

func seedUserWithAddress(t *testing.T, db *gorm.DB) (userID, addressID string) {
	t.Helper()

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)

	address := &model.Address{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		FullName:   "Test Buyer",
		Line1:      "1 Main St",
		City:       "Springfield",
		PostalCode: "12345",
		Country:    "US",
	}
	require.NoError(t, db.Create(address).Error)

	return user.ID, address.ID
}

// seedVariant creates a product with a single variant and returns the variant id.
func seedVariant(t *testing.T, db *gorm.DB, name, sku, price string, stock int) string {
	return seedVariantInCurrency(t, db, name, sku, price, "usd", stock)
}

func seedVariantInCurrency(t *testing.T, db *gorm.DB, name, sku, price, currency string, stock int) string {
	t.Helper()

	product := &model.Product{
		ID:        uuid.NewString(),
		Name:      name,
		BasePrice: decimal.RequireFromString(price),
		Currency:  currency,
		Active:    true,
	}
	require.NoError(t, db.Create(product).Error)

	variant := &model.Variant{
		ID:        uuid.NewString(),
		ProductID: product.ID,
		SKU:       sku,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
	}
	require.NoError(t, db.Create(variant).Error)

	return variant.ID
}

func seedPercentPromo(t *testing.T, db *gorm.DB, code, percent string, usageLimit *int) *model.PromoCode {
	t.Helper()

	promo := &model.PromoCode{
		ID:         uuid.NewString(),
		Code:       code,
		Type:       model.PromoPercentage,
		Percent:    decimal.RequireFromString(percent),
		UsageLimit: usageLimit,
		Active:     true,
	}
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func (f *orderFixture) variantStock(t *testing.T, variantID string) int {
	t.Helper()

	var variant model.Variant
	require.NoError(t, f.db.Where("id = ?", variantID).First(&variant).Error)
	return variant.Stock
}

func (f *orderFixture) orderStatus(t *testing.T, orderID string) model.OrderStatus {
	t.Helper()

	var order model.Order
	require.NoError(t, f.db.Where("id = ?", orderID).First(&order).Error)
	return order.Status
}

func (f *orderFixture) paymentStatus(t *testing.T, orderID string) model.PaymentStatus {
	t.Helper()

	var payment model.Payment
	require.NoError(t, f.db.Where("order_id = ?", orderID).First(&payment).Error)
	return payment.Status
}
