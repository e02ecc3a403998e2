package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:128;not null"`
	IsAdmin      bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Address struct {
	ID         string `gorm:"primaryKey;size:36"`
	UserID     string `gorm:"size:36;index;not null"`
	FullName   string `gorm:"size:255;not null"`
	Line1      string `gorm:"size:255;not null"`
	Line2      string `gorm:"size:255"`
	City       string `gorm:"size:128;not null"`
	PostalCode string `gorm:"size:32;not null"`
	Country    string `gorm:"size:2;not null"` // ISO 3166-1 alpha-2
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Category struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:128;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          string          `gorm:"primaryKey;size:36"`
	CategoryID  string          `gorm:"size:36;index"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency    string          `gorm:"size:8;not null;default:usd"`
	Active      bool            `gorm:"not null;default:true"`
	Variants    []Variant       `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Variant struct {
	ID        string          `gorm:"primaryKey;size:36"`
	ProductID string          `gorm:"size:36;index;not null"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	SKU       string          `gorm:"size:64;uniqueIndex;not null"`
	Name      string          `gorm:"size:255"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock     int             `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Cart struct {
	ID        string     `gorm:"primaryKey;size:36"`
	UserID    string     `gorm:"size:36;uniqueIndex;not null"`
	Items     []CartItem `gorm:"foreignKey:CartID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem holds one line per distinct variant per cart. UnitPrice is the
// price captured at add time; checkout reprices from the catalog.
type CartItem struct {
	ID        uint            `gorm:"primaryKey"`
	CartID    string          `gorm:"size:36;index:idx_cart_variant,unique;not null"`
	VariantID string          `gorm:"size:36;index:idx_cart_variant,unique;not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PromoType string

const (
	PromoPercentage PromoType = "PERCENTAGE"
	PromoFixed      PromoType = "FIXED"
)

type PromoCode struct {
	ID          string          `gorm:"primaryKey;size:36"`
	Code        string          `gorm:"size:64;uniqueIndex;not null"`
	Type        PromoType       `gorm:"size:16;not null"`
	Percent     decimal.Decimal `gorm:"type:decimal(5,4)"`  // fraction, e.g. 0.10
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)"` // fixed discount
	MinSubtotal decimal.Decimal `gorm:"type:decimal(12,2)"`
	ExpiresAt   *time.Time
	UsageLimit  *int
	UsageCount  int  `gorm:"not null;default:0"`
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID                string          `gorm:"primaryKey;size:36"`
	UserID            string          `gorm:"size:36;index;not null"`
	Status            OrderStatus     `gorm:"size:32;index;not null"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Discount          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Tax               decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total             decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency          string          `gorm:"size:8;not null"`
	PromoCode         string          `gorm:"size:64"`
	ShippingAddressID string          `gorm:"size:36;not null"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID"`
	PlacedAt          time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     string          `gorm:"size:36;index;not null"`
	VariantID   string          `gorm:"size:36;index;not null"`
	ProductName string          `gorm:"size:255;not null"`
	SKU         string          `gorm:"size:64;not null"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time
}

type PaymentStatus string

const (
	PaymentRequiresAction PaymentStatus = "REQUIRES_ACTION"
	PaymentSucceeded      PaymentStatus = "SUCCEEDED"
	PaymentFailed         PaymentStatus = "FAILED"
	PaymentCancelled      PaymentStatus = "CANCELLED"
	PaymentRefunded       PaymentStatus = "REFUNDED"
)

// Payment mirrors the provider's payment intent state. It is updated only by
// webhook-driven events, never by direct client mutation.
type Payment struct {
	ID        string          `gorm:"primaryKey;size:36"`
	OrderID   string          `gorm:"size:36;index;not null"`
	IntentID  string          `gorm:"size:128;uniqueIndex;not null"`
	Status    PaymentStatus   `gorm:"size:32;index;not null"`
	Amount    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Currency  string          `gorm:"size:8;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}
