package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ---------- auth ----------

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	if r.Email == "" {
		return fmt.Errorf("email: required")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password: must be at least 8 characters")
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type UserResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// ---------- catalog ----------

type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	BasePrice   decimal.Decimal `json:"base_price"`
	Currency    string          `json:"currency"`
}

func (r *ProductRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name: required")
	}
	if r.BasePrice.IsNegative() {
		return fmt.Errorf("base_price: must not be negative")
	}
	return nil
}

type VariantRequest struct {
	SKU   string          `json:"sku"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

func (r *VariantRequest) Validate() error {
	if r.SKU == "" {
		return fmt.Errorf("sku: required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price: must not be negative")
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock: must not be negative")
	}
	return nil
}

type CategoryRequest struct {
	Name string `json:"name"`
}

func (r *CategoryRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name: required")
	}
	return nil
}

// ---------- cart ----------

type AddCartItemRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func (r *AddCartItemRequest) Validate() error {
	if r.VariantID == "" {
		return fmt.Errorf("variant_id: required")
	}
	if r.Quantity < 1 {
		return fmt.Errorf("quantity: must be at least 1")
	}
	return nil
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartItemResponse struct {
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	ID       string             `json:"id"`
	Items    []CartItemResponse `json:"items"`
	Subtotal decimal.Decimal    `json:"subtotal"`
}

// ---------- promo ----------

type PromoCodeRequest struct {
	Code        string          `json:"code"`
	Type        string          `json:"type"` // PERCENTAGE | FIXED
	Percent     decimal.Decimal `json:"percent"`
	Amount      decimal.Decimal `json:"amount"`
	MinSubtotal decimal.Decimal `json:"min_subtotal"`
	ExpiresAt   *time.Time      `json:"expires_at"`
	UsageLimit  *int            `json:"usage_limit"`
}

func (r *PromoCodeRequest) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("code: required")
	}
	switch r.Type {
	case "PERCENTAGE":
		if r.Percent.IsNegative() || r.Percent.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("percent: must be a fraction between 0 and 1")
		}
	case "FIXED":
		if r.Amount.IsNegative() {
			return fmt.Errorf("amount: must not be negative")
		}
	default:
		return fmt.Errorf("type: must be PERCENTAGE or FIXED")
	}
	return nil
}

type ValidatePromoRequest struct {
	Code string `json:"code"`
}

func (r *ValidatePromoRequest) Validate() error {
	if r.Code == "" {
		return fmt.Errorf("code: required")
	}
	return nil
}

type ValidatePromoResponse struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
}

// ---------- checkout / orders ----------

type CheckoutRequest struct {
	ShippingAddressID string `json:"shipping_address_id"`
	PromoCode         string `json:"promo_code"`
}

func (r *CheckoutRequest) Validate() error {
	if r.ShippingAddressID == "" {
		return fmt.Errorf("shipping_address_id: required")
	}
	return nil
}

type OrderItemResponse struct {
	VariantID   string          `json:"variant_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderResponse struct {
	ID                string              `json:"id"`
	Status            string              `json:"status"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	Discount          decimal.Decimal     `json:"discount"`
	Tax               decimal.Decimal     `json:"tax"`
	Total             decimal.Decimal     `json:"total"`
	Currency          string              `json:"currency"`
	PromoCode         string              `json:"promo_code,omitempty"`
	ShippingAddressID string              `json:"shipping_address_id"`
	Items             []OrderItemResponse `json:"items"`
	PlacedAt          time.Time           `json:"placed_at"`
}

type CheckoutResponse struct {
	Order               OrderResponse `json:"order"`
	PaymentClientSecret string        `json:"payment_client_secret"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// ---------- addresses ----------

type AddressRequest struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (r *AddressRequest) Validate() error {
	if r.FullName == "" {
		return fmt.Errorf("full_name: required")
	}
	if r.Line1 == "" {
		return fmt.Errorf("line1: required")
	}
	if r.City == "" {
		return fmt.Errorf("city: required")
	}
	if r.PostalCode == "" {
		return fmt.Errorf("postal_code: required")
	}
	if len(r.Country) != 2 {
		return fmt.Errorf("country: must be a two-letter country code")
	}
	return nil
}
