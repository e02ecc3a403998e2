package service

import "errors"

var (
	// catalog
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")

	// cart
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
	ErrEmptyCart        = errors.New("cart is empty, nothing to checkout")
	ErrVariantNotFound  = errors.New("variant not found")
	ErrOutOfStock       = errors.New("insufficient stock")

	// promo
	ErrPromoNotFound      = errors.New("promo code not found")
	ErrPromoExpired       = errors.New("promo code expired")
	ErrPromoUsageLimit    = errors.New("promo usage limit exceeded")
	ErrPromoMinimumNotMet = errors.New("minimum order amount not met")

	// order lifecycle
	ErrOrderNotFound      = errors.New("order not found")
	ErrMixedCurrencies    = errors.New("cart mixes currencies")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrCheckoutFailed     = errors.New("checkout failed")
	ErrAddressNotFound    = errors.New("address not found")
	ErrForbidden          = errors.New("resource does not belong to the user")

	// webhook
	ErrInvalidSignature     = errors.New("invalid webhook signature")
	ErrUnknownPaymentIntent = errors.New("no payment record for intent")

	// auth
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)
