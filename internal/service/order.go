package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"flowcart/internal/client"
	"flowcart/internal/dto"
	"flowcart/internal/model"
	"flowcart/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderService interface {
	// Checkout converts the user's cart into an immutable order under a
	// single transaction: reprice, discount, tax, snapshot, clear cart,
	// create the payment intent. Any failure rolls the whole unit back.
	Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)

	GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, userID string, offset, limit int) ([]*dto.OrderResponse, error)

	Cancel(ctx context.Context, userID, orderID string) error
	Fulfill(ctx context.Context, orderID string) error
	Refund(ctx context.Context, orderID string) error

	// HandleWebhook reconciles a provider-signed event with the local
	// order/payment state. Idempotent under event re-delivery.
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type orderServiceImpl struct {
	db               *gorm.DB
	cartRepo         repository.CartRepository
	productRepo      repository.ProductRepository
	promoRepo        repository.PromoRepository
	orderRepo        repository.OrderRepository
	paymentRepo      repository.PaymentRepository
	addressRepo      repository.AddressRepository
	webhookEventRepo repository.WebhookEventRepository
	stripeClient     client.StripeClient
	gateway          GatewayAdapter
	taxRate          decimal.Decimal
}

func NewOrderService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	promoRepo repository.PromoRepository,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	addressRepo repository.AddressRepository,
	webhookEventRepo repository.WebhookEventRepository,
	stripeClient client.StripeClient,
	gateway GatewayAdapter,
	taxRate decimal.Decimal,
) OrderService {
	return &orderServiceImpl{
		db:               db,
		cartRepo:         cartRepo,
		productRepo:      productRepo,
		promoRepo:        promoRepo,
		orderRepo:        orderRepo,
		paymentRepo:      paymentRepo,
		addressRepo:      addressRepo,
		webhookEventRepo: webhookEventRepo,
		stripeClient:     stripeClient,
		gateway:          gateway,
		taxRate:          taxRate,
	}
}

func (s *orderServiceImpl) Checkout(ctx context.Context, userID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	address, err := s.addressRepo.FindByID(ctx, req.ShippingAddressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, ErrAddressNotFound)
		}
		return nil, fmt.Errorf("find address: %w", err)
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, ErrForbidden)
	}

	// stateless promo checks happen up front; the minimum-subtotal check and
	// the usage counter live inside the transaction below
	var promo *model.PromoCode
	if req.PromoCode != "" {
		promo, err = s.promoRepo.FindByCode(ctx, req.PromoCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, ErrPromoNotFound)
			}
			return nil, fmt.Errorf("find promo code: %w", err)
		}
		if err := CheckConstraints(promo, time.Now()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
		}
	}

	var resp *dto.CheckoutResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.FindByUserForUpdate(ctx, tx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return fmt.Errorf("find cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// reprice every line from the catalog; cached cart prices may be
		// stale by checkout time
		subtotal := decimal.Zero
		currency := ""
		orderItems := make([]*model.OrderItem, len(cart.Items))
		for i, item := range cart.Items {
			variant, err := s.productRepo.FindVariantForUpdate(ctx, tx, item.VariantID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrVariantNotFound, item.VariantID)
				}
				return fmt.Errorf("find variant: %w", err)
			}

			ok, err := s.productRepo.DecrementStock(ctx, tx, variant.ID, item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrOutOfStock, variant.SKU)
			}

			lineTotal := variant.Price.Mul(decimalFromInt(item.Quantity))
			subtotal = subtotal.Add(lineTotal)

			productName := variant.Name
			lineCurrency := "usd"
			if variant.Product != nil {
				productName = variant.Product.Name
				if variant.Product.Currency != "" {
					lineCurrency = variant.Product.Currency
				}
			}
			// an order is charged as one amount in one currency; unlike
			// currencies must never be summed
			switch {
			case currency == "":
				currency = lineCurrency
			case lineCurrency != currency:
				return fmt.Errorf("%w: %s and %s", ErrMixedCurrencies, currency, lineCurrency)
			}
			orderItems[i] = &model.OrderItem{
				VariantID:   variant.ID,
				ProductName: productName,
				SKU:         variant.SKU,
				Quantity:    item.Quantity,
				UnitPrice:   variant.Price,
				LineTotal:   lineTotal,
			}
		}

		discount := decimal.Zero
		promoCode := ""
		if promo != nil {
			if subtotal.LessThan(promo.MinSubtotal) {
				return fmt.Errorf("%w: minimum is %s", ErrPromoMinimumNotMet, promo.MinSubtotal)
			}
			ok, err := s.promoRepo.IncrementUsage(ctx, tx, promo.ID)
			if err != nil {
				return fmt.Errorf("increment promo usage: %w", err)
			}
			if !ok {
				return ErrPromoUsageLimit
			}
			discount = Discount(promo, subtotal)
			promoCode = promo.Code
		}

		tax := subtotal.Sub(discount).Mul(s.taxRate).Round(2)
		total := subtotal.Sub(discount).Add(tax)

		order := &model.Order{
			ID:                uuid.NewString(),
			UserID:            userID,
			Status:            model.OrderPendingPayment,
			Subtotal:          subtotal,
			Discount:          discount,
			Tax:               tax,
			Total:             total,
			Currency:          currency,
			PromoCode:         promoCode,
			ShippingAddressID: address.ID,
			PlacedAt:          time.Now(),
		}
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		for _, item := range orderItems {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		if err := s.cartRepo.Clear(ctx, tx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		intent, err := s.stripeClient.CreateIntent(ctx, order.ID, total, currency)
		if err != nil {
			return err
		}
		if err := s.paymentRepo.Create(ctx, tx, &model.Payment{
			ID:       uuid.NewString(),
			OrderID:  order.ID,
			IntentID: intent.ID,
			Status:   model.PaymentRequiresAction,
			Amount:   total,
			Currency: currency,
		}); err != nil {
			return fmt.Errorf("store payment: %w", err)
		}

		order.Items = make([]model.OrderItem, len(orderItems))
		for i, item := range orderItems {
			order.Items[i] = *item
		}
		resp = &dto.CheckoutResponse{
			Order:               *orderToResponse(order),
			PaymentClientSecret: intent.ClientSecret,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCheckoutFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	return resp, nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID string) (*dto.OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrForbidden
	}
	return orderToResponse(order), nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID string, offset, limit int) ([]*dto.OrderResponse, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	resp := make([]*dto.OrderResponse, len(orders))
	for i, order := range orders {
		resp[i] = orderToResponse(order)
	}
	return resp, nil
}

// Cancel moves an order to cancelled. Orders already paid additionally get a
// refund request at the gateway. Stock is not restored; see the checkout
// reservation note in the repository docs.
func (s *orderServiceImpl) Cancel(ctx context.Context, userID, orderID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("find order: %w", err)
		}
		if userID != "" && order.UserID != userID {
			return ErrForbidden
		}
		if !order.Status.CanTransition(model.OrderCancelled) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, model.OrderCancelled)
		}

		payment, err := s.paymentRepo.FindByOrderID(ctx, tx, order.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("find payment: %w", err)
		}

		if payment != nil {
			switch order.Status {
			case model.OrderPaid:
				if err := s.stripeClient.RefundIntent(ctx, payment.IntentID); err != nil {
					return err
				}
				if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, model.PaymentRefunded); err != nil {
					return fmt.Errorf("update payment: %w", err)
				}
			case model.OrderPendingPayment:
				if err := s.stripeClient.CancelIntent(ctx, payment.IntentID); err != nil {
					return err
				}
				if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, model.PaymentCancelled); err != nil {
					return fmt.Errorf("update payment: %w", err)
				}
			}
		}

		return s.orderRepo.UpdateStatus(ctx, tx, order.ID, model.OrderCancelled)
	})
}

func (s *orderServiceImpl) Fulfill(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, model.OrderFulfilled, nil)
}

func (s *orderServiceImpl) Refund(ctx context.Context, orderID string) error {
	return s.transition(ctx, orderID, model.OrderRefunded, func(ctx context.Context, tx *gorm.DB, order *model.Order) error {
		payment, err := s.paymentRepo.FindByOrderID(ctx, tx, order.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("find payment: %w", err)
		}
		if err := s.stripeClient.RefundIntent(ctx, payment.IntentID); err != nil {
			return err
		}
		return s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, model.PaymentRefunded)
	})
}

func (s *orderServiceImpl) transition(ctx context.Context, orderID string, to model.OrderStatus, hook func(context.Context, *gorm.DB, *model.Order) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("find order: %w", err)
		}
		if !order.Status.CanTransition(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, to)
		}
		if hook != nil {
			if err := hook(ctx, tx, order); err != nil {
				return err
			}
		}
		return s.orderRepo.UpdateStatus(ctx, tx, order.ID, to)
	})
}

func (s *orderServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	if err := s.gateway.VerifySignature(payload, sigHeader); err != nil {
		slog.WarnContext(ctx, "webhook signature rejected", "error", err)
		return err
	}

	event, err := s.gateway.ParseEvent(payload)
	if err != nil {
		return fmt.Errorf("parse webhook event: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.paymentRepo.FindByIntentID(ctx, tx, event.IntentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// not fatal: ack so the provider stops retrying
				slog.WarnContext(ctx, "no payment record for webhook intent",
					"intent_id", event.IntentID, "event_type", event.Type)
				return nil
			}
			return fmt.Errorf("find payment: %w", err)
		}

		// dedupe after the payment row lock so simultaneous deliveries of
		// the same event serialize instead of both passing the check
		seen, err := s.webhookEventRepo.Exists(ctx, tx, event.EventID)
		if err != nil {
			return fmt.Errorf("check webhook event: %w", err)
		}
		if seen {
			slog.InfoContext(ctx, "webhook event already processed", "event_id", event.EventID)
			return nil
		}

		order, err := s.orderRepo.FindByIDForUpdate(ctx, tx, payment.OrderID)
		if err != nil {
			return fmt.Errorf("find order: %w", err)
		}

		switch event.Type {
		case EventPaymentSucceeded:
			err = s.applyTransition(ctx, tx, order, payment, model.OrderPaid, model.PaymentSucceeded)
		case EventPaymentFailed, EventPaymentCancelled:
			err = s.applyTransition(ctx, tx, order, payment, model.OrderCancelled, model.PaymentFailed)
		case EventChargeRefunded:
			err = s.applyTransition(ctx, tx, order, payment, model.OrderRefunded, model.PaymentRefunded)
		default:
			slog.InfoContext(ctx, "ignoring webhook event type", "event_type", event.Type)
		}
		if err != nil {
			return err
		}

		return s.webhookEventRepo.MarkProcessed(ctx, tx, event.EventID, event.Type)
	})
}

// applyTransition updates order and payment for a webhook event. An event
// whose target state is unreachable from the current one is a no-op, so
// re-deliveries never error.
func (s *orderServiceImpl) applyTransition(ctx context.Context, tx *gorm.DB, order *model.Order, payment *model.Payment, orderStatus model.OrderStatus, paymentStatus model.PaymentStatus) error {
	if order.Status == orderStatus {
		return nil
	}
	if !order.Status.CanTransition(orderStatus) {
		slog.WarnContext(ctx, "webhook event ignored, transition not allowed",
			"order_id", order.ID, "from", order.Status, "to", orderStatus)
		return nil
	}

	if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, orderStatus); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if err := s.paymentRepo.UpdateStatus(ctx, tx, payment.ID, paymentStatus); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}

	slog.InfoContext(ctx, "order reconciled from webhook",
		"order_id", order.ID, "status", orderStatus)
	return nil
}

func orderToResponse(order *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = dto.OrderItemResponse{
			VariantID:   item.VariantID,
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		}
	}
	return &dto.OrderResponse{
		ID:                order.ID,
		Status:            order.Status.String(),
		Subtotal:          order.Subtotal,
		Discount:          order.Discount,
		Tax:               order.Tax,
		Total:             order.Total,
		Currency:          order.Currency,
		PromoCode:         order.PromoCode,
		ShippingAddressID: order.ShippingAddressID,
		Items:             items,
		PlacedAt:          order.PlacedAt,
	}
}
