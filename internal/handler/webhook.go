package handler

import (
	"io"
	"net/http"

	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
)

type WebhookHandler struct {
	orderService service.OrderService
}

func NewWebhookHandler(orderService service.OrderService) *WebhookHandler {
	return &WebhookHandler{orderService: orderService}
}

// StripeWebhook verifies and applies gateway events. The signature is
// computed over the raw body, so it must be read before any binding.
func (h *WebhookHandler) StripeWebhook(c echo.Context) error {
	ctx := c.Request().Context()

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	if err := h.orderService.HandleWebhook(ctx, payload, sig); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusOK)
}
