package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"flowcart/internal/dto"
	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderService implements service.OrderService; only HandleWebhook is exercised
type stubOrderService struct {
	webhookErr error
	payload    []byte
	sigHeader  string
}

func (s *stubOrderService) Checkout(context.Context, string, *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	return nil, nil
}

func (s *stubOrderService) GetOrder(context.Context, string, string) (*dto.OrderResponse, error) {
	return nil, nil
}

func (s *stubOrderService) ListOrders(context.Context, string, int, int) ([]*dto.OrderResponse, error) {
	return nil, nil
}

func (s *stubOrderService) Cancel(context.Context, string, string) error { return nil }
func (s *stubOrderService) Fulfill(context.Context, string) error        { return nil }
func (s *stubOrderService) Refund(context.Context, string) error         { return nil }

func (s *stubOrderService) HandleWebhook(_ context.Context, payload []byte, sigHeader string) error {
	s.payload = payload
	s.sigHeader = sigHeader
	return s.webhookErr
}

func postWebhook(t *testing.T, h *WebhookHandler, body, sig string) (*httptest.ResponseRecorder, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/stripe", strings.NewReader(body))
	req.Header.Set("Stripe-Signature", sig)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	return rec, h.StripeWebhook(c)
}

func TestStripeWebhook_Acked(t *testing.T) {
	stub := &stubOrderService{}
	h := NewWebhookHandler(stub)

	rec, err := postWebhook(t, h, `{"id":"evt_1"}`, "t=1,v1=abc")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"id":"evt_1"}`, string(stub.payload))
	assert.Equal(t, "t=1,v1=abc", stub.sigHeader)
}

func TestStripeWebhook_InvalidSignatureIs400(t *testing.T) {
	stub := &stubOrderService{webhookErr: service.ErrInvalidSignature}
	h := NewWebhookHandler(stub)

	_, err := postWebhook(t, h, `{"id":"evt_1"}`, "t=1,v1=bad")
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
