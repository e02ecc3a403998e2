package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"flowcart/internal/config"

	"github.com/shopspring/decimal"
)

// ErrGatewayUnavailable marks network or provider-side failures. The client
// never retries; retry policy belongs to the caller.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

type Intent struct {
	ID           string
	ClientSecret string
	Status       string
}

type StripeClient interface {
	CreateIntent(ctx context.Context, orderID string, amount decimal.Decimal, currency string) (*Intent, error)
	CancelIntent(ctx context.Context, intentID string) error
	RefundIntent(ctx context.Context, intentID string) error
}

type stripeClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewStripeClient(stripeCfg *config.Stripe) StripeClient {
	return &stripeClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: stripeCfg.BaseApiURL,
		secretKey:  stripeCfg.SecretKey,
	}
}

func (c *stripeClientImpl) CreateIntent(ctx context.Context, orderID string, amount decimal.Decimal, currency string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(toMinorUnits(amount), 10))
	form.Set("currency", strings.ToLower(currency))
	form.Set("metadata[order_id]", orderID)

	var result struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Status       string `json:"status"`
	}
	if err := c.post(ctx, "/v1/payment_intents", form, &result); err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}

	return &Intent{
		ID:           result.ID,
		ClientSecret: result.ClientSecret,
		Status:       result.Status,
	}, nil
}

func (c *stripeClientImpl) CancelIntent(ctx context.Context, intentID string) error {
	path := fmt.Sprintf("/v1/payment_intents/%s/cancel", intentID)
	if err := c.post(ctx, path, url.Values{}, nil); err != nil {
		return fmt.Errorf("cancel payment intent: %w", err)
	}
	return nil
}

func (c *stripeClientImpl) RefundIntent(ctx context.Context, intentID string) error {
	form := url.Values{}
	form.Set("payment_intent", intentID)
	if err := c.post(ctx, "/v1/refunds", form, nil); err != nil {
		return fmt.Errorf("create refund: %w", err)
	}
	return nil
}

func (c *stripeClientImpl) post(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseApiURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: provider returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("stripe error %d: %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode stripe response: %w", err)
	}
	return nil
}

// toMinorUnits converts a decimal amount to the smallest currency unit.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
