package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// webhookTolerance bounds how old a signed webhook timestamp may be before
// the event is rejected as a possible replay.
const webhookTolerance = 5 * time.Minute

const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
	EventPaymentCancelled = "payment_intent.canceled"
	EventChargeRefunded   = "charge.refunded"
)

// WebhookEvent is the provider event reduced to what reconciliation needs.
type WebhookEvent struct {
	EventID  string
	Type     string
	IntentID string
	Amount   decimal.Decimal
}

// GatewayAdapter translates provider webhook payloads. No business logic.
type GatewayAdapter interface {
	VerifySignature(payload []byte, sigHeader string) error
	ParseEvent(payload []byte) (*WebhookEvent, error)
}

type gatewayAdapterImpl struct {
	webhookSecret string
	now           func() time.Time
}

func NewGatewayAdapter(webhookSecret string) GatewayAdapter {
	return &gatewayAdapterImpl{
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// VerifySignature checks the provider's "t=<unix>,v1=<hex>" signature header:
// HMAC-SHA256 over "<t>.<payload>" with the shared webhook secret.
func (g *gatewayAdapterImpl) VerifySignature(payload []byte, sigHeader string) error {
	var (
		timestamp string
		signature string
	)
	for _, part := range strings.Split(sigHeader, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			timestamp = value
		case "v1":
			signature = value
		}
	}
	if timestamp == "" || signature == "" {
		return fmt.Errorf("%w: malformed signature header", ErrInvalidSignature)
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
	}
	age := g.now().Sub(time.Unix(ts, 0))
	if age > webhookTolerance || age < -webhookTolerance {
		return fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(g.webhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func (g *gatewayAdapterImpl) ParseEvent(payload []byte) (*WebhookEvent, error) {
	var raw struct {
		ID   string `json:"id"`
		Type string `json:"type"`
		Data struct {
			Object struct {
				ID            string `json:"id"`
				Amount        int64  `json:"amount"`
				PaymentIntent string `json:"payment_intent"`
			} `json:"object"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	// charge.* events carry the intent id on the charge object
	intentID := raw.Data.Object.ID
	if raw.Data.Object.PaymentIntent != "" {
		intentID = raw.Data.Object.PaymentIntent
	}

	return &WebhookEvent{
		EventID:  raw.ID,
		Type:     raw.Type,
		IntentID: intentID,
		Amount:   decimal.New(raw.Data.Object.Amount, -2),
	}, nil
}
