package services

import (
	"bytes"
	"io"
	"net/http"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// WebhookParser verifies and decodes a signed provider webhook request.
type WebhookParser interface {
	ParseWebhook(r *http.Request) (stripe.Event, error)
}

// SessionCreator opens hosted checkout sessions with the payment provider.
type SessionCreator interface {
	CreateCheckoutSession(lines []CheckoutLine, currency, cartRef, userID string) (*stripe.CheckoutSession, error)
}

// CheckoutLine is one priced line sent to the hosted checkout page.
// UnitAmount is in minor currency units.
type CheckoutLine struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

type StripeService struct {
	SecretKey  string
	WebhookKey string
	SuccessURL string
	CancelURL  string
}

func NewStripeService(secretKey, webhookKey, successURL, cancelURL string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		SecretKey:  secretKey,
		WebhookKey: webhookKey,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	}
}

// CreateCheckoutSession opens a hosted payment session for the given lines.
// cartRef and userID travel in the session metadata and come back with the
// completion webhook.
func (s *StripeService) CreateCheckoutSession(lines []CheckoutLine, currency, cartRef, userID string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.SuccessURL),
		CancelURL:  stripe.String(s.CancelURL),
	}
	for _, line := range lines {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(line.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}
	params.AddMetadata("cart_ref", cartRef)
	params.AddMetadata("user_id", userID)

	return session.New(params)
}

// ParseWebhook reads the raw body and verifies the provider signature. The
// body is restored so later handlers can re-read it.
func (s *StripeService) ParseWebhook(r *http.Request) (stripe.Event, error) {
	var event stripe.Event
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return event, err
	}
	r.Body = io.NopCloser(bytes.NewBuffer(payload))
	sigHeader := r.Header.Get("Stripe-Signature")
	return webhook.ConstructEvent(payload, sigHeader, s.WebhookKey)
}
