package models

// PaymentEvent is the provider-issued payment confirmation after the webhook
// layer has verified and flattened it. The provider guarantees at-least-once
// delivery, so the same EventID or SessionID may arrive more than once.
type PaymentEvent struct {
	EventID     string
	SessionID   string
	CartRef     string
	UserID      string
	AmountTotal int64 // minor units (cents)
	Currency    string
	PaymentRef  string
}
