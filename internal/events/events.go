package events

import (
	"encoding/json"
	"time"
)

const (
	EventCheckoutSessionCreated = "CheckoutSessionCreated"
)

const (
	TopicCheckoutSessionCreated = "checkout.session.created"
)

// Envelope is the versioned wrapper around every published event.
type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"` // RFC3339
	Producer      string          `json:"producer"`    // e.g. "velocity-api"
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// CheckoutSessionCreatedPayload records a successful hand-off to the hosted
// payment page. Amounts are minor currency units as sent to the provider.
type CheckoutSessionCreatedPayload struct {
	SessionID   string `json:"session_id"`
	CartID      string `json:"cart_id,omitempty"`
	LineCount   int    `json:"line_count"`
	AmountCents int64  `json:"amount_cents"`
}

// Partition key = cart id (falling back to session id), so events of one
// checkout flow keep their order.
func PartitionKey(id string) []byte { return []byte(id) }
