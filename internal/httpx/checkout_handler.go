package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/velocityathletics/velocity/internal/checkout"
	"github.com/velocityathletics/velocity/internal/events"
	kafkax "github.com/velocityathletics/velocity/internal/kafka"
)

// EventPublisher is what the handlers need from the kafka producer. A nil
// publisher disables event publishing.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// CheckoutHandler serves the passthrough endpoint: it forwards assembled
// line items to the payment provider and returns the session id.
type CheckoutHandler struct {
	Sessions checkout.SessionCreator
	Events   EventPublisher
	Service  string
	Log      zerolog.Logger
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Get("/", h.root)
	r.Get("/api/health", h.health)
	r.Post("/api/create-checkout-session", h.createSession)
}

func (h *CheckoutHandler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"message": "Velocity checkout backend",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":   "GET /api/health",
			"checkout": "POST /api/create-checkout-session",
		},
	})
}

func (h *CheckoutHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "checkout backend is running"})
}

func (h *CheckoutHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.LineItems) == 0 || req.SuccessURL == "" || req.CancelURL == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	sessionID, err := h.Sessions.CreateSession(r.Context(), req.LineItems, req.SuccessURL, req.CancelURL)
	if err != nil {
		h.Log.Error().Err(err).Int("line_items", len(req.LineItems)).Msg("create checkout session")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.Log.Info().Str("session_id", sessionID).Int("line_items", len(req.LineItems)).Msg("checkout session created")
	publishSessionCreated(h.Events, h.Service, "", sessionID, req.LineItems)
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func publishSessionCreated(p EventPublisher, service, cartID, sessionID string, items []checkout.LineItem) {
	if p == nil {
		return
	}
	var amount int64
	for _, it := range items {
		amount += it.PriceData.UnitAmount * int64(it.Quantity)
	}
	key := cartID
	if key == "" {
		key = sessionID
	}
	env := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventCheckoutSessionCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      service,
		CorrelationID: key,
		Payload: kafkax.MustMarshal(events.CheckoutSessionCreatedPayload{
			SessionID:   sessionID,
			CartID:      cartID,
			LineCount:   len(items),
			AmountCents: amount,
		}),
	}
	p.Publish(events.PartitionKey(key), kafkax.MustMarshal(env),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventCheckoutSessionCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
