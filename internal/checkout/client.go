package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/velocityathletics/velocity/internal/cart"
)

// Request is the body of the session-creation call.
type Request struct {
	LineItems  []LineItem `json:"lineItems"`
	SuccessURL string     `json:"successUrl"`
	CancelURL  string     `json:"cancelUrl"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Error     string `json:"error"`
}

// SessionError is returned for any failed session creation: transport error,
// non-2xx status, or a malformed response body. The caller decides on
// messaging and retries; nothing here retries automatically.
type SessionError struct {
	Status  int // 0 when the request never completed
	Message string
	Err     error
}

func (e *SessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("checkout session: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("checkout session: %s", e.Message)
}

func (e *SessionError) Unwrap() error { return e.Err }

// SessionCreator creates a hosted-checkout session and returns its opaque id.
// Implemented by Client (against the storefront backend) and by the direct
// provider client in internal/stripe.
type SessionCreator interface {
	CreateSession(ctx context.Context, items []LineItem, successURL, cancelURL string) (string, error)
}

// Submit is the one-shot checkout hand-off: it assembles the line items from
// the ledger's current contents and totals, submits them through creator, and
// returns the session id. It never mutates the ledger; clearing it is the
// caller's job after the hosted flow reports success.
func Submit(ctx context.Context, l *cart.Ledger, creator SessionCreator, successURL, cancelURL string) (string, error) {
	items := BuildLineItems(l.Lines(), l.Totals())
	return creator.CreateSession(ctx, items, successURL, cancelURL)
}

// Client talks to the storefront backend's session-creation endpoint.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) CreateSession(ctx context.Context, items []LineItem, successURL, cancelURL string) (string, error) {
	body, err := json.Marshal(Request{LineItems: items, SuccessURL: successURL, CancelURL: cancelURL})
	if err != nil {
		return "", &SessionError{Message: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/create-checkout-session", bytes.NewReader(body))
	if err != nil {
		return "", &SessionError{Message: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &SessionError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &SessionError{Status: resp.StatusCode, Message: "read response", Err: err}
	}

	var sr sessionResponse
	if err := json.Unmarshal(b, &sr); err != nil {
		return "", &SessionError{Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := sr.Error
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return "", &SessionError{Status: resp.StatusCode, Message: msg}
	}
	if sr.SessionID == "" {
		return "", &SessionError{Status: resp.StatusCode, Message: "response missing sessionId"}
	}
	return sr.SessionID, nil
}
