// Package stripe is the server side of the checkout forward: it creates
// hosted checkout sessions against the provider REST API and returns the
// opaque session id. Nothing else of the provider surface is modeled.
package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/velocityathletics/velocity/internal/checkout"
)

const DefaultBaseURL = "https://api.stripe.com"

// Countries the hosted page may collect a shipping address for.
var allowedCountries = []string{"US", "CA"}

// APIError carries the provider's status and message for a failed call.
type APIError struct {
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("stripe: status %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

type Client struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func New(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// CreateSession creates a card-payment hosted checkout session and returns
// its id. The provider API is form-encoded with bracketed nested keys.
func (c *Client) CreateSession(ctx context.Context, items []checkout.LineItem, successURL, cancelURL string) (string, error) {
	form := url.Values{}
	form.Set("payment_method_types[0]", "card")
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	for i, country := range allowedCountries {
		form.Set(fmt.Sprintf("shipping_address_collection[allowed_countries][%d]", i), country)
	}
	for i, it := range items {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", it.PriceData.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(it.PriceData.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", it.PriceData.ProductData.Name)
		if d := it.PriceData.ProductData.Description; d != "" {
			form.Set(prefix+"[price_data][product_data][description]", d)
		}
		for j, img := range it.PriceData.ProductData.Images {
			form.Set(fmt.Sprintf("%s[price_data][product_data][images][%d]", prefix, j), img)
		}
		form.Set(prefix+"[quantity]", strconv.Itoa(it.Quantity))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return "", &APIError{Message: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", &APIError{Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &APIError{Status: resp.StatusCode, Message: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(b, &apiErr)
		msg := apiErr.Error.Message
		if msg == "" {
			msg = "session creation failed"
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &session); err != nil {
		return "", &APIError{Status: resp.StatusCode, Message: "malformed response", Err: err}
	}
	if session.ID == "" {
		return "", &APIError{Status: resp.StatusCode, Message: "response missing session id"}
	}
	return session.ID, nil
}
