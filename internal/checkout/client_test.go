package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocityathletics/velocity/internal/cart"
	"github.com/velocityathletics/velocity/internal/catalog"
)

func TestClientCreateSession(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/create-checkout-session", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]string{"sessionId": "cs_test_123"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items := []LineItem{{
		PriceData: PriceData{Currency: Currency, ProductData: ProductData{Name: "A"}, UnitAmount: 18900},
		Quantity:  1,
	}}
	id, err := c.CreateSession(context.Background(), items, "https://shop.example/success", "https://shop.example/cart")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", id)
	assert.Equal(t, "https://shop.example/success", got.SuccessURL)
	assert.Equal(t, "https://shop.example/cart", got.CancelURL)
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, int64(18900), got.LineItems[0].PriceData.UnitAmount)
}

func TestClientCreateSessionFailures(t *testing.T) {
	t.Run("non-2xx with error body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "provider unavailable"})
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).CreateSession(context.Background(), nil, "s", "c")
		var se *SessionError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.Status)
		assert.Equal(t, "provider unavailable", se.Message)
	})

	t.Run("malformed response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).CreateSession(context.Background(), nil, "s", "c")
		var se *SessionError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "malformed response", se.Message)
	})

	t.Run("missing sessionId", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{}"))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL).CreateSession(context.Background(), nil, "s", "c")
		var se *SessionError
		require.ErrorAs(t, err, &se)
	})

	t.Run("transport error", func(t *testing.T) {
		_, err := NewClient("http://127.0.0.1:0").CreateSession(context.Background(), nil, "s", "c")
		var se *SessionError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, 0, se.Status)
		assert.Error(t, se.Unwrap())
	})
}

type fakeCreator struct {
	items      []LineItem
	successURL string
	cancelURL  string
}

func (f *fakeCreator) CreateSession(_ context.Context, items []LineItem, successURL, cancelURL string) (string, error) {
	f.items = items
	f.successURL = successURL
	f.cancelURL = cancelURL
	return "cs_fake", nil
}

func TestSubmitLeavesLedgerUntouched(t *testing.T) {
	l := cart.New("US 9")
	p := catalog.Product{ID: 1, Name: "A", Price: decimal.NewFromInt(189), Image: "i", Category: "Running"}
	require.NoError(t, l.Add(p, "US 9", 2))

	fc := &fakeCreator{}
	id, err := Submit(context.Background(), l, fc, "https://s", "https://c")
	require.NoError(t, err)
	assert.Equal(t, "cs_fake", id)
	assert.Len(t, fc.items, 3)
	assert.Equal(t, "https://s", fc.successURL)

	// Building the request must not commit any side effect on the cart.
	assert.Equal(t, 2, l.ItemCount())
}
