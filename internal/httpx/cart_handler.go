package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/velocityathletics/velocity/internal/cart"
	"github.com/velocityathletics/velocity/internal/catalog"
	"github.com/velocityathletics/velocity/internal/checkout"
)

// CartHandler serves the session-scoped cart ledgers: one ledger per cart id,
// persisted through the configured store, checked out through the provider.
type CartHandler struct {
	Store    cart.Store
	Source   catalog.Source
	Sessions checkout.SessionCreator
	Events   EventPublisher
	Service  string
	Log      zerolog.Logger
}

func (h *CartHandler) Register(r *chi.Mux) {
	r.Post("/api/carts", h.createCart)
	r.Get("/api/carts/{cartID}", h.getCart)
	r.Delete("/api/carts/{cartID}", h.clearCart)
	r.Post("/api/carts/{cartID}/items", h.addItem)
	r.Put("/api/carts/{cartID}/items/{productID}", h.setQuantity)
	r.Delete("/api/carts/{cartID}/items/{productID}", h.removeItem)
	r.Post("/api/carts/{cartID}/checkout", h.checkoutCart)
	r.Post("/api/carts/{cartID}/confirm", h.confirmCart)
}

type cartItemView struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Image     string `json:"image"`
	Size      string `json:"size"`
	Category  string `json:"category"`
	Quantity  int    `json:"quantity"`
}

type cartTotalsView struct {
	Subtotal string `json:"subtotal"`
	Shipping string `json:"shipping"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
}

type cartView struct {
	CartID    string         `json:"cartId"`
	Items     []cartItemView `json:"items"`
	ItemCount int            `json:"itemCount"`
	Totals    cartTotalsView `json:"totals"`
}

// Amounts are rounded to two digits here, at transmission time only.
func viewOf(id string, l *cart.Ledger) cartView {
	lines := l.Lines()
	items := make([]cartItemView, 0, len(lines))
	for _, ln := range lines {
		items = append(items, cartItemView{
			ProductID: ln.ProductID,
			Name:      ln.Name,
			Price:     ln.UnitPrice.StringFixed(2),
			Image:     ln.Image,
			Size:      ln.Size,
			Category:  ln.Category,
			Quantity:  ln.Quantity,
		})
	}
	t := l.Totals()
	return cartView{
		CartID:    id,
		Items:     items,
		ItemCount: l.ItemCount(),
		Totals: cartTotalsView{
			Subtotal: t.Subtotal.StringFixed(2),
			Shipping: t.Shipping.StringFixed(2),
			Tax:      t.Tax.StringFixed(2),
			Total:    t.Total.StringFixed(2),
		},
	}
}

func (h *CartHandler) createCart(w http.ResponseWriter, r *http.Request) {
	sizes, err := h.Source.ListSizes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	id := uuid.NewString()
	if err := h.Store.Put(r.Context(), id, cart.New(sizes...)); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"cartId": id})
}

func (h *CartHandler) loadCart(w http.ResponseWriter, r *http.Request) (string, *cart.Ledger, bool) {
	id := chi.URLParam(r, "cartID")
	l, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, cart.ErrCartNotFound) {
		writeError(w, http.StatusNotFound, "cart not found")
		return "", nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return "", nil, false
	}
	return id, l, true
}

func (h *CartHandler) saveAndRespond(w http.ResponseWriter, r *http.Request, id string, l *cart.Ledger) {
	if err := h.Store.Put(r.Context(), id, l); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, l))
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(id, l))
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	l.Clear()
	h.saveAndRespond(w, r, id, l)
}

type addItemRequest struct {
	ProductID int64  `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := h.Source.GetProduct(r.Context(), req.ProductID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := l.Add(p, req.Size, req.Quantity); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.saveAndRespond(w, r, id, l)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	// quantity < 1 removes the line(s), by contract.
	l.SetQuantity(productID, req.Quantity)
	h.saveAndRespond(w, r, id, l)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if size := r.URL.Query().Get("size"); size != "" {
		l.RemoveSize(productID, size)
	} else {
		l.Remove(productID)
	}
	h.saveAndRespond(w, r, id, l)
}

type checkoutRequest struct {
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

func (h *CartHandler) checkoutCart(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}
	if l.IsEmpty() {
		writeError(w, http.StatusBadRequest, "cart is empty")
		return
	}

	items := checkout.BuildLineItems(l.Lines(), l.Totals())
	sessionID, err := h.Sessions.CreateSession(r.Context(), items, req.SuccessURL, req.CancelURL)
	if err != nil {
		h.Log.Error().Err(err).Str("cart_id", id).Msg("create checkout session")
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	h.Log.Info().Str("cart_id", id).Str("session_id", sessionID).Msg("checkout session created")
	publishSessionCreated(h.Events, h.Service, id, sessionID, items)

	// The ledger is untouched here; it is cleared by confirm, after the
	// hosted flow reports success.
	writeJSON(w, http.StatusOK, map[string]string{"sessionId": sessionID})
}

func (h *CartHandler) confirmCart(w http.ResponseWriter, r *http.Request) {
	id, l, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	l.Clear()
	h.saveAndRespond(w, r, id, l)
}
