package httpx

import (
	"context"
	"github.com/ariefcatur/healtheek-storefront/internal/cart"
	"github.com/ariefcatur/healtheek-storefront/internal/catalog"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const (
	cartSessionHeader = "X-Cart-Session"
	cartSessionCookie = "cart_session"
)

type ProductLookup interface {
	ProductByID(ctx context.Context, id string) (catalog.Product, error)
}

// CartHandler exposes the cart state machine for one cart session per client.
type CartHandler struct {
	Store   cart.Storage
	Catalog ProductLookup
	// Preview prices the cart page; checkout uses its own calculator.
	Preview pricing.Calculator
	Log     *zap.Logger
}

type CartResp struct {
	SessionID string            `json:"sessionId"`
	Items     []cart.Item       `json:"items"`
	Total     float64           `json:"total"`
	Count     int               `json:"count"`
	Preview   pricing.Breakdown `json:"preview"`
}

type AddItemReq struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
}

type SetQuantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) Register(r chi.Router) {
	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{id}", h.setQuantity)
	r.Delete("/cart/items/{id}", h.removeItem)
	r.Delete("/cart", h.clear)
}

// cartSession reads the session id from the header or cookie, issuing a new one when absent.
func cartSession(w http.ResponseWriter, r *http.Request) string {
	if id := r.Header.Get(cartSessionHeader); id != "" {
		return id
	}
	if c, err := r.Cookie(cartSessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartSessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(redisx.TTLCart / time.Second),
	})
	return id
}

func (h *CartHandler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (string, *cart.Cart) {
	sid := cartSession(w, r)
	w.Header().Set(cartSessionHeader, sid)
	return sid, cart.Load(ctx, h.Store, redisx.CartKey(sid), h.Log)
}

func (h *CartHandler) respond(w http.ResponseWriter, sid string, s cart.State) {
	writeJSON(w, http.StatusOK, CartResp{
		SessionID: sid,
		Items:     s.Items,
		Total:     s.Total,
		Count:     s.Count(),
		Preview:   h.Preview.Calculate(s.Lines()),
	})
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid, c := h.load(ctx, w, r)
	h.respond(w, sid, c.Snapshot())
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemReq
	if !decodeValid(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Catalog.ProductByID(ctx, req.ProductID)
	if err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	sid, c := h.load(ctx, w, r)
	h.respond(w, sid, c.AddN(ctx, p, req.Quantity))
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request) {
	var req SetQuantityReq
	if !decodeValid(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid, c := h.load(ctx, w, r)
	h.respond(w, sid, c.SetQuantity(ctx, chi.URLParam(r, "id"), req.Quantity))
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid, c := h.load(ctx, w, r)
	h.respond(w, sid, c.Remove(ctx, chi.URLParam(r, "id")))
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	sid, c := h.load(ctx, w, r)
	h.respond(w, sid, c.Clear(ctx))
}
