package httpx

import (
	"context"
	"errors"
	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/go-chi/chi/v5"
	"net/http"
	"time"
)

const orderListLimit = 50

type OrdersHandler struct {
	Orders OrderStore
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Orders.Get(ctx, orderID)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "could not load order")
	default:
		writeJSON(w, http.StatusOK, o)
	}
}

// listOrders returns a user's orders, most recent first.
func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		userID = r.Header.Get(userIDHeader)
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Orders.ListByUser(ctx, userID, orderListLimit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, list)
}
