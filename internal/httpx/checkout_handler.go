package httpx

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/healtheek-storefront/internal/cart"
	"github.com/ariefcatur/healtheek-storefront/internal/events"
	"github.com/ariefcatur/healtheek-storefront/internal/orders"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"github.com/ariefcatur/healtheek-storefront/internal/redisx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"net/http"
	"time"
)

const userIDHeader = "X-User-Id"

type OrderStore interface {
	Create(ctx context.Context, o orders.Order) (string, bool, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Order, error)
}

// CheckoutHandler turns the session cart into an order.
type CheckoutHandler struct {
	Carts     cart.Storage
	Orders    OrderStore
	Publisher events.Publisher
	Pricing   pricing.Calculator
	// Redis is the idempotency fast path; the orders table stays authoritative.
	Redis   *redis.Client
	Service string
	Log     *zap.Logger
	Now     func() time.Time
}

type CheckoutReq struct {
	UserEmail string              `json:"userEmail" validate:"omitempty,email"`
	Billing   orders.BillingInfo  `json:"billingInfo"`
	Payment   orders.PaymentInput `json:"paymentInfo"`
}

type CheckoutResp struct {
	Order      orders.Order `json:"order"`
	Idempotent bool         `json:"idempotent"`
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Post("/checkout", h.checkout)
}

func (h *CheckoutHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *CheckoutHandler) checkout(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "missing "+userIDHeader)
		return
	}
	var req CheckoutReq
	if !decodeValid(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	idem := r.Header.Get("Idempotency-Key")
	if idem != "" {
		if o, ok := h.replay(ctx, idem); ok {
			writeJSON(w, http.StatusOK, CheckoutResp{Order: o, Idempotent: true})
			return
		}
	}

	sid := cartSession(w, r)
	c := cart.Load(ctx, h.Carts, redisx.CartKey(sid), h.Log)
	o, err := orders.Build(c.Snapshot(), orders.CheckoutInput{
		UserID:         userID,
		UserEmail:      req.UserEmail,
		Billing:        req.Billing,
		Payment:        req.Payment,
		IdempotencyKey: idem,
	}, h.Pricing, h.now())
	if err != nil {
		writeError(w, checkoutStatus(err), err.Error())
		return
	}

	id, existed, err := h.Orders.Create(ctx, o)
	if err != nil {
		h.Log.Error("create order", zap.String("user_id", userID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not place order")
		return
	}
	if existed {
		stored, err := h.Orders.Get(ctx, id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not load order")
			return
		}
		writeJSON(w, http.StatusOK, CheckoutResp{Order: stored, Idempotent: true})
		return
	}
	o.ID = id

	if idem != "" && h.Redis != nil {
		if err := h.Redis.Set(ctx, fmt.Sprintf(redisx.KeyIdemCheckout, idem), id, redisx.TTLIdempotency).Err(); err != nil {
			h.Log.Warn("idempotency cache set", zap.Error(err))
		}
	}
	h.publish(ctx, o, middleware.GetReqID(r.Context()))
	c.Clear(ctx)

	writeJSON(w, http.StatusCreated, CheckoutResp{Order: o})
}

// replay returns the order already placed under key, if the fast path knows it.
func (h *CheckoutHandler) replay(ctx context.Context, key string) (orders.Order, bool) {
	if h.Redis == nil {
		return orders.Order{}, false
	}
	id, err := h.Redis.Get(ctx, fmt.Sprintf(redisx.KeyIdemCheckout, key)).Result()
	if err != nil {
		return orders.Order{}, false
	}
	o, err := h.Orders.Get(ctx, id)
	if err != nil {
		return orders.Order{}, false
	}
	return o, true
}

func (h *CheckoutHandler) publish(ctx context.Context, o orders.Order, traceID string) {
	items := make([]events.OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, events.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	env, err := events.New(events.EventOrderCreated, h.Service, traceID, o.ID, events.OrderCreatedPayload{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Items:         items,
		Total:         o.Pricing.Total.StringFixed(2),
		PaymentMethod: string(o.Payment.Method),
		Status:        string(o.Status),
	})
	if err == nil {
		err = events.Emit(ctx, h.Publisher, o.ID, env)
	}
	if err != nil {
		h.Log.Error("publish order created", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func checkoutStatus(err error) int {
	switch {
	case errors.Is(err, orders.ErrMissingUser):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrInvalidPaymentMethod),
		errors.Is(err, orders.ErrMissingUPIID),
		errors.Is(err, orders.ErrMissingCardDetails):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
