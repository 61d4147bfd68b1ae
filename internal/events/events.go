package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated   = "OrderCreated"
	EventCatalogChanged = "CatalogChanged"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // one of the consts above
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id or entity id
	Payload       json.RawMessage `json:"payload"`
}

// ---- payloads ----

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreatedPayload struct {
	OrderID       string      `json:"order_id"`
	OrderNumber   string      `json:"order_number"`
	UserID        string      `json:"user_id"`
	Items         []OrderItem `json:"items"`
	Total         string      `json:"total"` // decimal string
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
}

// Catalog entities carried by CatalogChanged.
const (
	EntityProduct  = "product"
	EntityCategory = "category"
	EntityCourse   = "course"
)

// Catalog change actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type CatalogChangedPayload struct {
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id,omitempty"`
	Action   string `json:"action"`
}
