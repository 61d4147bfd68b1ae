package redisx

import "time"

const (
	// Server-side cart payload: cart:{session_id} -> versioned cart JSON
	KeyCart = "cart:%s"

	// Idempotency checkout: idem:checkout:{idempotency_key} -> order_id
	KeyIdemCheckout = "idem:checkout:%s"

	// Cached catalog listings (JSON arrays), dropped on catalog.changed
	KeyCatalogProducts   = "catalog:products"
	KeyCatalogCategories = "catalog:categories"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCart        = 30 * 24 * time.Hour
	TTLIdempotency = 24 * time.Hour
	TTLCatalog     = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
