package orders

import (
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"time"
)

// Order is immutable once created: items and pricing are snapshots taken at checkout.
type Order struct {
	ID             string            `json:"id"`
	OrderNumber    string            `json:"orderNumber"`
	IdempotencyKey string            `json:"-"`
	UserID         string            `json:"userId"`
	UserEmail      string            `json:"userEmail,omitempty"`
	Items          []Item            `json:"items"`
	Billing        BillingInfo       `json:"billingInfo"`
	Payment        PaymentInfo       `json:"paymentInfo"`
	Pricing        pricing.Breakdown `json:"pricing"`
	Status         Status            `json:"status"`
	PaymentStatus  PaymentStatus     `json:"paymentStatus"`
	CreatedAt      time.Time         `json:"createdAt"`
}

type Item struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

type BillingInfo struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country"`
}

// PaymentInfo is what gets stored. Card details never reach this struct.
type PaymentInfo struct {
	Method PaymentMethod `json:"method"`
	UPIID  string        `json:"upiId,omitempty"`
}
