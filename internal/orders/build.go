package orders

import (
	"fmt"
	"github.com/ariefcatur/healtheek-storefront/internal/cart"
	"github.com/ariefcatur/healtheek-storefront/internal/pricing"
	"strings"
	"time"
)

// PaymentInput is the payment part of a checkout request. Only Method and
// UPIID survive into the stored order.
type PaymentInput struct {
	Method     PaymentMethod `json:"method"`
	CardNumber string        `json:"cardNumber,omitempty"`
	ExpiryDate string        `json:"expiryDate,omitempty"`
	CVV        string        `json:"cvv,omitempty"`
	CardName   string        `json:"cardName,omitempty"`
	UPIID      string        `json:"upiId,omitempty"`
}

func (p PaymentInput) validate() error {
	switch p.Method {
	case PaymentCOD:
		return nil
	case PaymentUPI:
		if strings.TrimSpace(p.UPIID) == "" {
			return ErrMissingUPIID
		}
		return nil
	case PaymentCard:
		if p.CardNumber == "" || p.ExpiryDate == "" || p.CVV == "" || p.CardName == "" {
			return ErrMissingCardDetails
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, p.Method)
	}
}

type CheckoutInput struct {
	UserID         string
	UserEmail      string
	Billing        BillingInfo
	Payment        PaymentInput
	IdempotencyKey string
}

// OrderNumber is the customer-facing reference, ORD-<unix millis>.
func OrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}

// Build snapshots the cart into an order priced by calc. It does not assign an id.
func Build(state cart.State, in CheckoutInput, calc pricing.Calculator, now time.Time) (Order, error) {
	if in.UserID == "" {
		return Order{}, ErrMissingUser
	}
	if state.IsEmpty() {
		return Order{}, ErrEmptyCart
	}
	if err := in.Payment.validate(); err != nil {
		return Order{}, err
	}

	items := make([]Item, 0, len(state.Items))
	lines := make([]pricing.Line, 0, len(state.Items))
	for _, it := range state.Items {
		price := it.UnitPrice()
		items = append(items, Item{
			ProductID: it.ID,
			Name:      it.Name,
			Price:     price,
			Quantity:  it.Quantity,
			Image:     it.Image,
		})
		lines = append(lines, pricing.Line{UnitPrice: price, Quantity: it.Quantity})
	}

	status, payStatus := InitialStatus(in.Payment.Method)
	payment := PaymentInfo{Method: in.Payment.Method}
	if in.Payment.Method == PaymentUPI {
		payment.UPIID = in.Payment.UPIID
	}
	email := in.UserEmail
	if email == "" {
		email = in.Billing.Email
	}

	return Order{
		OrderNumber:    OrderNumber(now),
		IdempotencyKey: in.IdempotencyKey,
		UserID:         in.UserID,
		UserEmail:      email,
		Items:          items,
		Billing:        in.Billing,
		Payment:        payment,
		Pricing:        calc.Calculate(lines),
		Status:         status,
		PaymentStatus:  payStatus,
		CreatedAt:      now.UTC(),
	}, nil
}
