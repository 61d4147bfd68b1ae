package orders

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusPending:    {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed:  {StatusProcessing: true, StatusCancelled: true},
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func (s Status) Valid() bool {
	_, ok := validNext[s]
	return ok
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCOD  PaymentMethod = "cod"
	PaymentUPI  PaymentMethod = "upi"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCOD, PaymentUPI:
		return true
	}
	return false
}

// InitialStatus: cash on delivery is confirmed immediately and paid later;
// online methods wait for the payment to clear.
func InitialStatus(m PaymentMethod) (Status, PaymentStatus) {
	if m == PaymentCOD {
		return StatusConfirmed, PaymentPending
	}
	return StatusPending, PaymentProcessing
}
