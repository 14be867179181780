package order

type Transition int

const (
	TransitionNoop Transition = iota
	TransitionAllowed
	TransitionRejected
)

// allowedTransitions lists the payment-status moves a notification may make.
// PAID is terminal. A late success may still settle a FAILED or EXPIRED order.
var allowedTransitions = map[PaymentStatus]map[PaymentStatus]bool{
	PaymentPending: {PaymentPaid: true, PaymentFailed: true, PaymentExpired: true},
	PaymentFailed:  {PaymentPaid: true},
	PaymentExpired: {PaymentPaid: true},
}

func CheckTransition(from, to PaymentStatus) Transition {
	if from == to {
		return TransitionNoop
	}
	if allowedTransitions[from][to] {
		return TransitionAllowed
	}
	return TransitionRejected
}

// OrderStatusFor derives the fulfilment status that follows a payment status.
// Orders already shipped or delivered keep their status.
func OrderStatusFor(p PaymentStatus, current OrderStatus) OrderStatus {
	switch p {
	case PaymentPaid:
		if current == StatusShipped || current == StatusDelivered {
			return current
		}
		return StatusProcessing
	case PaymentFailed, PaymentExpired:
		return StatusCancelled
	default:
		return StatusPending
	}
}
