package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckTransition(t *testing.T) {
	statuses := []PaymentStatus{PaymentPending, PaymentPaid, PaymentFailed, PaymentExpired}

	// rows: from, columns: to
	want := map[PaymentStatus][]Transition{
		PaymentPending: {TransitionNoop, TransitionAllowed, TransitionAllowed, TransitionAllowed},
		PaymentPaid:    {TransitionRejected, TransitionNoop, TransitionRejected, TransitionRejected},
		PaymentFailed:  {TransitionRejected, TransitionAllowed, TransitionNoop, TransitionRejected},
		PaymentExpired: {TransitionRejected, TransitionAllowed, TransitionRejected, TransitionNoop},
	}

	for _, from := range statuses {
		for i, to := range statuses {
			assert.Equal(t, want[from][i], CheckTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusFor(t *testing.T) {
	tests := []struct {
		payment PaymentStatus
		current OrderStatus
		want    OrderStatus
	}{
		{PaymentPaid, StatusPending, StatusProcessing},
		{PaymentPaid, StatusCancelled, StatusProcessing},
		{PaymentPaid, StatusShipped, StatusShipped},
		{PaymentPaid, StatusDelivered, StatusDelivered},
		{PaymentFailed, StatusPending, StatusCancelled},
		{PaymentExpired, StatusPending, StatusCancelled},
		{PaymentPending, StatusPending, StatusPending},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OrderStatusFor(tt.payment, tt.current), "%s from %s", tt.payment, tt.current)
	}
}

func TestShippingAddress_Complete(t *testing.T) {
	full := ShippingAddress{
		RecipientName: "Budi",
		Phone:         "0812",
		AddressDetail: "Jl. Merdeka 1",
		City:          "Bandung",
		Province:      "Jawa Barat",
	}
	assert.True(t, full.Complete())

	noCity := full
	noCity.City = "  "
	assert.False(t, noCity.Complete())
}
