package order

import (
	"strings"
	"time"

	"umkm-store-be/internal/payment"

	"github.com/shopspring/decimal"
)

type PaymentStatus = payment.Status

const (
	PaymentPending = payment.StatusPending
	PaymentPaid    = payment.StatusPaid
	PaymentFailed  = payment.StatusFailed
	PaymentExpired = payment.StatusExpired
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

type ShippingAddress struct {
	RecipientName string `json:"recipient_name"`
	Phone         string `json:"phone"`
	AddressDetail string `json:"address_detail"`
	City          string `json:"city"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`
}

// Complete reports whether every field but the postal code is present.
func (a ShippingAddress) Complete() bool {
	for _, v := range []string{a.RecipientName, a.Phone, a.AddressDetail, a.City, a.Province} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}

type Order struct {
	ID                    uint            `json:"id"`
	UserID                uint            `json:"user_id"`
	OrderNumber           string          `json:"order_number"`
	TotalPrice            decimal.Decimal `json:"total_price"`
	ShippingCost          decimal.Decimal `json:"shipping_cost"`
	GrandTotal            decimal.Decimal `json:"grand_total"`
	PaymentStatus         PaymentStatus   `json:"payment_status"`
	OrderStatus           OrderStatus     `json:"order_status"`
	ShippingAddress       ShippingAddress `json:"shipping_address"`
	ShippingService       string          `json:"shipping_service"`
	SnapToken             *string         `json:"snap_token,omitempty"`
	MidtransOrderID       *string         `json:"midtrans_order_id,omitempty"`
	MidtransTransactionID *string         `json:"midtrans_transaction_id,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
	Items                 []OrderItem     `json:"items,omitempty"`
}

type OrderItem struct {
	ID          uint            `json:"id"`
	OrderID     uint            `json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"name"`
	Image       *string         `json:"image,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type CheckoutItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CheckoutInput struct {
	UserID          uint            `json:"-"`
	Items           []CheckoutItem  `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	ShippingService string          `json:"shipping_service"`
}

type CheckoutResult struct {
	OrderID      uint   `json:"order_id"`
	OrderNumber  string `json:"order_number"`
	SessionToken string `json:"session_token"`
	RedirectURL  string `json:"redirect_url"`
}

type ReconcileResult struct {
	OrderNumber string
	Outcome     payment.Outcome
	From        PaymentStatus
	To          PaymentStatus
	OrderStatus OrderStatus
}

type OrderList struct {
	Items []Order
	Total int
	Page  int
	Limit int
}
