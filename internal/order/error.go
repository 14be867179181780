package order

import (
	"errors"
	"fmt"
)

var (
	// -- Validation & Input --
	ErrUnauthenticated    = errors.New("user not authenticated")
	ErrEmptyItems         = errors.New("cart is empty")
	ErrInvalidQuantity    = errors.New("every item needs a product id and a quantity of at least 1")
	ErrQuantityTooLarge   = errors.New("quantity per product cannot exceed 1000")
	ErrIncompleteShipping = errors.New("shipping data is incomplete")

	// -- Resource State --
	ErrOrderNotFound        = errors.New("order not found")
	ErrDuplicateOrderNumber = errors.New("order number already exists")
	ErrStaleStatus          = errors.New("order payment status changed concurrently")

	// -- External Systems --
	ErrPaymentGateway = errors.New("payment gateway failure")

	PgUniqueViolation = "23505"
)

type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d", e.Name, e.Available)
}
