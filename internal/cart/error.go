package cart

import (
	"errors"
	"fmt"
)

var (
	// -- Authentication/Authorization --
	ErrUserNotAuthenticated = errors.New("user not authenticated")

	// -- Validation & Input --
	ErrProductRequired = errors.New("product id is required")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// -- Resource State --
	ErrCartItemNotFound = errors.New("cart item not found")
)

// InsufficientStockError reports the stock a product has left.
type InsufficientStockError struct {
	ProductID uint
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %d", e.ProductID, e.Available)
}
