package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID            uint                `json:"id"`
	ProductID     uint                `json:"product_id"`
	Name          string              `json:"name"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Quantity      int                 `json:"quantity"`
	Stock         int                 `json:"stock"`
	Image         *string             `json:"image,omitempty"`
	Weight        int                 `json:"weight"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// UnitPrice is the discount price when one is set, the list price otherwise.
func (i CartItem) UnitPrice() decimal.Decimal {
	if i.DiscountPrice.Valid && i.DiscountPrice.Decimal.IsPositive() {
		return i.DiscountPrice.Decimal
	}
	return i.Price
}

type Summary struct {
	TotalItems  int             `json:"totalItems"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	TotalWeight int             `json:"totalWeight"`
}

type Cart struct {
	Items   []CartItem `json:"items"`
	Summary Summary    `json:"summary"`
}

type AddItemParams struct {
	UserID    uint
	ProductID uint
	Quantity  int
}
