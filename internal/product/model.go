package product

import (
	"time"

	"github.com/shopspring/decimal"
)

const StatusActive = "active"

type Product struct {
	ID            uint                `json:"id"`
	CategoryID    *uint               `json:"category_id,omitempty"`
	CategoryName  *string             `json:"category_name,omitempty"`
	CategorySlug  *string             `json:"category_slug,omitempty"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Description   *string             `json:"description,omitempty"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price"`
	Stock         int                 `json:"stock"`
	Weight        int                 `json:"weight"`
	Image         *string             `json:"image,omitempty"`
	Status        string              `json:"status"`
	Images        []string            `json:"images,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ListOptions struct {
	CategorySlug string
	Search       string
	Page         int
	Limit        int
}

type ListResult struct {
	Items []Product
	Total int
}
