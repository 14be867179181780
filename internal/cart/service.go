package cart

import (
	"context"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	GetCart(ctx context.Context, userID uint) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) error
	UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error
	RemoveItem(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) GetCart(ctx context.Context, userID uint) (*Cart, error) {
	if userID == 0 {
		return nil, ErrUserNotAuthenticated
	}

	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := Summary{TotalPrice: decimal.Zero}
	for i := range items {
		qty := decimal.NewFromInt(int64(items[i].Quantity))
		items[i].Subtotal = items[i].UnitPrice().Mul(qty)

		summary.TotalItems += items[i].Quantity
		summary.TotalPrice = summary.TotalPrice.Add(items[i].Subtotal)
		summary.TotalWeight += items[i].Weight * items[i].Quantity
	}

	return &Cart{Items: items, Summary: summary}, nil
}

// AddItem adds quantity (default 1) to the cart, checking the combined
// quantity against live stock.
func (s *service) AddItem(ctx context.Context, params AddItemParams) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.Uint("product_id", params.ProductID),
	)

	if params.UserID == 0 {
		return ErrUserNotAuthenticated
	}
	if params.ProductID == 0 {
		return ErrProductRequired
	}
	if params.Quantity == 0 {
		params.Quantity = 1
	}
	if params.Quantity < 0 {
		return ErrInvalidQuantity
	}

	p, err := s.activeProduct(ctx, params.ProductID)
	if err != nil {
		return err
	}

	existing, err := s.repo.GetQuantity(ctx, params.UserID, params.ProductID)
	if err != nil {
		log.Error("failed to read cart quantity", zap.Error(err))
		return err
	}

	if p.Stock < existing+params.Quantity {
		log.Warn("insufficient stock",
			zap.Int("stock", p.Stock),
			zap.Int("requested", existing+params.Quantity),
		)
		return &InsufficientStockError{ProductID: p.ID, Available: p.Stock}
	}

	if err := s.repo.Upsert(ctx, params.UserID, params.ProductID, params.Quantity); err != nil {
		log.Error("failed to upsert cart item", zap.Error(err))
		return err
	}

	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	p, err := s.activeProduct(ctx, productID)
	if err != nil {
		return err
	}
	if p.Stock < quantity {
		return &InsufficientStockError{ProductID: p.ID, Available: p.Stock}
	}

	return s.repo.SetQuantity(ctx, userID, productID, quantity)
}

func (s *service) RemoveItem(ctx context.Context, userID, productID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	if productID == 0 {
		return ErrProductRequired
	}
	return s.repo.Remove(ctx, userID, productID)
}

func (s *service) Clear(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrUserNotAuthenticated
	}
	return s.repo.Clear(ctx, userID)
}

func (s *service) activeProduct(ctx context.Context, productID uint) (*product.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Status != product.StatusActive {
		return nil, product.ErrProductNotFound
	}
	return p, nil
}
