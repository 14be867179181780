package cart

import (
	"context"
	"database/sql"
	"errors"

	"umkm-store-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListByUser(ctx context.Context, userID uint) ([]CartItem, error)
	GetQuantity(ctx context.Context, userID, productID uint) (int, error)
	Upsert(ctx context.Context, userID, productID uint, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uint, quantity int) error
	Remove(ctx context.Context, userID, productID uint) error
	Clear(ctx context.Context, userID uint) error
	RemoveProducts(ctx context.Context, userID uint, productIDs []uint) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]CartItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByUser"),
		zap.Uint("user_id", userID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.product_id, p.name, p.price, p.discount_price,
		       c.quantity, p.stock, p.image, p.weight, c.updated_at
		FROM carts c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1 AND p.status = 'active'
		ORDER BY c.created_at ASC
	`, userID)
	if err != nil {
		log.Error("failed to query cart rows", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []CartItem{}
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.DiscountPrice,
			&item.Quantity,
			&item.Stock,
			&item.Image,
			&item.Weight,
			&item.UpdatedAt,
		); err != nil {
			log.Error("failed to scan cart row", zap.Error(err))
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetQuantity returns 0 when the product is not in the cart.
func (r *repository) GetQuantity(ctx context.Context, userID, productID uint) (int, error) {
	var qty int
	err := r.db.QueryRowContext(ctx, `
		SELECT quantity FROM carts WHERE user_id = $1 AND product_id = $2
	`, userID, productID).Scan(&qty)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

// Upsert adds quantity to an existing line or inserts a new one.
func (r *repository) Upsert(ctx context.Context, userID, productID uint, quantity int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO carts (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity, updated_at = NOW()
	`, userID, productID, quantity)
	return err
}

func (r *repository) SetQuantity(ctx context.Context, userID, productID uint, quantity int) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE carts
		SET quantity = $1, updated_at = NOW()
		WHERE user_id = $2 AND product_id = $3
	`, quantity, userID, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Remove(ctx context.Context, userID, productID uint) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = $2
	`, userID, productID)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

func (r *repository) Clear(ctx context.Context, userID uint) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID)
	return err
}

func (r *repository) RemoveProducts(ctx context.Context, userID uint, productIDs []uint) error {
	if len(productIDs) == 0 {
		return nil
	}

	ids := make(pq.Int64Array, 0, len(productIDs))
	for _, id := range productIDs {
		ids = append(ids, int64(id))
	}

	_, err := r.db.ExecContext(ctx, `
		DELETE FROM carts
		WHERE user_id = $1 AND product_id = ANY($2)
	`, userID, ids)
	return err
}
