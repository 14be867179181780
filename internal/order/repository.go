package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"umkm-store-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	CancelOrderTx(ctx context.Context, orderID uint) error
	AttachPaymentSession(ctx context.Context, orderID uint, snapToken, gatewayOrderID string) error
	GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	CompareAndSetStatus(
		ctx context.Context,
		orderID uint,
		from, to PaymentStatus,
		orderStatus OrderStatus,
		transactionID string,
	) error
	GetByIDForUser(ctx context.Context, orderID, userID uint) (*Order, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]Order, error)
	CountByUser(ctx context.Context, userID uint) (int, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, user_id, order_number, total_price, shipping_cost, grand_total,
	payment_status, order_status,
	shipping_recipient_name, shipping_phone, shipping_address_detail,
	shipping_city, shipping_province, shipping_postal_code, shipping_service,
	snap_token, midtrans_order_id, midtrans_transaction_id,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.OrderNumber,
		&o.TotalPrice,
		&o.ShippingCost,
		&o.GrandTotal,
		&o.PaymentStatus,
		&o.OrderStatus,
		&o.ShippingAddress.RecipientName,
		&o.ShippingAddress.Phone,
		&o.ShippingAddress.AddressDetail,
		&o.ShippingAddress.City,
		&o.ShippingAddress.Province,
		&o.ShippingAddress.PostalCode,
		&o.ShippingService,
		&o.SnapToken,
		&o.MidtransOrderID,
		&o.MidtransTransactionID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// CreateOrderTx inserts the order and its items and decrements stock in one
// transaction. Stock is only taken when enough remains.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_number", o.OrderNumber),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1. Insert order
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			user_id, order_number, total_price, shipping_cost, grand_total,
			payment_status, order_status,
			shipping_recipient_name, shipping_phone, shipping_address_detail,
			shipping_city, shipping_province, shipping_postal_code, shipping_service
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id, created_at, updated_at
	`,
		o.UserID,
		o.OrderNumber,
		o.TotalPrice,
		o.ShippingCost,
		o.GrandTotal,
		o.PaymentStatus,
		o.OrderStatus,
		o.ShippingAddress.RecipientName,
		o.ShippingAddress.Phone,
		o.ShippingAddress.AddressDetail,
		o.ShippingAddress.City,
		o.ShippingAddress.Province,
		o.ShippingAddress.PostalCode,
		o.ShippingService,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == PgUniqueViolation {
			return ErrDuplicateOrderNumber
		}
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// 2. Insert order items + deduct stock
	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (
				order_id, product_id, product_name,
				quantity, price, subtotal
			) VALUES ($1,$2,$3,$4,$5,$6)
			RETURNING id
		`,
			o.ID,
			item.ProductID,
			item.ProductName,
			item.Quantity,
			item.Price,
			item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			log.Error("failed to insert order item", zap.Uint("product_id", item.ProductID), zap.Error(err))
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1, updated_at = NOW()
			WHERE id = $2 AND stock >= $1
		`, item.Quantity, item.ProductID)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return stockShortfall(ctx, tx, item.ProductID)
		}
	}

	return tx.Commit()
}

// stockShortfall explains why a conditional decrement touched no row.
func stockShortfall(ctx context.Context, tx *sql.Tx, productID uint) error {
	var (
		name  string
		stock int
	)
	err := tx.QueryRowContext(ctx, `SELECT name, stock FROM products WHERE id = $1`, productID).Scan(&name, &stock)
	if errors.Is(err, sql.ErrNoRows) {
		return &ProductNotFoundError{ProductID: productID}
	}
	if err != nil {
		return err
	}
	return &InsufficientStockError{ProductID: productID, Name: name, Available: stock}
}

// CancelOrderTx marks a still-pending order FAILED/CANCELLED and puts its
// items back into stock. Orders that already left PENDING are left alone.
func (r *repository) CancelOrderTx(ctx context.Context, orderID uint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1, order_status = $2, updated_at = NOW()
		WHERE id = $3 AND payment_status = $4
	`, PaymentFailed, StatusCancelled, orderID, PaymentPending)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE products p
		SET stock = p.stock + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND p.id = oi.product_id
	`, orderID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repository) AttachPaymentSession(ctx context.Context, orderID uint, snapToken, gatewayOrderID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET snap_token = $1, midtrans_order_id = $2, updated_at = NOW()
		WHERE id = $3
	`, snapToken, gatewayOrderID, orderID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE order_number = $1`, orderNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	return o, err
}

// CompareAndSetStatus moves the order from one payment status to another.
// It fails with ErrStaleStatus when the stored status is no longer from.
func (r *repository) CompareAndSetStatus(
	ctx context.Context,
	orderID uint,
	from, to PaymentStatus,
	orderStatus OrderStatus,
	transactionID string,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET payment_status = $1,
		    order_status = $2,
		    midtrans_transaction_id = COALESCE(NULLIF($3, ''), midtrans_transaction_id),
		    updated_at = NOW()
		WHERE id = $4 AND payment_status = $5
	`, to, orderStatus, transactionID, orderID, from)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *repository) GetByIDForUser(ctx context.Context, orderID, userID uint) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetByIDForUser"),
		zap.Uint("order_id", orderID),
	)

	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to query order", zap.Error(err))
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, oi.product_name, p.image,
		       oi.quantity, oi.price, oi.subtotal
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id
	`, orderID)
	if err != nil {
		log.Error("failed to query order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	o.Items = []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Image,
			&item.Quantity,
			&item.Price,
			&item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}

	return o, rows.Err()
}

func (r *repository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT`+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	return orders, rows.Err()
}

func (r *repository) CountByUser(ctx context.Context, userID uint) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total)
	return total, err
}
