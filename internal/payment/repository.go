package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

type Repository interface {
	SaveNotification(
		ctx context.Context,
		n Notification,
		payload json.RawMessage,
		signatureValid bool,
	) (notificationID int64, isDuplicate bool, err error)

	MarkNotificationProcessed(ctx context.Context, notificationID int64, outcome Outcome) error
	MarkNotificationFailed(ctx context.Context, notificationID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// SaveNotification journals n keyed by
// (order_number, transaction_id, transaction_status, fraud_status), so a
// capture/challenge followed by capture/accept are two entries. A row that was already processed reports isDuplicate. A row whose earlier
// processing failed is handed back for another attempt.
func (r *repository) SaveNotification(
	ctx context.Context,
	n Notification,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_notifications (
		order_number,
		transaction_id,
		transaction_status,
		fraud_status,
		status_code,
		gross_amount,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (order_number, transaction_id, transaction_status, fraud_status)
	DO UPDATE SET
		attempts = payment_notifications.attempts + 1,
		signature_valid = EXCLUDED.signature_valid,
		payload = EXCLUDED.payload,
		process_error = NULL
	WHERE payment_notifications.processed_at IS NULL
	RETURNING id;
	`

	var id int64
	err := r.db.QueryRowContext(
		ctx,
		q,
		n.OrderID,
		n.TransactionID,
		n.TransactionStatus,
		n.FraudStatus,
		n.StatusCode,
		n.GrossAmount,
		signatureValid,
		[]byte(payload),
	).Scan(&id)

	if err != nil {
		// already processed
		if errors.Is(err, sql.ErrNoRows) {
			return 0, true, nil
		}
		return 0, false, err
	}

	return id, false, nil
}

func (r *repository) MarkNotificationProcessed(
	ctx context.Context,
	notificationID int64,
	outcome Outcome,
) error {

	const q = `
	UPDATE payment_notifications
	SET processed_at = now(), outcome = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, notificationID, string(outcome))
	return err
}

func (r *repository) MarkNotificationFailed(
	ctx context.Context,
	notificationID int64,
	reason string,
) error {

	const q = `
	UPDATE payment_notifications
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, notificationID, reason)
	return err
}
