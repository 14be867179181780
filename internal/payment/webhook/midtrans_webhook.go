package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/metrics"
	"umkm-store-be/internal/order"
	"umkm-store-be/internal/payment"
	"umkm-store-be/internal/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// Reconciler applies a verified notification to its order.
type Reconciler interface {
	ApplyNotification(ctx context.Context, n payment.Notification) (*order.ReconcileResult, error)
}

type Handler struct {
	reconciler Reconciler
	gateway    payment.Gateway
	repo       payment.Repository
	metrics    *metrics.Registry
}

func NewWebhookHandler(
	reconciler Reconciler,
	gateway payment.Gateway,
	repo payment.Repository,
	reg *metrics.Registry,
) *Handler {
	return &Handler{
		reconciler: reconciler,
		gateway:    gateway,
		repo:       repo,
		metrics:    reg,
	}
}

// NotificationHandler receives Midtrans HTTP notifications. Every accepted
// body is journaled before it touches the order, so redeliveries of a
// processed notification are answered without side effects.
func (h *Handler) NotificationHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "webhook"),
		zap.String("method", "NotificationHandler"),
	)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utils.WriteJSONError(w, "Failed to read body.", http.StatusBadRequest)
		return
	}

	var n payment.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Warn("invalid notification payload", zap.Error(err))
		utils.WriteJSONError(w, "Invalid JSON payload.", http.StatusBadRequest)
		return
	}
	if n.OrderID == "" || n.TransactionStatus == "" {
		utils.WriteJSONError(w, "Incomplete notification.", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("order_number", n.OrderID),
		zap.String("transaction_id", n.TransactionID),
		zap.String("transaction_status", n.TransactionStatus),
	)

	// 1. Verify signature
	sigErr := h.gateway.VerifySignature(n)
	signatureValid := sigErr == nil

	// 2. Journal
	notificationID, isDuplicate, err := h.repo.SaveNotification(ctx, n, body, signatureValid)
	if err != nil {
		log.Error("failed to save notification", zap.Error(err))
		utils.WriteJSONError(w, "Failed to process notification.", http.StatusInternalServerError)
		return
	}

	if !signatureValid {
		log.Warn("notification signature rejected", zap.Error(sigErr))
		h.metrics.Inc(metrics.NotificationRejected)
		if !isDuplicate {
			h.markFailed(ctx, log, notificationID, sigErr)
		}
		status := http.StatusUnauthorized
		if !errors.Is(sigErr, payment.ErrInvalidSignature) {
			status = http.StatusInternalServerError
		}
		utils.WriteJSONError(w, "Invalid signature.", status)
		return
	}

	if isDuplicate {
		log.Info("duplicate notification ignored")
		h.metrics.Inc(metrics.NotificationDuplicate)
		writeAck(w, "Notification already processed")
		return
	}

	// 3. Reconcile
	res, err := h.reconciler.ApplyNotification(ctx, n)
	if err != nil {
		log.Error("failed to apply notification", zap.Error(err))
		h.markFailed(ctx, log, notificationID, err)
		utils.WriteJSONError(w, "Failed to process notification.", http.StatusInternalServerError)
		return
	}

	// 4. Mark processed
	if err := h.repo.MarkNotificationProcessed(ctx, notificationID, res.Outcome); err != nil {
		log.Error("failed to mark notification processed", zap.Error(err))
	}

	log.Info("notification processed",
		zap.String("outcome", string(res.Outcome)),
		zap.String("from", string(res.From)),
		zap.String("to", string(res.To)),
	)
	writeAck(w, "Notification processed")
}

func (h *Handler) markFailed(ctx context.Context, log *zap.Logger, notificationID int64, cause error) {
	if err := h.repo.MarkNotificationFailed(ctx, notificationID, cause.Error()); err != nil {
		log.Error("failed to mark notification failed", zap.Error(err))
	}
}

func writeAck(w http.ResponseWriter, message string) {
	utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Message: message})
}
