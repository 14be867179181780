package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"umkm-store-be/internal/logger"

	"go.uber.org/zap"
)

const (
	sandboxSnapURL    = "https://app.sandbox.midtrans.com/snap/v1/transactions"
	productionSnapURL = "https://app.midtrans.com/snap/v1/transactions"

	// Midtrans rejects item names longer than this.
	maxItemNameLength = 50
)

type MidtransConfig struct {
	ServerKey       string
	IsProduction    bool
	VerifySignature bool
	FrontendURL     string
	Timeout         time.Duration
}

type midtransGateway struct {
	serverKey       string
	snapURL         string
	verifySignature bool
	frontendURL     string
	httpClient      *http.Client
}

func NewMidtransGateway(cfg MidtransConfig) Gateway {
	if cfg.ServerKey == "" {
		logger.L().Warn("Midtrans server key is empty")
	}
	if !cfg.VerifySignature {
		logger.L().Warn("Midtrans signature verification disabled, notifications are trusted")
	}

	snapURL := sandboxSnapURL
	if cfg.IsProduction {
		snapURL = productionSnapURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &midtransGateway{
		serverKey:       cfg.ServerKey,
		snapURL:         snapURL,
		verifySignature: cfg.VerifySignature,
		frontendURL:     strings.TrimRight(cfg.FrontendURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ----------------- CreateTransaction -----------------

func (m *midtransGateway) CreateTransaction(ctx context.Context, snap SnapRequest) (*SnapResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_number", snap.TransactionDetails.OrderID),
		zap.Int64("gross_amount", snap.TransactionDetails.GrossAmount),
	)

	if m.serverKey == "" {
		return nil, ErrMissingServerKey
	}

	for i := range snap.ItemDetails {
		snap.ItemDetails[i].Name = truncate(snap.ItemDetails[i].Name, maxItemNameLength)
	}
	if snap.Callbacks == nil && m.frontendURL != "" {
		snap.Callbacks = m.callbacks(snap.TransactionDetails.OrderID)
	}

	jsonBody, err := json.Marshal(snap)
	if err != nil {
		log.Error("Failed to marshal snap request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.snapURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.SetBasicAuth(m.serverKey, "")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	log.Info("Sending snap transaction to Midtrans")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Error("Midtrans request failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read midtrans response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Error("Midtrans returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, fmt.Errorf("midtrans error: status %d", resp.StatusCode)
	}

	var res SnapResponse
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Error("Failed decoding Midtrans response", zap.Error(err))
		return nil, err
	}
	if res.Token == "" {
		log.Error("Midtrans response without token", zap.ByteString("response", bodyBytes))
		return nil, ErrEmptyToken
	}

	log.Info("Midtrans snap transaction created")

	return &res, nil
}

func (m *midtransGateway) callbacks(orderNumber string) *Callbacks {
	q := "?order_id=" + url.QueryEscape(orderNumber)
	return &Callbacks{
		Finish:  m.frontendURL + "/order/success" + q,
		Error:   m.frontendURL + "/order/failed" + q,
		Pending: m.frontendURL + "/order/pending" + q,
	}
}

// ----------------- Verify Signature -----------------

// VerifySignature checks signature_key against
// sha512(order_id + status_code + gross_amount + server_key).
func (m *midtransGateway) VerifySignature(n Notification) error {
	if !m.verifySignature {
		return nil
	}
	if m.serverKey == "" {
		return ErrMissingServerKey
	}

	expected := Signature(n.OrderID, n.StatusCode, n.GrossAmount, m.serverKey)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(n.SignatureKey))) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// Signature computes the hex signature Midtrans attaches to notifications.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
