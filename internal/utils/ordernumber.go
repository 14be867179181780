package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber returns a human-legible ORDER-<unix millis>-<0..999> id.
// It is not collision-free; orders.order_number carries a UNIQUE constraint
// and callers regenerate on conflict.
func GenerateOrderNumber() string {
	now := time.Now()

	n, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(now.UnixNano() % 1000)
	}

	return fmt.Sprintf("ORDER-%d-%d", now.UnixMilli(), n.Int64())
}
