package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	tests := []struct {
		transactionStatus string
		fraudStatus       string
		want              Status
	}{
		{"capture", "accept", StatusPaid},
		{"capture", "challenge", StatusPending},
		{"capture", "", StatusPending},
		{"settlement", "", StatusPaid},
		{"cancel", "", StatusFailed},
		{"deny", "deny", StatusFailed},
		{"expire", "", StatusExpired},
		{"pending", "", StatusPending},
		{"refund", "", StatusPending},
		{"", "", StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.transactionStatus+"/"+tt.fraudStatus, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(tt.transactionStatus, tt.fraudStatus))
		})
	}
}
