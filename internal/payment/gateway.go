package payment

import "context"

type Gateway interface {
	CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error)
	VerifySignature(n Notification) error
}
