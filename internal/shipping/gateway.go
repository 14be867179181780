package shipping

import "context"

// Gateway is the courier-rate provider.
type Gateway interface {
	Provinces(ctx context.Context) ([]Province, error)
	Cities(ctx context.Context, provinceID string) ([]City, error)
	Cost(ctx context.Context, req CostRequest) (*CostResult, error)
}
