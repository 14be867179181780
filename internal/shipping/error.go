package shipping

import "errors"

var (
	ErrMissingCostFields = errors.New("origin, destination, weight, and courier are required")
	ErrNoShippingService = errors.New("no shipping service available")
	ErrMissingAPIKey     = errors.New("RAJAONGKIR_API_KEY is not set")
)
