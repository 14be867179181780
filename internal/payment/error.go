package payment

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid notification signature")
	ErrMissingServerKey = errors.New("midtrans server key is not configured")
	ErrEmptyToken       = errors.New("midtrans returned an empty snap token")
)
