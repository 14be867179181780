package user

import "errors"

var (
	ErrMissingFields         = errors.New("name, email and password are required")
	ErrMissingCredentials    = errors.New("email and password are required")
	ErrEmailDomainNotAllowed = errors.New("email must use @gmail.com, @yahoo.com, @outlook.com or @hotmail.com")
	ErrPasswordTooShort      = errors.New("password must be at least 6 characters")
	ErrEmailExists           = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrAccountBlocked        = errors.New("account has been blocked")
	ErrEmailNotVerified      = errors.New("account is not verified, please check your email")
	ErrUserNotFound          = errors.New("user not found")

	ErrMissingVerificationToken = errors.New("verification token is required")
	ErrInvalidVerificationToken = errors.New("verification token is invalid or already used")
	ErrAlreadyVerified          = errors.New("email is already verified")
	ErrMissingEmail             = errors.New("email is required")
	ErrMissingResetFields       = errors.New("token and new password are required")
	ErrInvalidResetToken        = errors.New("reset token is invalid or already used")
	ErrResetTokenExpired        = errors.New("reset token has expired, please request a new one")

	PgUniqueViolation = "23505"
)
