package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/mailer"

	"go.uber.org/zap"
)

const (
	minPasswordLength = 6
	resetTokenTTL     = time.Hour
)

var allowedEmailDomains = map[string]bool{
	"gmail.com":   true,
	"yahoo.com":   true,
	"outlook.com": true,
	"hotmail.com": true,
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	VerifyEmail(ctx context.Context, token string) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	Me(ctx context.Context, userID uint) (*User, error)
}

type ServiceConfig struct {
	JWTSecret   string
	FrontendURL string
}

type service struct {
	repo     Repository
	mailer   mailer.Mailer
	cfg      ServiceConfig
	now      func() time.Time
	newToken func() (string, error)
}

func NewService(repo Repository, m mailer.Mailer, cfg ServiceConfig) Service {
	return &service{
		repo:     repo,
		mailer:   m,
		cfg:      cfg,
		now:      time.Now,
		newToken: generateOpaqueToken,
	}
}

// Register creates an unverified account and mails its verification link.
// A mail failure is logged; the account stays registered.
func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if !isAllowedEmail(input.Email) {
		return nil, ErrEmailDomainNotAllowed
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		log.Error("failed to generate verification token", zap.Error(err))
		return nil, err
	}

	u := &User{
		Name:     input.Name,
		Email:    input.Email,
		Password: hashed,
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		u.Phone = &phone
	}

	if err := s.repo.Create(ctx, u, hashToken(token)); err != nil {
		if !errors.Is(err, ErrEmailExists) {
			log.Error("failed to create user", zap.String("email", input.Email), zap.Error(err))
		}
		return nil, err
	}

	if err := s.sendMail(ctx, func() (mailer.Message, error) {
		return verificationEmail(s.cfg.FrontendURL, u, token)
	}); err != nil {
		log.Error("failed to send verification email", zap.Uint("user_id", u.ID), zap.Error(err))
	}

	log.Info("register service completed",
		zap.Uint("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return u, nil
}

func (s *service) VerifyEmail(ctx context.Context, token string) (*User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingVerificationToken
	}

	u, err := s.repo.FindByVerificationToken(ctx, hashToken(token))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidVerificationToken
	}
	if err != nil {
		return nil, err
	}

	switch u.Status {
	case StatusVerified:
		return nil, ErrAlreadyVerified
	case StatusBlocked:
		return nil, ErrAccountBlocked
	}

	if err := s.repo.MarkVerified(ctx, u.ID); err != nil {
		return nil, err
	}

	u.Status = StatusVerified
	logger.FromCtx(ctx).Info("email verified", zap.Uint("user_id", u.ID))
	return u, nil
}

func (s *service) Login(ctx context.Context, email, password string) (string, *User, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("login with unknown email")
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !CheckPasswordHash(password, u.Password) {
		log.Info("password mismatch", zap.Uint("user_id", u.ID))
		return "", nil, ErrInvalidCredentials
	}

	switch u.Status {
	case StatusUnverified:
		return "", nil, ErrEmailNotVerified
	case StatusBlocked:
		return "", nil, ErrAccountBlocked
	}

	token, err := GenerateJWT(s.cfg.JWTSecret, u.ID, u.Role, u.Email)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// ForgotPassword mails a one-hour reset link. Unknown emails succeed
// silently so the endpoint does not reveal which addresses are registered.
func (s *service) ForgotPassword(ctx context.Context, email string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ForgotPassword"),
	)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrMissingEmail
	}

	u, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		log.Info("reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.newToken()
	if err != nil {
		return err
	}

	if err := s.repo.SetResetToken(ctx, u.ID, hashToken(token), s.now().Add(resetTokenTTL)); err != nil {
		log.Error("failed to store reset token", zap.Uint("user_id", u.ID), zap.Error(err))
		return err
	}

	if err := s.sendMail(ctx, func() (mailer.Message, error) {
		return resetPasswordEmail(s.cfg.FrontendURL, u, token)
	}); err != nil {
		log.Error("failed to send reset email", zap.Uint("user_id", u.ID), zap.Error(err))
		return err
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	token := strings.TrimSpace(input.Token)
	if token == "" || input.NewPassword == "" {
		return ErrMissingResetFields
	}
	if len(input.NewPassword) < minPasswordLength {
		return ErrPasswordTooShort
	}

	tokenHash := hashToken(token)
	u, expiresAt, err := s.repo.FindByResetToken(ctx, tokenHash)
	if err != nil {
		return err
	}
	if s.now().After(expiresAt) {
		return ErrResetTokenExpired
	}

	hashed, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.ResetPassword(ctx, u.ID, tokenHash, hashed); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("password reset", zap.Uint("user_id", u.ID))
	return nil
}

func (s *service) Me(ctx context.Context, userID uint) (*User, error) {
	if userID == 0 {
		return nil, ErrUserNotFound
	}
	return s.repo.FindByID(ctx, userID)
}

func (s *service) sendMail(ctx context.Context, build func() (mailer.Message, error)) error {
	msg, err := build()
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

func isAllowedEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return false
	}
	return allowedEmailDomains[email[at+1:]]
}
