package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"umkm-store-be/internal/logger"

	"go.uber.org/zap"
)

var (
	ErrMissingRecipient = errors.New("mailer: recipient is required")
	ErrInvalidHeader    = errors.New("mailer: header contains a line break")
)

// Message is a single HTML email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type smtpMailer struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

func NewSMTPMailer(cfg SMTPConfig) Mailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &smtpMailer{cfg: cfg, send: smtp.SendMail, now: time.Now}
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "mailer"),
		zap.String("method", "Send"),
	)

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return ErrMissingRecipient
	}

	raw, err := m.build(msg)
	if err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	if err := m.send(addr, auth, m.cfg.From, []string{msg.To}, raw); err != nil {
		log.Error("smtp send failed", zap.String("to", msg.To), zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}

	log.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (m *smtpMailer) build(msg Message) ([]byte, error) {
	for _, v := range []string{msg.To, msg.Subject, m.cfg.From, m.cfg.FromName} {
		if strings.ContainsAny(v, "\r\n") {
			return nil, ErrInvalidHeader
		}
	}

	from := mail.Address{Name: m.cfg.FromName, Address: m.cfg.From}

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from.String())
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", m.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	return b.Bytes(), nil
}

type logMailer struct{}

// NewLogMailer returns a Mailer that only logs what it would send. It is
// used when no SMTP host is configured.
func NewLogMailer() Mailer {
	return logMailer{}
}

func (logMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return ErrMissingRecipient
	}
	logger.FromCtx(ctx).Info("email not sent, no smtp host configured",
		zap.String("layer", "mailer"),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.HTML),
	)
	return nil
}
