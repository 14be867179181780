package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Success loading from env", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "testuser")
		t.Setenv("DB_PASSWORD", "testpass")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("DB_PORT", "5433")
		t.Setenv("APP_PORT", "8080")
		t.Setenv("APP_ENV", "test")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("MIDTRANS_SERVER_KEY", "SB-Mid-server-xxx")
		t.Setenv("PAYMENT_TIMEOUT", "5s")
		t.Setenv("CART_CLEAR_MODE", "all")
		t.Setenv("EMAIL_HOST", "smtp.gmail.com")
		t.Setenv("EMAIL_PORT", "465")

		cfg := LoadConfig()

		assert.NotNil(t, cfg)
		assert.Equal(t, "localhost", cfg.DBHost)
		assert.Equal(t, "testuser", cfg.DBUser)
		assert.Equal(t, "testpass", cfg.DBPassword)
		assert.Equal(t, "testdb", cfg.DBName)
		assert.Equal(t, "5433", cfg.DBPort)
		assert.Equal(t, "8080", cfg.AppPort)
		assert.Equal(t, "test", cfg.AppEnv)
		assert.Equal(t, "SB-Mid-server-xxx", cfg.MidtransServerKey)
		assert.Equal(t, 5*time.Second, cfg.PaymentTimeout)
		assert.Equal(t, CartClearAll, cfg.CartClearMode)
		assert.Equal(t, "smtp.gmail.com", cfg.EmailHost)
		assert.Equal(t, 465, cfg.EmailPort)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_NAME", "testdb")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("MIDTRANS_SERVER_KEY", "key")

		cfg := fromViper(newViper())

		assert.Equal(t, "5000", cfg.AppPort)
		assert.Equal(t, 25, cfg.DBMaxOpenConns)
		assert.True(t, cfg.MidtransVerifySignature)
		assert.False(t, cfg.MidtransIsProduction)
		assert.Equal(t, 15*time.Second, cfg.PaymentTimeout)
		assert.Equal(t, 10*time.Second, cfg.ShippingTimeout)
		assert.Equal(t, 24*time.Hour, cfg.ShippingCacheTTL)
		assert.Equal(t, CartClearPurchased, cfg.CartClearMode)
		assert.Equal(t, 587, cfg.EmailPort)
		assert.Empty(t, cfg.EmailHost)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			DBHost:                  "localhost",
			DBName:                  "db",
			JWTSecret:               "secret",
			MidtransServerKey:       "key",
			MidtransVerifySignature: true,
			CartClearMode:           CartClearPurchased,
		}
	}

	assert.NoError(t, valid().validate())

	t.Run("MissingDB", func(t *testing.T) {
		c := valid()
		c.DBHost = ""
		assert.Error(t, c.validate())
	})

	t.Run("MissingJWTSecret", func(t *testing.T) {
		c := valid()
		c.JWTSecret = ""
		assert.Error(t, c.validate())
	})

	t.Run("BadCartClearMode", func(t *testing.T) {
		c := valid()
		c.CartClearMode = "some"
		assert.Error(t, c.validate())
	})

	t.Run("TrustedNetworkWithoutKey", func(t *testing.T) {
		c := valid()
		c.MidtransServerKey = ""
		assert.Error(t, c.validate())

		c.MidtransVerifySignature = false
		assert.NoError(t, c.validate())
	})
}
