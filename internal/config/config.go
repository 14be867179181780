package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cart clearing modes applied after a successful checkout.
const (
	CartClearPurchased = "purchased"
	CartClearAll       = "all"
)

type Config struct {
	AppEnv  string
	AppPort string

	DBHost         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPort         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	JWTSecret         string
	FrontendURL       string
	InternalSecretKey string

	MidtransServerKey       string
	MidtransIsProduction    bool
	MidtransVerifySignature bool
	PaymentTimeout          time.Duration

	RajaOngkirAPIKey string
	ShippingTimeout  time.Duration
	ShippingCacheTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CartClearMode string

	EmailHost     string
	EmailPort     int
	EmailUser     string
	EmailPassword string
	EmailFrom     string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := fromViper(newViper())
	if err := cfg.validate(); err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}

	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "5000")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("MIDTRANS_IS_PRODUCTION", false)
	v.SetDefault("MIDTRANS_VERIFY_SIGNATURE", true)
	v.SetDefault("PAYMENT_TIMEOUT", "15s")
	v.SetDefault("SHIPPING_TIMEOUT", "10s")
	v.SetDefault("SHIPPING_CACHE_TTL", "24h")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CART_CLEAR_MODE", CartClearPurchased)
	v.SetDefault("EMAIL_PORT", 587)
	v.SetDefault("EMAIL_FROM", "no-reply@umkm-clothing.id")

	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppEnv:  v.GetString("APP_ENV"),
		AppPort: v.GetString("APP_PORT"),

		DBHost:         v.GetString("DB_HOST"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBPort:         v.GetString("DB_PORT"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),

		JWTSecret:         v.GetString("JWT_SECRET"),
		FrontendURL:       v.GetString("FRONTEND_URL"),
		InternalSecretKey: v.GetString("INTERNAL_SECRET_KEY"),

		MidtransServerKey:       v.GetString("MIDTRANS_SERVER_KEY"),
		MidtransIsProduction:    v.GetBool("MIDTRANS_IS_PRODUCTION"),
		MidtransVerifySignature: v.GetBool("MIDTRANS_VERIFY_SIGNATURE"),
		PaymentTimeout:          v.GetDuration("PAYMENT_TIMEOUT"),

		RajaOngkirAPIKey: v.GetString("RAJAONGKIR_API_KEY"),
		ShippingTimeout:  v.GetDuration("SHIPPING_TIMEOUT"),
		ShippingCacheTTL: v.GetDuration("SHIPPING_CACHE_TTL"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		CartClearMode: v.GetString("CART_CLEAR_MODE"),

		EmailHost:     v.GetString("EMAIL_HOST"),
		EmailPort:     v.GetInt("EMAIL_PORT"),
		EmailUser:     v.GetString("EMAIL_USER"),
		EmailPassword: v.GetString("EMAIL_PASSWORD"),
		EmailFrom:     v.GetString("EMAIL_FROM"),
	}
}

func (c *Config) validate() error {
	if c.DBHost == "" || c.DBName == "" {
		return errors.New("DB_HOST and DB_NAME are required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.CartClearMode != CartClearPurchased && c.CartClearMode != CartClearAll {
		return errors.New("CART_CLEAR_MODE must be 'purchased' or 'all'")
	}
	if c.MidtransVerifySignature && c.MidtransServerKey == "" {
		return errors.New("MIDTRANS_SERVER_KEY is required when signature verification is enabled")
	}
	return nil
}
