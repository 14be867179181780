package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"umkm-store-be/internal/cart"
	"umkm-store-be/internal/config"
	"umkm-store-be/internal/db"
	"umkm-store-be/internal/logger"
	"umkm-store-be/internal/mailer"
	"umkm-store-be/internal/metrics"
	"umkm-store-be/internal/middleware"
	"umkm-store-be/internal/order"
	"umkm-store-be/internal/payment"
	"umkm-store-be/internal/payment/webhook"
	"umkm-store-be/internal/product"
	"umkm-store-be/internal/shipping"
	"umkm-store-be/internal/user"
	"umkm-store-be/internal/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	decimal.MarshalJSONWithoutQuotes = true

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newServer(ctx, cfg, database),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.L().Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type handlers struct {
	user     *user.Handler
	product  *product.Handler
	cart     *cart.Handler
	order    *order.Handler
	shipping *shipping.Handler
	webhook  http.HandlerFunc
	metrics  http.HandlerFunc
}

// newServer wires repositories, gateways and services into the router.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	reg := metrics.NewRegistry()

	productRepo := product.NewRepository(database)
	userRepo := user.NewRepository(database)
	cartRepo := cart.NewRepository(database)
	orderRepo := order.NewRepository(database)
	paymentRepo := payment.NewRepository(database)

	paymentGateway := payment.NewMidtransGateway(payment.MidtransConfig{
		ServerKey:       cfg.MidtransServerKey,
		IsProduction:    cfg.MidtransIsProduction,
		VerifySignature: cfg.MidtransVerifySignature,
		FrontendURL:     cfg.FrontendURL,
		Timeout:         cfg.PaymentTimeout,
	})
	shippingGateway := shipping.NewRajaOngkirGateway(shipping.RajaOngkirConfig{
		APIKey:  cfg.RajaOngkirAPIKey,
		Timeout: cfg.ShippingTimeout,
	})

	shippingCache := shipping.NewNopCache()
	if cfg.RedisAddr != "" {
		client := shipping.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		shippingCache = shipping.NewRedisCache(client, cfg.ShippingCacheTTL)
	}

	orderSvc := order.NewService(orderRepo, productRepo, userRepo, cartRepo, paymentGateway, reg, order.Options{
		CartClearMode:  cfg.CartClearMode,
		PaymentTimeout: cfg.PaymentTimeout,
	})

	userSvc := user.NewService(userRepo, newMailer(cfg), user.ServiceConfig{
		JWTSecret:   cfg.JWTSecret,
		FrontendURL: cfg.FrontendURL,
	})

	return setupRouter(ctx, cfg, reg, handlers{
		user:     user.NewHandler(userSvc),
		product:  product.NewHandler(product.NewService(productRepo)),
		cart:     cart.NewHandler(cart.NewService(cartRepo, productRepo)),
		order:    order.NewHandler(orderSvc),
		shipping: shipping.NewHandler(shipping.NewService(shippingGateway, shippingCache, reg)),
		webhook:  webhook.NewWebhookHandler(orderSvc, paymentGateway, paymentRepo, reg).NotificationHandler,
		metrics:  metrics.Handler(reg, cfg.InternalSecretKey),
	})
}

// newMailer sends through SMTP when EMAIL_HOST is set and only logs otherwise.
func newMailer(cfg *config.Config) mailer.Mailer {
	if cfg.EmailHost == "" {
		logger.L().Warn("EMAIL_HOST is empty, account emails will only be logged")
		return mailer.NewLogMailer()
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:     cfg.EmailHost,
		Port:     cfg.EmailPort,
		Username: cfg.EmailUser,
		Password: cfg.EmailPassword,
		From:     cfg.EmailFrom,
		FromName: "UMKM Clothing",
	})
}

func setupRouter(ctx context.Context, cfg *config.Config, reg *metrics.Registry, h handlers) http.Handler {
	limiter := middleware.NewRateLimiter(ctx, reg, cfg.InternalSecretKey,
		"/api/auth/login",
		"/api/auth/register",
		"/api/auth/forgot-password",
		"/api/auth/reset-password",
		"/api/payment/notification",
	)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.FrontendURL))
	r.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	r.Use(limiter.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, utils.Response{Success: true, Message: "OK"})
	})
	r.Get("/internal/metrics", h.metrics)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", h.user.Routes(middleware.RequireAuth))
		r.Route("/products", h.product.Routes)
		r.Route("/shipping", h.shipping.Routes)

		r.Route("/cart", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			h.cart.Routes(r)
		})

		r.Route("/payment", func(r chi.Router) {
			r.Post("/notification", h.webhook)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				h.order.Routes(r)
			})
		})
	})

	return r
}
