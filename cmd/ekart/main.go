package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/ekartshop/backend/config"
	"github.com/ekartshop/backend/internal/catalog"
	"github.com/ekartshop/backend/internal/events"
	handler "github.com/ekartshop/backend/internal/handler/http"
	"github.com/ekartshop/backend/internal/mail"
	"github.com/ekartshop/backend/internal/metrics"
	"github.com/ekartshop/backend/internal/middleware"
	"github.com/ekartshop/backend/internal/payment"
	"github.com/ekartshop/backend/internal/repository"
	"github.com/ekartshop/backend/internal/repository/postgres"
	"github.com/ekartshop/backend/internal/service"
	"github.com/ekartshop/backend/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// fallback signing key for local runs, override with AUTH_TOKEN_KEY
const authTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

const notificationQueueSize = 64

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	keyHex := cfg.TokenKey
	if keyHex == "" {
		keyHex = authTokenKey
	}
	tokenKey, err := hex.DecodeString(keyHex)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}

	// dependency injection
	// notifications
	mailer := mail.NewMailer(mail.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	}, logger)
	dispatcher := worker.NewDispatcher(mailer, logger, notificationQueueSize)
	go dispatcher.Run(ctx)

	// events
	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	// order
	orderRepo := repository.NewOrderRepository(db)
	verifier := payment.NewDemoVerifier(payment.DemoDelay)
	orderService := service.NewOrderService(orderRepo, catalog.Default(), verifier, dispatcher, publisher, logger)
	orderHandler := handler.NewOrderHandler(orderService)

	// admin auth
	tokenService := service.NewJWTTokenService(tokenKey)
	authService := service.NewAuthService(cfg.AdminPasswordHash, tokenService)
	authHandler := handler.NewAuthHandler(authService)

	srvMetrics := metrics.NewServerMetrics()

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))
	router.Use(srvMetrics.Middleware)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", metrics.Handler())

	router.Post("/api/orders", orderHandler.CreateOrder())
	router.Post("/api/verify-payment", orderHandler.VerifyPayment())
	router.Post("/api/admin/login", authHandler.Login())

	// admin routes, guarded only when admin password is configured
	router.Group(func(group chi.Router) {
		if authService.Enabled() {
			group.Use(middleware.Auth(tokenService))
		}
		group.Get("/api/admin/orders", orderHandler.ListOrders())
	})

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
