package main

import (
	"context"
	"log"
	"net/http"

	"lexpay/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"lexpay/internal/auth"
	"lexpay/internal/cache"
	"lexpay/internal/config"
	"lexpay/internal/db"
	"lexpay/internal/gateway"
	"lexpay/internal/handler"
	"lexpay/internal/ledger"
	"lexpay/internal/model"
	"lexpay/internal/repository"
	"lexpay/internal/router"
	"lexpay/internal/service"
)

// @title LexPay API
// @version 1.0
// @description Contract payment processing with a ledger-anchored audit trail.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Contract{},
		&model.PaymentOrder{},
		&model.AuditRecord{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	contractRepo := repository.NewContractRepository(gormDB)
	orderRepo := repository.NewPaymentOrderRepository(gormDB)
	auditRepo := repository.NewAuditRecordRepository(gormDB)

	// Initialize external clients
	gatewayClient := gateway.NewRazorpay(cfg.Gateway.KeyID, cfg.Gateway.KeySecret)
	var ledgerClient ledger.Client
	if cfg.Ledger.Enabled {
		ledgerClient, err = ledger.NewPolygon(cfg.Ledger)
		if err != nil {
			log.Fatalf("ledger init: %v", err)
		}
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	auditService := service.NewAuditService(auditRepo, ledgerClient, cacheClient, cfg.Ledger)
	defer auditService.Close()
	contractService := service.NewContractService(contractRepo, auditService, cacheClient)
	captureVerifier := service.NewSignatureVerifier(cfg.Gateway.KeySecret)
	webhookVerifier := service.NewSignatureVerifier(cfg.Gateway.WebhookSecret)
	paymentService := service.NewPaymentService(orderRepo, contractRepo, contractService, gatewayClient, auditService, captureVerifier)

	// The sweeper re-drives failed ledger submissions on a fixed interval.
	if cfg.Ledger.Enabled {
		go auditService.RunSweeper(context.Background())
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	contractHandler := handler.NewContractHandler(contractService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	webhookHandler := handler.NewWebhookHandler(paymentService, webhookVerifier)
	auditHandler := handler.NewAuditHandler(auditService)

	// Register routes
	router.Register(
		e,
		cfg,
		authHandler,
		contractHandler,
		paymentHandler,
		webhookHandler,
		auditHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
