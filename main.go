package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cart-recovery-service/config"
	"cart-recovery-service/controllers"
	"cart-recovery-service/database"
	"cart-recovery-service/dispatch"
	"cart-recovery-service/metrics"
	"cart-recovery-service/repository"
	"cart-recovery-service/routes"
	"cart-recovery-service/sender"
	"cart-recovery-service/services"
	"cart-recovery-service/source"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	// Database
	if err := database.Connect(logger); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// CloudWatch (non-fatal)
	metricsClient, err := metrics.NewClient(context.Background())
	if err != nil {
		logger.Warn("CloudWatch metrics client init failed (non-fatal)", zap.Error(err))
	}

	// External collaborators
	checkoutSource, err := source.NewShopifySource(cfg.ShopDomain, cfg.ShopifyToken, cfg.ShopifyAPIVer)
	if err != nil {
		logger.Fatal("Failed to init Shopify source", zap.Error(err))
	}
	smsSender, err := sender.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	if err != nil {
		logger.Fatal("Failed to init Twilio sender", zap.Error(err))
	}

	// Dependency injection
	sendEventRepo := repository.NewSendEventRepository(database.DB)
	dispatcher := dispatch.NewDispatcher(smsSender, sendEventRepo, metricsClient, logger)
	recoveryService := services.NewRecoveryService(checkoutSource, sendEventRepo, dispatcher, logger)
	recoveryController := controllers.NewRecoveryController(recoveryService, logger)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())

	// CloudWatch middleware
	r.Use(func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		dur := time.Since(start)
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			dims := map[string]string{
				"Service": "cart-recovery-service",
				"Method":  c.Request.Method,
				"Path":    c.Request.URL.Path,
			}
			_ = metricsClient.RecordCount(mctx, metrics.MetricHTTPRequests, dims)
			_ = metricsClient.RecordLatency(mctx, metrics.MetricHTTPLatency, dur, dims)
			if c.Writer.Status() >= 400 {
				_ = metricsClient.RecordCount(mctx, metrics.MetricHTTPErrors, dims)
			}
		}()
	})

	// Request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	// Request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.RegisterRoutes(r, recoveryController)

	// HTTP server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("Cart recovery service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("Cart recovery service stopped gracefully")
}
