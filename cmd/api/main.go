package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farm-contact-api/config"
	_ "farm-contact-api/docs" // Important for Swagger
	v1 "farm-contact-api/internal/delivery/http/v1"
	"farm-contact-api/internal/usecase"
	"farm-contact-api/pkg/email"
	"farm-contact-api/pkg/logger"
	"farm-contact-api/pkg/security"
	"farm-contact-api/pkg/validation"

	"github.com/gin-gonic/gin"
)

// @title           Contact Relay API
// @version         1.0
// @description     Receives website contact form submissions and forwards them by email.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting contact relay", "port", cfg.Port, "mail_provider", cfg.MailProvider, "cors_mode", cfg.CORSMode)

	secLog := security.InitSecurityLogger(cfg.ServiceName, security.Environment(cfg.GinMode))
	defer func() { _ = secLog.Sync() }()

	// 3. Setup Email Sender
	sender, err := newSender(cfg)
	if err != nil {
		logger.Log.Error("Failed to create mail sender", "error", err)
		os.Exit(1)
	}
	if !sender.IsConfigured() || cfg.ContactEmail == "" {
		logger.Log.Warn("Email service not fully configured - contact form will answer with a configuration error")
	}

	// 4. Setup UseCase
	contactUC := usecase.NewContactUsecase(sender, validation.New(), secLog, usecase.ContactConfig{
		ContactEmail: cfg.ContactEmail,
		FromEmail:    cfg.MailFromEmail,
		FromName:     cfg.MailFromName,
	})

	// 5. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:      contactUC,
		HealthUC:       usecase.NewHealthUsecase(sender, cfg.ContactEmail),
		OriginPolicy:   v1.NewOriginPolicy(cfg),
		SecurityLogger: secLog,
		Config:         cfg,
	})

	// 6. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Outbound mail call plus headroom
		WriteTimeout: cfg.MailTimeout + 10*time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

func newSender(cfg *config.Config) (email.Sender, error) {
	if cfg.MailProvider == config.MailProviderResend {
		sender, err := email.NewResendSender(cfg.ResendAPIKey, cfg.ResendBaseURL, cfg.MailTimeout)
		if err != nil {
			return nil, err
		}
		return sender, nil
	}
	return email.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridBaseURL, cfg.MailTimeout), nil
}
