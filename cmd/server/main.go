package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cognitoidp/internal/adapter"
	"cognitoidp/internal/auth"
	"cognitoidp/internal/cognito"
	"cognitoidp/internal/config"
	"cognitoidp/internal/httpapi"
	"cognitoidp/internal/metrics"
	"cognitoidp/internal/service"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()

	if err := config.LoadDotEnv(".env.local", ".env"); err != nil {
		logger.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	clients := cognito.NewClientFactory(cfg.Cognito)
	defer clients.Destroy()

	opts := service.Options{
		Cognito:   cfg.Cognito,
		Clients:   clients,
		Logger:    logger,
		Metrics:   m,
		MFAIssuer: cfg.MFAIssuer,
	}
	provider := adapter.New(service.NewUserService(opts), service.NewAdminService(opts), logger)

	authn := auth.NewAuthenticator(cfg.AdminToken, cfg.AdminTokenBcrypt)
	api := httpapi.New(cfg, provider, authn, m, logger)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      api.NewEcho(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr":      cfg.ListenAddr,
			"region":    cfg.Cognito.Region,
			"user_pool": cfg.Cognito.UserPoolID,
		}).Info("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if err := run(ctx, server, serveErr); err != nil {
		logger.Error(err)
		clients.Destroy()
		os.Exit(1)
	}
}

// run blocks until the server fails or ctx ends, then shuts it down.
func run(ctx context.Context, server *http.Server, serveErr <-chan error) error {
	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
