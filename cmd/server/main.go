package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/shopit/internal/config"
	"github.com/Skotchmaster/shopit/internal/db"
	"github.com/Skotchmaster/shopit/internal/events"
	"github.com/Skotchmaster/shopit/internal/hash"
	"github.com/Skotchmaster/shopit/internal/httpserver"
	"github.com/Skotchmaster/shopit/internal/logging"
	"github.com/Skotchmaster/shopit/internal/mailer"
	authmw "github.com/Skotchmaster/shopit/internal/middleware/auth"
	"github.com/Skotchmaster/shopit/internal/search"
	"github.com/Skotchmaster/shopit/internal/service"
	"github.com/Skotchmaster/shopit/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	store, err := db.OpenStore(initCtx, cfg)
	if err != nil {
		cancel()
		log.Fatalf("store init error: %v", err)
	}

	var index search.Index
	if cfg.ESURL != "" {
		es, err := search.New(initCtx, search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_disabled", "reason", "elasticsearch unavailable", "error", err)
		} else {
			index = es
		}
	}
	cancel()

	hasher, err := hash.New(cfg.PasswordHasher, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hasher: %v", err)
	}
	issuer, err := tokens.NewIssuer(cfg.JWTSecret, cfg.JWTExpiresTime)
	if err != nil {
		log.Fatalf("token issuer: %v", err)
	}

	var mail mailer.Sender = mailer.Disabled{}
	if m, err := mailer.New(cfg.SMTP); err == nil {
		mail = m
	} else {
		logger.Warn("mail_disabled", "reason", err.Error())
	}

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
	}

	authSvc := service.NewAuthService(store, hasher, issuer, mail, pub, service.AuthConfig{
		ResetTokenTTL: cfg.ResetTokenTTL,
		FrontendURL:   cfg.FrontendURL,
	})

	e := httpserver.New(httpserver.Options{
		Logger:       logger,
		Dev:          cfg.IsDevelopment(),
		CORSOrigins:  cfg.CORSOrigins,
		CSRF:         cfg.CSRFEnabled,
		CookieSecure: cfg.CookieSecure,
	}, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc:          authSvc,
			CookieTTL:    cfg.CookieExpiresTime,
			CookieSecure: cfg.CookieSecure,
		},
		Users:             &httpserver.UsersHTTP{Svc: service.NewUserAdminService(store, pub)},
		Products:          &httpserver.ProductsHTTP{Svc: service.NewProductService(store, index, pub, cfg.ProductsPerPage)},
		Orders:            &httpserver.OrdersHTTP{Svc: service.NewOrderService(store, store, store, pub)},
		Health:            &httpserver.HealthHTTP{Store: store},
		Gate:              authmw.NewGate(issuer, store),
		AuthRatePerMinute: cfg.AuthRatePerMinute,
	})

	go func() {
		logger.Info("server_started", "addr", cfg.Addr(), "environment", cfg.Environment, "storage", cfg.StorageDriver)
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := store.Close(ctx); err != nil {
		logger.Error("store_close_failed", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}

	logger.Info("shutdown complete")
}
