package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/config"
	"github.com/Skotchmaster/altazaj/internal/db"
	"github.com/Skotchmaster/altazaj/internal/events"
	"github.com/Skotchmaster/altazaj/internal/httpserver"
	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/altazaj/internal/middleware/logging"
	"github.com/Skotchmaster/altazaj/internal/repo"
	"github.com/Skotchmaster/altazaj/internal/search"
	"github.com/Skotchmaster/altazaj/internal/service"
	"github.com/Skotchmaster/altazaj/internal/stream"
)

type publisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	var pub publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopicOrders, cfg.KafkaTopicMenu)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	store := repo.New(gdb)
	hub := stream.NewHub()

	menuSvc := &service.MenuService{Store: store, Events: pub}
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_disabled", "reason", "cannot reach elasticsearch", "error", err)
		} else {
			menuSvc.Index = &search.ESIndex{ES: es, Name: cfg.ESIndex}
			logger.Info("search_enabled", "index", cfg.ESIndex)
		}
	}

	orderSvc := &service.OrderService{Store: store, Events: pub, Notifier: hub, Pricing: cfg.PricingMode}
	authSvc := &auth.Service{
		Secret:       []byte(cfg.JWTSecret),
		Username:     cfg.AdminUsername,
		PasswordHash: cfg.AdminPasswordHash,
		SecureCookie: cfg.CookieSecure,
	}
	if !authSvc.Enabled() {
		logger.Warn("admin_auth_disabled", "reason", "JWT_SECRET is not set")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("2M"))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	deps := &httpserver.Deps{
		MenuHandler:  &httpserver.MenuHTTP{Svc: menuSvc},
		OrderHandler: &httpserver.OrderHTTP{Svc: orderSvc, Hub: hub},
		AuthHandler:  &httpserver.AuthHTTP{Svc: authSvc},
		Auth:         authSvc,
		Ready:        func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
	if authSvc.Enabled() {
		deps.CSRF = csrf.Middleware(csrf.Config{
			Skipper:           csrf.CookieAuthOnly(auth.AccessCookie),
			Secure:            cfg.CookieSecure,
			EnforceSameOrigin: true,
		})
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "pricing", cfg.PricingMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	hub.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_error", "error", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka_close_error", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("server_stopped")
}
