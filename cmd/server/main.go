package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/stockroom/stockroom/internal/config"
	"github.com/stockroom/stockroom/internal/events"
	"github.com/stockroom/stockroom/internal/httpserver"
	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/repo"
	"github.com/stockroom/stockroom/internal/search"
	"github.com/stockroom/stockroom/internal/service"
	pkgdb "github.com/stockroom/stockroom/pkg/db"
	"github.com/stockroom/stockroom/pkg/logging"
	loggingmw "github.com/stockroom/stockroom/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Item{}, &models.StockTransaction{}, &models.RefreshToken{}); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	if producer == nil {
		logger.Warn("kafka disabled, no KAFKA_ADDRESS configured")
	}

	searcher, err := search.NewClient(search.Config{
		URL:      cfg.ESURL,
		Username: cfg.ESUser,
		Password: cfg.ESPassword,
		Index:    cfg.ESIndex,
	})
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}
	if searcher == nil {
		logger.Warn("elasticsearch disabled, item search falls back to SQL")
	}

	store := &repo.GormRepo{DB: db, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:      &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: store, Events: producer}},
		InventoryHandler: &httpserver.InventoryHTTP{Svc: &service.InventoryService{Repo: store, Events: producer, Search: searcher}},
		AdminHandler:     &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: store, Events: producer}},
		JWTSecret:        cfg.JWTSecret,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("stockroom listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("shutdown complete")
}
