package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avc/libco-orders/internal/config"
	"github.com/avc/libco-orders/internal/logging"
	"github.com/avc/libco-orders/internal/utils/jwt"
	"github.com/avc/libco-orders/internal/worker"
)

const (
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 15 * time.Second
	serverIdleTimeout  = 60 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// App представляет приложение эталонного бэкенда
type App struct {
	config  *config.ServerConfig
	logger  *zap.Logger
	stores  *Stores
	sweeper *worker.Sweeper
	server  *http.Server
}

// NewApp создает приложение: хранилища, стартовый каталог, роутер, сборщик
func NewApp() (*App, error) {
	cfg, err := config.LoadServer()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	stores := NewStores()
	if err := stores.Seed(); err != nil {
		return nil, err
	}
	logger.Info("catalog seeded", zap.Int("books", len(stores.Catalog.List())))

	jwtManager := jwt.NewManager(cfg.JWTSecret, cfg.JWTTokenTTL)
	router := NewRouter(stores, jwtManager, logger)

	sweeperConfig := worker.Config{
		Workers:        cfg.SweepWorkers,
		QueueSize:      cfg.SweepQueueSize,
		ScanInterval:   cfg.SweepInterval,
		ReservationTTL: cfg.ReservationTTL,
	}
	sweeper := worker.NewSweeper(sweeperConfig, stores.Orders, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		stores:  stores,
		sweeper: sweeper,
		server: &http.Server{
			Addr:         cfg.RunAddress,
			Handler:      router,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
			IdleTimeout:  serverIdleTimeout,
		},
	}, nil
}

// Run запускает приложение и ожидает сигнала завершения
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.sweeper.Start(ctx)
	a.logger.Info("reservation sweeper started")

	go func() {
		a.logger.Info("starting HTTP server", zap.String("address", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.shutdown(cancel)
	return nil
}

// shutdown выполняет graceful shutdown приложения
func (a *App) shutdown(cancel context.CancelFunc) {
	a.logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", zap.Error(err))
	}

	cancel()
	a.sweeper.Stop()
	a.logger.Info("reservation sweeper stopped")

	a.logger.Info("server stopped gracefully")
}
