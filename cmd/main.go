package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"todo-api/internal/cache"
	"todo-api/internal/config"
	"todo-api/internal/controller"
	"todo-api/internal/database"
	"todo-api/internal/queue"
	"todo-api/internal/repository"
	"todo-api/internal/routes"
	"todo-api/internal/store"
	"todo-api/internal/store/memory"
	"todo-api/internal/todo"
	"todo-api/internal/worker"
	"todo-api/pkg/logger"
)

func main() {
	// .env never overrides variables already set in the environment
	_ = godotenv.Load(".env")

	cfg := config.Get()
	logger.SetDefault(logger.New(os.Stdout, cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	base, ping, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error(ctx, "Store not available; exiting", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1)
	}

	var items store.Store = base
	if cfg.CacheEnabled() {
		client, err := cache.NewClient(ctx, cfg)
		if err != nil {
			logger.Warn(ctx, "List cache disabled", "error", err)
		} else {
			defer client.Close()
			cached := cache.Wrap(base, client, time.Duration(cfg.CacheTTL)*time.Second)
			items = cached
			go worker.Run(ctx, cfg, cached)
		}
	}

	opts := []todo.Option{todo.WithTimeout(cfg.StoreTimeout)}
	if cfg.EventsEnabled() {
		queue.EnsureTopic(ctx, cfg)
		producer := queue.NewProducer(ctx, cfg)
		defer producer.Close()
		opts = append(opts, todo.WithPublisher(producer))
	}
	svc := todo.NewService(items, opts...)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      routes.Router(controller.NewItems(svc, ping)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		logger.Info(ctx, "HTTP server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Server shutdown error", "error", err)
	}
	logger.Info(shutdownCtx, "Server stopped")
}

// openStore builds the configured item store and its readiness probe.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, controller.PingFunc, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn(ctx, "Using in-memory store; items are lost on restart")
		return memory.New(), nil, nil
	case config.DriverPostgres:
		db, err := database.Open(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, db, cfg.TodosTable); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repository.NewItems(db, cfg.TodosTable), db.PingContext, nil
	default:
		return nil, nil, errors.New("unknown STORE_DRIVER " + cfg.StoreDriver)
	}
}
