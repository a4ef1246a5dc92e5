package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"pedidosapi/pkg/api"
	"pedidosapi/pkg/catalog"
	"pedidosapi/pkg/config"
	"pedidosapi/pkg/idempotency"
	"pedidosapi/pkg/logger"
	"pedidosapi/pkg/order/memory"
	"pedidosapi/pkg/otel"
)

// @title Pedidos API
// @version 1.0
// @description Food catalog and in-memory order management
// @host localhost:3000
// @BasePath /
func main() {
	configPath := flag.String("config", os.Getenv("PEDIDOS_CONFIG"), "optional YAML config file")
	flag.Parse()

	boot := logger.New(os.Stdout, logger.LevelInfo, "pedidos-api", otel.GetTraceID)
	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}
	level, err := logger.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		boot.Error(context.Background(), "parse log level", "error", err)
		os.Exit(1)
	}
	log := logger.New(os.Stdout, level, cfg.App.Name, otel.GetTraceID)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := otel.InitTracing(log, otel.Config{
		ServiceName: cfg.App.Name,
		Host:        cfg.Otel.Host,
		Probability: cfg.Otel.Probability,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn(context.Background(), "shutdown tracing", "error", err)
		}
	}()

	var idem idempotency.Store = idempotency.NewMemory(cfg.Idempotency.TTL)
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
		idem = idempotency.NewRedis(rdb, cfg.Idempotency.TTL)
		log.Info(ctx, "idempotency keys stored in redis", "addr", cfg.Redis.Addr)
	}

	h := api.NewHandler(catalog.Default(), memory.New(), idem, log)
	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      api.NewRouter(h, tp.Tracer(cfg.App.Name), log),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.App.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
