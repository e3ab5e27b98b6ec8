package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"rhai/internal/config"
	"rhai/internal/fallback"
	"rhai/internal/logger"
	"rhai/internal/metrics"
	"rhai/internal/provider"
	_ "rhai/internal/provider/claude"
	_ "rhai/internal/provider/gemini"
	_ "rhai/internal/provider/openai"
	"rhai/internal/router"
	"rhai/internal/service"
)

func main() {
	if err := run(); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run() error {
	// A missing .env is normal in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	gen, err := provider.NewProvider(&cfg.Provider)
	if err != nil {
		return fmt.Errorf("failed to initialize generation provider (registered: %s): %w",
			strings.Join(provider.Registered(), ", "), err)
	}

	templates, err := fallback.Load()
	if err != nil {
		return fmt.Errorf("failed to load fallback templates: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New()
	m.Register(reg)

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("redis unreachable at %s, rate limiting fails open: %v", cfg.Redis.Addr, err)
		}
	}

	relaySvc := service.NewRelayService(gen, templates, cfg.Relay.FallbackPolicy, service.WithMetrics(m))

	r := router.Setup(cfg, router.Deps{
		RelayService: relaySvc,
		Metrics:      m,
		Gatherer:     reg,
		Redis:        rdb,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Infof("RHAI relay starting on %s", cfg.Server.Port)
	logger.Infof("environment: %s", cfg.Server.Environment)
	logger.Infof("provider: %s, API key configured: %s", gen.Name(), yesNo(cfg.Provider.APIKey != ""))
	logger.Infof("fallback policy: %s", cfg.Relay.FallbackPolicy)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-stop:
	}

	logger.Infof("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Infof("server stopped")
	return nil
}

func yesNo(b bool) string {
	if b {
		return "oui"
	}
	return "non"
}
