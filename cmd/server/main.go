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

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dharmasatrya/skyfare/internal/cache"
	"github.com/dharmasatrya/skyfare/internal/config"
	"github.com/dharmasatrya/skyfare/internal/handler"
	"github.com/dharmasatrya/skyfare/internal/metrics"
	"github.com/dharmasatrya/skyfare/internal/providers/amadeus"
	"github.com/dharmasatrya/skyfare/internal/ratelimit"
	"github.com/dharmasatrya/skyfare/internal/search"
	"github.com/dharmasatrya/skyfare/internal/session"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := setupLogger(cfg.Log.Level)
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	limiter := ratelimit.NewEndpointLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.Amadeus.RPS,
		BurstSize:         cfg.Amadeus.Burst,
	})

	credentials := amadeus.NewCredentialProvider(amadeus.CredentialConfig{
		BaseURL:      cfg.Amadeus.BaseURL,
		ClientID:     cfg.Amadeus.ClientID,
		ClientSecret: cfg.Amadeus.ClientSecret,
		HTTPClient:   &http.Client{Timeout: cfg.Amadeus.Timeout},
	}, limiter, m, log)
	defer credentials.Close()

	client := amadeus.NewClient(amadeus.Config{
		BaseURL:    cfg.Amadeus.BaseURL,
		Currency:   cfg.Amadeus.Currency,
		MaxResults: cfg.Amadeus.MaxResults,
		Adults:     cfg.Amadeus.Adults,
		Timeout:    cfg.Amadeus.Timeout,
	}, credentials, limiter, m, log)

	offerCache, err := newCache(ctx, cfg.Cache, log)
	if err != nil {
		return err
	}
	defer offerCache.Close()

	provider := cache.NewCachedProvider(client, offerCache, m, log)

	store := session.NewStore(provider, search.Config{
		Debounce:     cfg.Search.Debounce,
		FetchTimeout: cfg.Search.FetchTimeout,
		ChartLimit:   cfg.Search.ChartLimit,
	}, cfg.Search.SessionTTL, m, log)
	defer store.Close()

	e := newEcho(log)
	e.GET("/health", handler.HealthHandler)
	e.GET("/metrics", handler.MetricsHandler(reg))

	api := e.Group("/api/v1")
	api.GET("/airports", handler.AirportsHandler)
	api.POST("/flights/search", handler.NewSearchHandler(provider, cfg.Search.ChartLimit, log).Search)
	handler.NewSessionHandler(store).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      e,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("skyfare starting", zap.String("http_addr", server.Addr), zap.String("env", cfg.Env))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}

func newCache(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (cache.Cache, error) {
	if !cfg.Enabled {
		log.Info("offer cache disabled")
		return cache.NewNoOpCache(), nil
	}

	if cfg.Backend == config.CacheBackendRedis {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		log.Info("redis offer cache enabled", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.TTL))
		return redisCache, nil
	}

	log.Info("memory offer cache enabled", zap.Duration("ttl", cfg.TTL))
	return cache.NewMemoryCache(cfg.TTL), nil
}

func newEcho(log *zap.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				log.Warn("http request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("http request", fields...)
			return nil
		},
	}))

	return e
}

func setupLogger(level string) *zap.Logger {
	zapLevel := parseLogLevel(level)
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}

	return log
}

func parseLogLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
