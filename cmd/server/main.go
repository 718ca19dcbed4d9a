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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/utility-ordering-client/internal/config"
	"github.com/iliyamo/utility-ordering-client/internal/gateway"
	"github.com/iliyamo/utility-ordering-client/internal/handler"
	"github.com/iliyamo/utility-ordering-client/internal/logger"
	"github.com/iliyamo/utility-ordering-client/internal/metrics"
	"github.com/iliyamo/utility-ordering-client/internal/middleware"
	"github.com/iliyamo/utility-ordering-client/internal/queue"
	"github.com/iliyamo/utility-ordering-client/internal/router"
	"github.com/iliyamo/utility-ordering-client/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warnw("redis unavailable, catalog cache off and rate limiting in-process", "addr", cfg.Redis.Addr)
	} else {
		defer func() { _ = rdb.Close() }()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	if err := metrics.Register(reg); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	factory := workspace.Factory{
		Gateway: gateway.Config{
			BaseURL:        cfg.APIBaseURL,
			Timeout:        cfg.APITimeout,
			Cache:          gateway.NewRedisCache(cfg.Cache, rdb),
			CachePrefix:    cfg.Cache.Prefix,
			CacheEndpoints: cfg.Cache.Endpoints,
		},
		Notify:       cfg.Notify,
		SingleFlight: cfg.CheckoutSingleFlight,
		Log:          log,
	}
	if cfg.Queue.Enabled {
		factory.Publisher = queue.NewAMQPPublisher(cfg.Queue.URL, log)
	}
	if cfg.Queue.Consumer {
		consumer := queue.NewConsumer(cfg.Queue.URL, cfg.Queue.LogDir, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Errorw("order consumer stopped", "error", err)
			}
		}()
	}

	spaces := workspace.NewRegistry(factory, cfg.VisitorTTL)
	go spaces.Run(ctx, time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))

	h := handler.New(spaces, log)
	router.RegisterRoutes(e, h, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	router.RegisterAPI(e, h,
		middleware.Visitor(cfg.VisitorSecret, cfg.VisitorTTL, cfg.Env == "prod", log),
		middleware.NewTokenBucket(cfg.RateLimit, rdb, log))

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", addr, "env", cfg.Env, "api", cfg.APIBaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Infow("shutting down")
	return e.Shutdown(shutdownCtx)
}

