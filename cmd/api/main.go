package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lmarenco/eventreg/internal/cache"
	"github.com/lmarenco/eventreg/internal/clock"
	"github.com/lmarenco/eventreg/internal/config"
	"github.com/lmarenco/eventreg/internal/db"
	httpx "github.com/lmarenco/eventreg/internal/http"
	"github.com/lmarenco/eventreg/internal/observability"
	"github.com/lmarenco/eventreg/internal/repo/postgres"
)

func main() {
	// .env is optional; real deployments configure through the environment
	_ = godotenv.Load()

	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	if cfg.OTELEndpoint != "" {
		shutdown, err := observability.InitTracer(context.Background(), "eventreg", cfg.OTELEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdown(ctx)
			}()
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	var store cache.Store
	var redisStore *cache.Redis

	if cfg.CacheBackend == "redis" && cfg.RedisAddr != "" {
		redisStore = cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		defer redisStore.Close()
		store = redisStore
	} else {
		store = cache.NewMemory(cfg.CacheTTL)
	}

	registry := prometheus.NewRegistry()
	prom := observability.NewProm(registry)

	eventsRepo := postgres.NewEventsRepo(pool, prom)
	attendeesRepo := postgres.NewAttendeesRepo(pool, prom)

	ping := func() error {
		ctx, cancel := config.WithTimeout(1 * time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return err
		}

		if redisStore != nil {
			return redisStore.Ping(ctx)
		}

		return nil
	}

	router := httpx.NewRouter(httpx.Deps{
		Log:       log,
		Cfg:       cfg,
		Clock:     clock.System{},
		Events:    eventsRepo,
		Attendees: attendeesRepo,
		Cache:     store,
		Prom:      prom,
		Registry:  registry,
		ReadyPing: ping,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "tz", cfg.TimeZone)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
