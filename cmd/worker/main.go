// Command worker runs the provider sync scheduler until terminated.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/cache"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/client"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/config"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/jobs"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/lock"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/metrics"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/repository"
	"github.com/HitendraKakadiya/oddins-odds-master-sub000/internal/scheduler"
)

func main() {
	setupLogger()

	log.Info().Msg("Starting football sync worker")

	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("Database connection established")

	clientOpts := []client.Option{
		client.WithMaxAttempts(cfg.ProviderMaxAttempts),
	}

	// The response cache is strictly optional; the worker runs without it.
	redisCache, err := cache.NewRedis(ctx, cache.Config{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without response cache")
	} else {
		defer redisCache.Close()
		clientOpts = append(clientOpts, client.WithResponseCache(
			redisCache,
			time.Duration(cfg.CacheTTLProvider)*time.Second,
		))
	}

	apiClient := client.NewClient(cfg.APIFootballBaseURL, cfg.APIFootballKey, cfg.ProviderTimeout, clientOpts...)
	log.Info().Str("base_url", cfg.APIFootballBaseURL).Msg("Provider client initialized")

	locks := lock.NewManager(db.Pool)
	runner := jobs.NewRunner(cfg, apiClient, db, locks)

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort, db)
	}

	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	sched := scheduler.NewScheduler(cfg, runner)
	if cfg.EnableScheduler {
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	} else {
		log.Warn().Msg("Scheduler disabled, worker will idle")
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()
	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsedLevel, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer serves Prometheus metrics and a health endpoint.
func startMetricsServer(port int, db *repository.Database) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK
		if err := db.Health(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			status["database"] = "ok"
			status["pool"] = db.PoolStats()
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
