package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/socpulse/maturity/internal/api/handlers"
	"github.com/socpulse/maturity/internal/api/router"
	"github.com/socpulse/maturity/internal/cache"
	"github.com/socpulse/maturity/internal/client"
	"github.com/socpulse/maturity/internal/config"
	"github.com/socpulse/maturity/internal/domain/recommendation"
	"github.com/socpulse/maturity/internal/pkg/logger"
	"github.com/socpulse/maturity/internal/pkg/validator"
	"github.com/socpulse/maturity/internal/repository/sqlstore"
	"github.com/socpulse/maturity/internal/services"
	"github.com/socpulse/maturity/internal/worker"
	"github.com/socpulse/maturity/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	db, err := sqlstore.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := sqlstore.RunMigrations(db, migrations.GetFS()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Repositories
	snapshotRepo := sqlstore.NewSnapshotRepository(db)
	recRepo := sqlstore.NewRecommendationRepository(db)

	// Optional Redis query cache
	var queryCache cache.QueryCache = cache.Disabled{}
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			log.Warnf("Redis unavailable, continuing without query cache: %v", err)
		} else {
			queryCache = rc
		}
	}

	// Services
	trendService := services.NewTrendService(snapshotRepo, services.NewAggregationService(), queryCache, cfg.Redis.TTL, log)

	var generator recommendation.Generator
	if cfg.Recommender.Mode == "openai" {
		gen, err := client.NewOpenAIRecommender(cfg.Recommender, log)
		if err != nil {
			log.Fatalf("Failed to create OpenAI recommender: %v", err)
		}
		generator = gen
	} else {
		generator = client.NewRecommenderClient(cfg.Recommender, log)
	}

	val := validator.New()
	recService := services.NewRecommendationService(recRepo, trendService, generator, val, log)

	// Hourly snapshot pipeline
	alertSource := client.NewAlertSourceClient(cfg.AlertSource, log)
	calculator := services.NewKpiCalculator(log)
	job := worker.NewSnapshotJob(alertSource, calculator, snapshotRepo, log)

	scheduler := worker.NewHourlyScheduler(job, log)
	if cfg.Scheduler.Enabled {
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		log.Info("Scheduler disabled")
	}

	// HTTP server
	h := &router.Handlers{
		Health:         handlers.NewHealthHandler(db, log),
		Kpi:            handlers.NewKpiHandler(trendService, log),
		Recommendation: handlers.NewRecommendationHandler(recService, log),
		Snapshot:       handlers.NewSnapshotHandler(job, log, val),
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.New(cfg, log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Infof("API serving on %s (environment: %s)", addr, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Infof("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
	}
}
