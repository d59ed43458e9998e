package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/aggregator"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/config"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/database"
	httpapi "github.com/sarunhaha/duulair-hybrid-sub002/internal/http"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/logger"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	var (
		once = flag.Bool("once", false, "run one aggregation and exit instead of serving HTTP")
		date = flag.String("date", "", "target date YYYY-MM-DD (default: yesterday in the aggregation timezone)")
	)
	flag.Parse()

	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "duulair-aggregator")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting duulair-aggregator service")

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	loc := aggregator.Location(cfg.Aggregator.TimezoneOffset)
	activityLogsRepo := repository.NewPostgresActivityLogsRepo(db, log)
	waterRepo := repository.NewPostgresWaterRepo(db)
	medicationsRepo := repository.NewPostgresMedicationSchedulesRepo(db)
	summariesRepo := repository.NewPostgresSummariesRepo(db)
	patientsRepo := repository.NewPostgresPatientsRepo(db)

	agg := aggregator.NewDailyAggregator(
		activityLogsRepo,
		waterRepo,
		medicationsRepo,
		summariesRepo,
		store.NewRedisKV(redisClient),
		loc,
		cfg.Aggregator.WaterGoalCacheTTL,
		log,
	)
	svc := service.NewAggregationService(patientsRepo, agg, log)

	if *once {
		runOnce(svc, loc, *date, log)
		return
	}

	handler := httpapi.NewAggregateHandler(svc, loc, log)
	router := httpapi.NewRouter(log)
	router.RegisterAggregateRoutes(handler)

	srv := service.NewServer(cfg.HTTP.AggregatorAddr, router, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errChan:
		log.Error("Server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		log.Error("Error stopping server", zap.Error(err))
	}

	log.Info("Service stopped")
}

// runOnce supports manual backfills: duulair-aggregator -once -date 2026-08-01
func runOnce(svc *service.AggregationService, loc *time.Location, date string, log *zap.Logger) {
	if date == "" {
		date = aggregator.Yesterday(time.Now(), loc)
	} else if !aggregator.ValidDate(date) {
		log.Fatal("Invalid -date value", zap.String("date", date))
	}

	result, err := svc.Run(context.Background(), date)
	if err != nil {
		log.Fatal("Aggregation failed", zap.String("date", date), zap.Error(err))
	}

	log.Info("Aggregation complete",
		zap.String("date", result.Date),
		zap.Int("processed", result.Processed),
		zap.Int("errors", result.Errors),
	)
	if result.Errors > 0 {
		os.Exit(1)
	}
}
