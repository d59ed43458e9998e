package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarunhaha/duulair-hybrid-sub002/internal/config"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/database"
	httpapi "github.com/sarunhaha/duulair-hybrid-sub002/internal/http"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/line"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/logger"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/repository"
	"github.com/sarunhaha/duulair-hybrid-sub002/internal/service"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "duulair-report")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting duulair-report service")

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

	summariesRepo := repository.NewPostgresSummariesRepo(db)
	patientsRepo := repository.NewPostgresPatientsRepo(db)
	accessLogsRepo := repository.NewPostgresAccessLogsRepo(db)

	lineClient := line.NewClient(cfg.Line.APIBaseURL, cfg.Line.ChannelID, cfg.Line.Timeout, log)
	limiter := httpapi.NewRedisLimiter(redisClient)
	reports := service.NewReportService(summariesRepo, log)

	handler := httpapi.NewReportHandler(
		reports,
		patientsRepo,
		accessLogsRepo,
		lineClient,
		limiter,
		httpapi.ReportLimits{
			ViewPerWindow:   cfg.RateLimit.ViewPerHour,
			ExportPerWindow: cfg.RateLimit.ExportPerHour,
			Window:          cfg.RateLimit.Window,
		},
		log,
	)

	router := httpapi.NewRouter(log)
	router.RegisterReportRoutes(handler)

	srv := service.NewServer(cfg.HTTP.ReportAddr, router, log)

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
