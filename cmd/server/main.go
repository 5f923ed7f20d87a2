package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/branchpulse/branchpulse/internal/config"
	"github.com/branchpulse/branchpulse/internal/repository/mongodb"
	"github.com/branchpulse/branchpulse/internal/repository/sheets"
	"github.com/branchpulse/branchpulse/internal/scheduler"
	"github.com/branchpulse/branchpulse/internal/server/handlers"
	"github.com/branchpulse/branchpulse/internal/server/router"
	insightssvc "github.com/branchpulse/branchpulse/internal/service/insights"
	visitsvc "github.com/branchpulse/branchpulse/internal/service/visits"
	"github.com/branchpulse/branchpulse/pkg/clients/webhook"
	"github.com/branchpulse/branchpulse/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(os.Getenv("LOG_DEBUG") == "true"))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var rosterSource sheets.RosterSource
	if cfg.RosterImportEnabled() {
		rosterSource, err = sheets.NewGoogleSheetRoster(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init roster source", zap.Error(err))
		}

		importCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if written, err := handlers.ImportRoster(importCtx, rosterSource, mongoRepo); err != nil {
			baseLogger.Warn("startup roster import failed", zap.Error(err))
		} else {
			baseLogger.Info("roster imported", zap.Int("locations", written))
		}
		cancel()
	} else {
		baseLogger.Info("roster import not configured, using existing location collection")
	}

	insightsSvc := insightssvc.NewService(mongoRepo, mongoRepo, baseLogger.Named("svc.insights"))
	visitSvc := visitsvc.NewService(mongoRepo, baseLogger.Named("svc.visits"))

	analyticsHandler := handlers.NewAnalyticsHandler(insightsSvc, baseLogger.Named("handlers.analytics"))
	visitHandler := handlers.NewVisitHandler(visitSvc, rosterSource, mongoRepo, baseLogger.Named("handlers.visits"))
	engine := router.New(analyticsHandler, visitHandler, baseLogger.Named("router"))

	var webhookClient webhook.Client
	if cfg.Digest.WebhookURL != "" {
		webhookClient = webhook.NewClient(cfg.Digest.WebhookURL)
		baseLogger.Info("digest webhook enabled")
	}

	sched := scheduler.NewScheduler(cfg.Digest, insightsSvc, webhookClient, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
