package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/handler"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/server"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/workers"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/joho/godotenv"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(build)

	// a missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		logger.NewLogger("pixel-studio-server", "").Fatal().Err(err).Msg("error getting configs")
	}

	log := logger.NewLogger("pixel-studio-server", cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	appMetrics := metrics.New()
	storages := store.NewStorages(db, log)
	adapters := service.NewAdapters(cfg.Adapter, log)

	services, err := service.NewServices(storages, adapters, *cfg, build, appMetrics, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers := handler.NewHandlers(services, *cfg, appMetrics, log)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	background := workers.NewWorkers(
		workers.NewSubscriptionExpiryWorker(services.AdminService, cfg.Workers.SubscriptionSweepInterval, log),
	)
	workersDone := make(chan struct{})
	go func() {
		background.Run(ctx)
		close(workersDone)
	}()

	if err = srv.RunServer(); err != nil {
		log.Err(err).Msg("server stopped with error")
	}

	stop()
	<-workersDone
}

func printBuildInfo(build models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", build.Version)
	fmt.Printf("Build date: %s\n", build.Date)
	fmt.Printf("Build commit: %s\n", build.Commit)
}
