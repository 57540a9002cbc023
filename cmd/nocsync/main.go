package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"noc-sync/internal/cloudsync"
	"noc-sync/internal/config"
	"noc-sync/internal/handlers"
	httpapi "noc-sync/internal/http"
	"noc-sync/internal/logging"
	"noc-sync/internal/repos"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("error").Errorf("config: %v", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)

	store, err := repos.Open(cfg.DatabasePath)
	if err != nil {
		logger.Errorf("open database %s: %v", cfg.DatabasePath, err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Infof("database ready at %s", cfg.DatabasePath)

	catalog := repos.NewCatalogRepo(store)
	runs := repos.NewSyncLogRepo(store)
	client := cloudsync.NewClient(cfg.CloudURL, cfg.AuthToken, cfg.RequestTimeoutSec)
	engine := cloudsync.NewEngine(cfg.Mode, client, catalog, runs, logger)

	sync := handlers.NewSyncHandler(engine, runs)
	export := handlers.NewExportHandler(catalog)
	router := httpapi.NewRouter(cfg, store, sync, export, logger)

	schedCtx, stopSched := context.WithCancel(context.Background())
	defer stopSched()
	if cfg.Mode == cloudsync.ModeLocal && cfg.SyncEnabled {
		sched, err := cloudsync.NewScheduler(engine, cfg.SyncTime, logger)
		if err != nil {
			logger.Errorf("scheduler: %v", err)
			os.Exit(1)
		}
		go sched.Run(schedCtx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("%s node listening on :%s", cfg.Mode, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")
	stopSched()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
