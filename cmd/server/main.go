package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fish11112222/naha2/internal/config"
	"github.com/fish11112222/naha2/internal/domain"
	"github.com/fish11112222/naha2/internal/httpserver"
	"github.com/fish11112222/naha2/internal/store/memory"
	"github.com/fish11112222/naha2/internal/store/postgres"
	"github.com/fish11112222/naha2/internal/store/sqlite"
)

// @title           naha2 chat API
// @version         1.0
// @description     Backend API for the naha2 web chat application.

// @host            localhost:5000
// @BasePath        /api

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	storage, err := openStorage(cfg)
	if err != nil {
		log.Fatalf("failed to open storage: %v", err)
	}
	defer storage.Close()

	router := httpserver.NewRouter(cfg, storage)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting %s on %s (storage: %s)", cfg.AppName, cfg.HTTPAddr(), cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openStorage picks the storage backend once at startup; every handler
// shares the one instance.
func openStorage(cfg *config.Config) (domain.Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.Migrate(db); err != nil {
			return nil, err
		}
		return sqlite.NewStore(db, cfg.MaxAvatarBytes), nil
	case config.DriverPostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db); err != nil {
			return nil, err
		}
		return postgres.NewStore(db, cfg.MaxAvatarBytes), nil
	default:
		return memory.New(cfg.DataFile, cfg.MaxAvatarBytes), nil
	}
}
