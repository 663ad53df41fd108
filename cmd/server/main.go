package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trip-ingestion-service/internal/adapters/cache"
	"trip-ingestion-service/internal/adapters/csvsource"
	"trip-ingestion-service/internal/adapters/repositories"
	"trip-ingestion-service/internal/api"
	"trip-ingestion-service/internal/config"
	"trip-ingestion-service/internal/platform/db"
	"trip-ingestion-service/internal/ports"
	"trip-ingestion-service/internal/services"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (PostGIS, CSV file, query cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// The trips table is created on start, like the service always did.
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	repo := repositories.NewPostgisTripRepository(conn)

	var queries ports.TripQuerier = repo
	var invalidator ports.QueryInvalidator
	if cfg.QueryCacheTTL > 0 {
		cached := cache.NewCachedTripQuerier(repo, cfg.QueryCacheSize, cfg.QueryCacheTTL)
		queries = cached
		invalidator = cached
	}

	ingestor := services.NewIngestor(csvsource.NewFileSource(cfg.CSVPath), repo, invalidator)
	runner := services.NewIngestionRunner(ingestor.IngestFile, cfg.StatusResetAfter)

	router := api.NewRouter(api.Deps{
		Runner:         runner,
		Queries:        queries,
		DB:             repo,
		StatusInterval: cfg.StatusPushInterval,
	})

	// Write timeout covers a synchronous /ingest of a large file.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      300 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server listening addr=:%s csv=%s", cfg.Port, cfg.CSVPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)

		// Background ingestions are not cancellable; let the current batch finish.
		runner.Wait()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
