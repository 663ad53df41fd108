package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"trip-ingestion-service/internal/adapters/csvsource"
	"trip-ingestion-service/internal/adapters/repositories"
	"trip-ingestion-service/internal/config"
	"trip-ingestion-service/internal/platform/db"
	"trip-ingestion-service/internal/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	load := flag.Bool("load", false, "ingest the trips CSV after initializing the schema")
	csvPath := flag.String("csv", "", "trips CSV to ingest (defaults to CSV_PATH)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	path := cfg.CSVPath
	if *csvPath != "" {
		path = *csvPath
	}

	if err := initAndLoad(ctx, conn, path, *load); err != nil {
		log.Fatal(err)
	}
}

func initAndLoad(ctx context.Context, conn *sql.DB, csvPath string, load bool) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	if !load {
		return nil
	}

	repo := repositories.NewPostgisTripRepository(conn)
	ingestor := services.NewIngestor(csvsource.NewFileSource(csvPath), repo, nil)

	log.Printf("Loading trips from %s...", csvPath)
	n, err := ingestor.IngestFile(ctx)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	total, err := repo.CountTrips(ctx)
	if err != nil {
		return fmt.Errorf("count trips: %w", err)
	}
	log.Printf("Load complete. inserted=%d total=%d", n, total)

	return nil
}
