package api

import (
	"net/http"
	"time"
	"trip-ingestion-service/internal/api/handlers"
	"trip-ingestion-service/internal/ports"

	"github.com/gorilla/websocket"
)

// Dependencies of the HTTP API. DB may be nil, in which case /health skips the ping.
type Deps struct {
	Runner         handlers.IngestionController
	Queries        ports.TripQuerier
	DB             handlers.Pinger
	StatusInterval time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	healthHandler := &handlers.HealthHandler{DB: deps.DB}
	ingestHandler := &handlers.IngestHandler{Runner: deps.Runner}
	tripHandler := &handlers.TripHandler{Queries: deps.Queries}
	streamHandler := &handlers.StatusStreamHandler{
		Runner:   deps.Runner,
		Interval: deps.StatusInterval,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/ingest", ingestHandler.Ingest)
	mux.HandleFunc("/ingest_async", ingestHandler.IngestAsync)
	mux.HandleFunc("/ingest/status", ingestHandler.Status)
	mux.HandleFunc("/ws/ingestion", streamHandler.Stream)
	mux.HandleFunc("/grouped", tripHandler.Grouped)
	mux.HandleFunc("/weekly_avg", tripHandler.WeeklyAverage)

	return requestIDMiddleware(loggingMiddleware(mux))
}
