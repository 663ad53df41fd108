package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"trip-ingestion-service/internal/api/dto"
	"trip-ingestion-service/internal/domain"
	"trip-ingestion-service/internal/services"
)

// IngestionController runs ingestions and reports their status.
type IngestionController interface {
	Run(ctx context.Context) (int, error)
	Start(ctx context.Context) error
	Status() services.IngestionStatus
}

// IngestHandler exposes synchronous and background ingestion of the configured trips file.
type IngestHandler struct {
	Runner IngestionController
}

func (h *IngestHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	n, err := h.Runner.Run(r.Context())
	if err != nil {
		writeIngestError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.IngestResponse{Message: "Ingestion completed successfully", Rows: n})
}

func (h *IngestHandler) IngestAsync(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	if err := h.Runner.Start(r.Context()); err != nil {
		writeIngestError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusAccepted, dto.IngestStartedResponse{Message: "Ingestion started"})
}

func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	writeJSON(w, r, http.StatusOK, statusResponse(h.Runner.Status()))
}

func statusResponse(st services.IngestionStatus) dto.IngestionStatusResponse {
	return dto.IngestionStatusResponse{
		Status:     string(st.State),
		StartedAt:  st.StartedAt,
		FinishedAt: st.FinishedAt,
		Rows:       st.Rows,
		Error:      st.Error,
	}
}

// Input problems are reported to the client; store failures are logged and hidden.
func writeIngestError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrIngestionRunning):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrMalformedGeometry),
		errors.Is(err, domain.ErrMalformedTimestamp),
		errors.Is(err, domain.ErrInvalidHour),
		errors.Is(err, domain.ErrInvalidRow):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Printf("ingest failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
