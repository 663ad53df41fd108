package dto

import "time"

type IngestStartedResponse struct {
	Message string `json:"message"`
}

type IngestResponse struct {
	Message string `json:"message"`
	Rows    int    `json:"rows"`
}

type IngestionStatusResponse struct {
	Status     string     `json:"status"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Rows       int        `json:"rows,omitempty"`
	Error      string     `json:"error,omitempty"`
}
