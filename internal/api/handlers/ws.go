package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const wsWriteWait = 5 * time.Second

// StatusStreamHandler pushes the ingestion status to websocket clients at a fixed interval.
type StatusStreamHandler struct {
	Runner   IngestionController
	Interval time.Duration
	Upgrader websocket.Upgrader
}

func (h *StatusStreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response.
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// Reads only serve to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	interval := h.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(statusResponse(h.Runner.Status())); err != nil {
			return
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
