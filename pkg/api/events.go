package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/japaniel/wordbook/pkg/db"
	"github.com/rs/zerolog/log"
)

// EventBuffer is how many changes an event stream holds before it starts
// missing them.
const EventBuffer = 64

// handleEvents streams committed store changes as Server-Sent Events. Each
// change is sent with its kind as the event name and the change as JSON data.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	changes, unsubscribe := s.svc.Store().Subscribe(EventBuffer)
	defer unsubscribe()

	clientID := uuid.NewString()
	ctx := r.Context()
	if s.metrics != nil {
		s.metrics.EventSubscribers.Add(context.WithoutCancel(ctx), 1)
		defer s.metrics.EventSubscribers.Add(context.WithoutCancel(ctx), -1)
	}
	log.Debug().Str("clientId", clientID).Msg("SSE client connected")
	defer log.Debug().Str("clientId", clientID).Msg("SSE client disconnected")

	fmt.Fprintf(w, "event: connected\ndata: {\"clientId\":%q}\n\n", clientID)
	flusher.Flush()

	heartbeat := time.NewTicker(s.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := writeEvent(w, change); err != nil {
				log.Debug().Err(err).Str("clientId", clientID).Msg("Failed to write to SSE client")
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, change db.Change) error {
	data, err := json.Marshal(change)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, data)
	return err
}
