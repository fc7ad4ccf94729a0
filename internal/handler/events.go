package handler

import (
	"log/slog"
	"net/http"

	"sation/internal/domain/services"
	"sation/internal/handler/sse"
	"sation/internal/httputil"
)

// EventsHandler streams change notices to the caller over SSE
type EventsHandler struct {
	subscriber services.ChangeSubscriber
	config     *sse.Config
	logger     *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(subscriber services.ChangeSubscriber, config *sse.Config, logger *slog.Logger) *EventsHandler {
	if config == nil {
		config = sse.DefaultConfig()
	}
	return &EventsHandler{
		subscriber: subscriber,
		config:     config,
		logger:     logger,
	}
}

// Stream sends a "change" event per mutation until the client disconnects.
// Events only say which views are stale; clients re-fetch those views.
// GET /api/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	// Subscribe before the first write so no change between connect and ready is lost
	changes, cancel := h.subscriber.Subscribe(ownerID)
	defer cancel()

	writer, err := sse.NewWriter(w)
	if err != nil {
		httputil.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	keepAlive := sse.NewTickerKeepAlive(h.config.KeepAliveInterval)
	keepAliveDone := keepAlive.Start(writer, h.logger)
	defer keepAlive.Stop()

	if err := writer.WriteEvent("ready", map[string]string{"owner_id": ownerID}); err != nil {
		return
	}

	h.logger.Debug("change stream opened", "owner_id", ownerID)
	defer h.logger.Debug("change stream closed", "owner_id", ownerID)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-keepAliveDone:
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := writer.WriteEvent("change", change); err != nil {
				h.logger.Debug("change stream write failed", "owner_id", ownerID, "error", err)
				return
			}
		}
	}
}
