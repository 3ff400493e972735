package handlers

import (
	"errors"
	"net/http"

	analyticsvc "github.com/ashoka0402/Skillswapv6/internal/services/analytics"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

type EventsHandler struct {
	service *analyticsvc.Service
}

func NewEventsHandler(service *analyticsvc.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

func (h *EventsHandler) Batch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ANALYTICS_SERVICE_UNAVAILABLE", "analytics service is unavailable")
		return
	}

	var req dto.EventsBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	events := make([]analyticsvc.BatchEvent, 0, len(req.Events))
	for _, event := range req.Events {
		events = append(events, analyticsvc.BatchEvent{
			Name:  event.Name,
			TS:    event.TS,
			Props: event.Props,
		})
	}

	if err := h.service.IngestBatch(r.Context(), identity.UserID, events); err != nil {
		switch {
		case errors.Is(err, analyticsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid events batch")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to store events")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.EventsBatchResponse{Accepted: len(events)})
}

func (h *EventsHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "ANALYTICS_SERVICE_UNAVAILABLE", "analytics service is unavailable")
		return
	}

	events, err := h.service.ListRecent(r.Context(), identity.UserID, queryInt(r, "limit", 50))
	if err != nil {
		switch {
		case errors.Is(err, analyticsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid events request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load events")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.EventsListResponse{Events: events})
}
