package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	announcesvc "github.com/ashoka0402/Skillswapv6/internal/services/announcements"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

type AnnouncementHandler struct {
	service  *announcesvc.Service
	hub      *announcesvc.Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewAnnouncementHandler(service *announcesvc.Service, hub *announcesvc.Hub, log *zap.Logger) *AnnouncementHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnnouncementHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

func (h *AnnouncementHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "ANNOUNCEMENT_SERVICE_UNAVAILABLE", "announcement service is unavailable")
		return
	}

	items, err := h.service.ListActive(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load announcements")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AnnouncementListResponse{Announcements: items})
}

// Subscribe upgrades the connection to a websocket and streams the active
// announcement list. The first frame carries the current list; later frames
// arrive whenever an admin changes it.
func (h *AnnouncementHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if h.service == nil || h.hub == nil {
		writeInternal(w, "ANNOUNCEMENT_SERVICE_UNAVAILABLE", "announcement service is unavailable")
		return
	}

	items, err := h.service.ListActive(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load announcements")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	h.hub.Register(conn)
	if err := h.hub.SendTo(conn, items); err != nil {
		h.hub.Unregister(conn)
		_ = conn.Close()
		return
	}

	go func() {
		defer func() {
			h.hub.Unregister(conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *AnnouncementHandler) Publish(w http.ResponseWriter, r *http.Request) {
	identity, ok := adminIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ANNOUNCEMENT_SERVICE_UNAVAILABLE", "announcement service is unavailable")
		return
	}

	var req dto.PublishAnnouncementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	item, err := h.service.Publish(
		r.Context(),
		identity.UserID,
		req.Message,
		enums.AnnouncementType(req.Type),
		enums.AnnouncementPriority(req.Priority),
	)
	if err != nil {
		handleAnnouncementError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.AnnouncementResponse{Announcement: item})
}

func (h *AnnouncementHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ANNOUNCEMENT_SERVICE_UNAVAILABLE", "announcement service is unavailable")
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid announcement id")
		return
	}

	var req dto.SetAnnouncementActiveRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.SetActive(r.Context(), id, req.IsActive); err != nil {
		handleAnnouncementError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ANNOUNCEMENT_SERVICE_UNAVAILABLE", "announcement service is unavailable")
		return
	}

	id, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid announcement id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		handleAnnouncementError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AnnouncementHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ANNOUNCEMENT_SERVICE_UNAVAILABLE", "announcement service is unavailable")
		return
	}

	items, err := h.service.ListAll(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load announcements")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AnnouncementListResponse{Announcements: items})
}

func handleAnnouncementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, announcesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "announcement validation failed")
	case errors.Is(err, announcesvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "announcement not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
