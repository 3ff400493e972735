package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	adminsvc "github.com/ashoka0402/Skillswapv6/internal/services/admin"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

type AdminHandler struct {
	service *adminsvc.Service
}

func NewAdminHandler(service *adminsvc.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list users")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminUsersResponse{Users: users})
}

func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := adminIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	userID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	var req dto.BanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Ban(r.Context(), identity.UserID, userID, req.Reason); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := adminIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	userID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	if err := h.service.Unban(r.Context(), identity.UserID, userID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

func (h *AdminHandler) ListSwaps(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	limit := queryInt(r, "limit", 200)
	offset := queryInt(r, "offset", 0)

	requests, err := h.service.ListSwaps(r.Context(), limit, offset)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list swap requests")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwapListResponse{Requests: requests})
}

func (h *AdminHandler) DeleteSwap(w http.ResponseWriter, r *http.Request) {
	identity, ok := adminIdentity(w, r)
	if !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	requestID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	if err := h.service.DeleteSwap(r.Context(), identity.UserID, requestID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminActionResponse{OK: true})
}

// Report streams one of the plain-text activity reports as a download.
// Supported names are users, swaps and feedback.
func (h *AdminHandler) Report(w http.ResponseWriter, r *http.Request) {
	if _, ok := adminIdentity(w, r); !ok {
		return
	}
	if h.service == nil {
		writeInternal(w, "ADMIN_SERVICE_UNAVAILABLE", "admin service is unavailable")
		return
	}

	var (
		report adminsvc.Report
		err    error
	)
	switch strings.ToLower(strings.TrimSpace(chi.URLParam(r, "name"))) {
	case "users":
		report, err = h.service.UsersReport(r.Context())
	case "swaps":
		report, err = h.service.SwapsReport(r.Context())
	case "feedback":
		report, err = h.service.FeedbackReport(r.Context())
	default:
		writeNotFound(w, "NOT_FOUND", "unknown report")
		return
	}
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.Content))
}

func adminIdentity(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func handleAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, adminsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "admin request validation failed")
	case errors.Is(err, adminsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "not found")
	case errors.Is(err, adminsvc.ErrSelfBan):
		writeConflict(w, "SELF_BAN", "cannot ban yourself")
	case errors.Is(err, adminsvc.ErrAdminTarget):
		writeConflict(w, "ADMIN_TARGET", "cannot ban another admin")
	case errors.Is(err, adminsvc.ErrAlreadyBanned):
		writeConflict(w, "ALREADY_BANNED", "user is already banned")
	case errors.Is(err, adminsvc.ErrNotBanned):
		writeConflict(w, "NOT_BANNED", "user is not banned")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
