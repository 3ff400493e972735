package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	profilesvc "github.com/ashoka0402/Skillswapv6/internal/services/profiles"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

type UsersHandler struct {
	service *profilesvc.Service
	avatars AvatarResolver
}

func NewUsersHandler(service *profilesvc.Service, avatars AvatarResolver) *UsersHandler {
	return &UsersHandler{service: service, avatars: avatars}
}

// Browse lists public profiles, optionally filtered by a skill search term
// and availability.
func (h *UsersHandler) Browse(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	query := r.URL.Query()
	limit := queryInt(r, "limit", 12)
	offset := queryInt(r, "offset", 0)

	views, err := h.service.Browse(r.Context(), identity.UserID, profilesvc.BrowseInput{
		Term:         query.Get("q"),
		Availability: query.Get("availability"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	users := make([]dto.ProfileResponse, 0, len(views))
	for _, view := range views {
		users = append(users, h.toResponse(r, view))
	}

	httperrors.Write(w, http.StatusOK, dto.BrowseResponse{
		Users:  users,
		Limit:  limit,
		Offset: offset,
	})
}

func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	targetID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid user id")
		return
	}

	view, err := h.service.GetVisible(r.Context(), identity.UserID, targetID)
	if err != nil {
		switch {
		case errors.Is(err, profilesvc.ErrNotFound):
			writeNotFound(w, "NOT_FOUND", "user not found")
		default:
			handleProfileError(w, err)
		}
		return
	}

	httperrors.Write(w, http.StatusOK, h.toResponse(r, view))
}

func (h *UsersHandler) toResponse(r *http.Request, view profilesvc.ProfileView) dto.ProfileResponse {
	res := dto.ProfileResponse{
		User:         view.User,
		Completeness: view.Completeness,
	}
	if h.avatars != nil {
		if url, err := h.avatars.AvatarURL(r.Context(), view.User.ID); err == nil {
			res.AvatarURL = url
		}
	}
	return res
}
