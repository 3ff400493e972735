package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ashoka0402/Skillswapv6/internal/domain/enums"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	profilesvc "github.com/ashoka0402/Skillswapv6/internal/services/profiles"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

// AvatarResolver turns a user's stored avatar key into a short-lived URL.
type AvatarResolver interface {
	AvatarURL(ctx context.Context, userID int64) (string, error)
}

type ProfileHandler struct {
	service *profilesvc.Service
	avatars AvatarResolver
}

func NewProfileHandler(service *profilesvc.Service, avatars AvatarResolver) *ProfileHandler {
	return &ProfileHandler{service: service, avatars: avatars}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	view, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, h.profileResponse(r, view))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	view, err := h.service.Update(r.Context(), identity.UserID, profilesvc.UpdateInput{
		Name:         req.Name,
		Bio:          req.Bio,
		Location:     req.Location,
		Availability: enums.Availability(req.Availability),
		IsPublic:     req.IsPublic,
	})
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, h.profileResponse(r, view))
}

func (h *ProfileHandler) AddOfferedSkill(w http.ResponseWriter, r *http.Request) {
	h.addSkill(w, r, true)
}

func (h *ProfileHandler) AddWantedSkill(w http.ResponseWriter, r *http.Request) {
	h.addSkill(w, r, false)
}

func (h *ProfileHandler) RemoveOfferedSkill(w http.ResponseWriter, r *http.Request) {
	h.removeSkill(w, r, true)
}

func (h *ProfileHandler) RemoveWantedSkill(w http.ResponseWriter, r *http.Request) {
	h.removeSkill(w, r, false)
}

func (h *ProfileHandler) addSkill(w http.ResponseWriter, r *http.Request, offered bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	view, err := h.service.AddSkill(r.Context(), identity.UserID, offered, req.Skill)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, h.profileResponse(r, view))
}

func (h *ProfileHandler) removeSkill(w http.ResponseWriter, r *http.Request, offered bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.SkillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	view, err := h.service.RemoveSkill(r.Context(), identity.UserID, offered, req.Skill)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, h.profileResponse(r, view))
}

func (h *ProfileHandler) profileResponse(r *http.Request, view profilesvc.ProfileView) dto.ProfileResponse {
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

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "profile validation failed")
	case errors.Is(err, profilesvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
