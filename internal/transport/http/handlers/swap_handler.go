package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/ashoka0402/Skillswapv6/internal/domain/model"
	authsvc "github.com/ashoka0402/Skillswapv6/internal/services/auth"
	swapsvc "github.com/ashoka0402/Skillswapv6/internal/services/swaps"
	"github.com/ashoka0402/Skillswapv6/internal/transport/http/dto"
	httperrors "github.com/ashoka0402/Skillswapv6/internal/transport/http/errors"
)

type SwapHandler struct {
	service *swapsvc.Service
}

func NewSwapHandler(service *swapsvc.Service) *SwapHandler {
	return &SwapHandler{service: service}
}

func (h *SwapHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	var req dto.CreateSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	request, err := h.service.Create(r.Context(), identity.UserID, swapsvc.CreateInput{
		ReceiverID:    req.ReceiverID,
		SenderSkill:   req.SenderSkill,
		ReceiverSkill: req.ReceiverSkill,
		Message:       req.Message,
	})
	if err != nil {
		handleSwapError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.SwapResponse{Request: request})
}

func (h *SwapHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	requests, err := h.service.ListMine(r.Context(), identity.UserID)
	if err != nil {
		handleSwapError(w, err)
		return
	}
	if requests == nil {
		requests = []*model.SwapRequest{}
	}

	httperrors.Write(w, http.StatusOK, dto.SwapListResponse{Requests: requests})
}

func (h *SwapHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	request, err := h.service.Get(r.Context(), identity.UserID, requestID)
	if err != nil {
		handleSwapError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwapResponse{Request: request})
}

func (h *SwapHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Accept)
}

func (h *SwapHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Reject)
}

func (h *SwapHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.MarkComplete)
}

func (h *SwapHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	if err := h.service.Cancel(r.Context(), identity.UserID, requestID); err != nil {
		handleSwapError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwapDeletedResponse{OK: true})
}

func (h *SwapHandler) Rate(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	var req dto.RateSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	request, err := h.service.Rate(r.Context(), identity.UserID, requestID, req.Value, req.Feedback)
	if err != nil {
		handleSwapError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwapResponse{Request: request})
}

func (h *SwapHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, userID, requestID int64) (*model.SwapRequest, error),
) {
	identity, ok := h.authed(w, r)
	if !ok {
		return
	}

	requestID, ok := idParam(r, "id")
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request id")
		return
	}

	request, err := op(r.Context(), identity.UserID, requestID)
	if err != nil {
		handleSwapError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwapResponse{Request: request})
}

func (h *SwapHandler) authed(w http.ResponseWriter, r *http.Request) (authsvc.Identity, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, false
	}
	if h.service == nil {
		writeInternal(w, "SWAP_SERVICE_UNAVAILABLE", "swap service is unavailable")
		return authsvc.Identity{}, false
	}
	return identity, true
}

func handleSwapError(w http.ResponseWriter, err error) {
	var tooFast swapsvc.TooFastError
	switch {
	case errors.As(err, &tooFast):
		httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
			Code:          "RATE_LIMITED",
			Message:       "too many swap requests, slow down",
			RetryAfterSec: tooFast.RetryAfter(),
		})
	case errors.Is(err, swapsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "swap request validation failed")
	case errors.Is(err, swapsvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "swap request not found")
	case errors.Is(err, swapsvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not allowed for this swap request")
	case errors.Is(err, swapsvc.ErrInvalidTransition):
		writeConflict(w, "INVALID_TRANSITION", "swap request is not in the expected status")
	case errors.Is(err, swapsvc.ErrDuplicateRequest):
		writeConflict(w, "DUPLICATE_REQUEST", "an open swap request already exists between these users")
	case errors.Is(err, swapsvc.ErrAlreadyRated):
		writeBadRequest(w, "ALREADY_RATED", "feedback was already submitted for this swap")
	default:
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
