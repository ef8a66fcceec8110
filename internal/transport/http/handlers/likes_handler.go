package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	likessvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/likes"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/dto"
	httperrors "github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/errors"
)

type LikesHandler struct {
	service *likessvc.Service
}

func NewLikesHandler(service *likessvc.Service) *LikesHandler {
	return &LikesHandler{service: service}
}

func (h *LikesHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.serviceLike)
}

func (h *LikesHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, h.serviceUnlike)
}

func (h *LikesHandler) handle(w http.ResponseWriter, r *http.Request, op func(r *http.Request, userID, photoID int64) (likessvc.Result, error)) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LIKES_SERVICE_UNAVAILABLE", "likes service is unavailable")
		return
	}

	photoID, ok := photoIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo id")
		return
	}

	result, err := op(r, identity.UserID, photoID)
	if err != nil {
		handleLikesError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LikeResponse{
		Liked:     result.Liked,
		LikeCount: result.LikeCount,
	})
}

func (h *LikesHandler) serviceLike(r *http.Request, userID, photoID int64) (likessvc.Result, error) {
	return h.service.Like(r.Context(), userID, photoID)
}

func (h *LikesHandler) serviceUnlike(r *http.Request, userID, photoID int64) (likessvc.Result, error) {
	return h.service.Unlike(r.Context(), userID, photoID)
}

func handleLikesError(w http.ResponseWriter, err error) {
	var tooFast likessvc.TooFastError
	switch {
	case errors.As(err, &tooFast):
		writeTooFast(w, tooFast.RetryAfter())
	case errors.Is(err, likessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid like request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "like operation failed")
	}
}
