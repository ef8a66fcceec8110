package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	photossvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/photos"
	quotasvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/quota"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/dto"
	httperrors "github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/errors"
)

const (
	maxPhotoUploadSize = 20 << 20 // 20 MiB
	defaultListLimit   = 50
)

type ProLookup interface {
	IsPro(ctx context.Context, userID int64) (bool, error)
}

type PhotoHandler struct {
	service *photossvc.Service
	quota   *quotasvc.Service
	pro     ProLookup
}

func NewPhotoHandler(service *photossvc.Service, quota *quotasvc.Service, pro ProLookup) *PhotoHandler {
	return &PhotoHandler{service: service, quota: quota, pro: pro}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTO_SERVICE_UNAVAILABLE", "photo service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	caption := r.FormValue("caption")

	photo, err := h.service.Upload(r.Context(), identity.UserID, header.Filename, contentType, file, header.Size, caption)
	if err != nil {
		h.handleUploadError(w, r, identity.UserID, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoResponse{
		ID:        photo.ID,
		URL:       photo.URL,
		Caption:   photo.Caption,
		CreatedAt: photo.CreatedAt,
	})
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTO_SERVICE_UNAVAILABLE", "photo service is unavailable")
		return
	}

	photos, err := h.service.List(r.Context(), identity.UserID, defaultListLimit)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list photos")
		return
	}

	items := make([]dto.PhotoResponse, 0, len(photos))
	for _, photo := range photos {
		items = append(items, dto.PhotoResponse{
			ID:        photo.ID,
			URL:       photo.URL,
			Caption:   photo.Caption,
			CreatedAt: photo.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoListResponse{Photos: items})
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PHOTO_SERVICE_UNAVAILABLE", "photo service is unavailable")
		return
	}

	photoID, ok := photoIDFromURL(r)
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid photo id")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, photoID); err != nil {
		switch {
		case errors.Is(err, photossvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid photo request")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to delete photo")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoDeleteResponse{OK: true})
}

func (h *PhotoHandler) handleUploadError(w http.ResponseWriter, r *http.Request, userID int64, err error) {
	var tooFast photossvc.TooFastError
	switch {
	case errors.As(err, &tooFast):
		writeTooFast(w, tooFast.RetryAfter())
	case errors.Is(err, photossvc.ErrQuotaExceeded):
		h.writeQuotaExceeded(w, r, userID)
	case errors.Is(err, photossvc.ErrUnsupportedMedia):
		httperrors.Write(w, http.StatusUnsupportedMediaType, httperrors.APIError{
			Code:    "UNSUPPORTED_MEDIA",
			Message: "unsupported photo format",
		})
	case errors.Is(err, photossvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid upload request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "photo upload failed")
	}
}

func (h *PhotoHandler) writeQuotaExceeded(w http.ResponseWriter, r *http.Request, userID int64) {
	payload := httperrors.QuotaError{
		Code:    "QUOTA_EXCEEDED",
		Message: "daily upload quota exceeded",
	}
	if h.quota != nil {
		isPro := false
		if h.pro != nil {
			if pro, err := h.pro.IsPro(r.Context(), userID); err == nil {
				isPro = pro
			}
		}
		status := h.quota.Status(r.Context(), userID, isPro)
		payload.Used = status.Used
		payload.Limit = status.Limit
		payload.ResetType = status.ResetType
	}

	httperrors.Write(w, http.StatusTooManyRequests, payload)
}

func photoIDFromURL(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "photoID")
	photoID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || photoID <= 0 {
		return 0, false
	}
	return photoID, true
}
