package handlers

import (
	"net/http"

	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	quotasvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/quota"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/dto"
	httperrors "github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/errors"
)

type QuotaHandler struct {
	service *quotasvc.Service
	pro     ProLookup
}

func NewQuotaHandler(service *quotasvc.Service, pro ProLookup) *QuotaHandler {
	return &QuotaHandler{service: service, pro: pro}
}

func (h *QuotaHandler) Status(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "QUOTA_SERVICE_UNAVAILABLE", "quota service is unavailable")
		return
	}

	isPro := false
	if h.pro != nil {
		if pro, err := h.pro.IsPro(r.Context(), identity.UserID); err == nil {
			isPro = pro
		}
	}

	status := h.service.Status(r.Context(), identity.UserID, isPro)

	httperrors.Write(w, http.StatusOK, dto.QuotaStatusResponse{
		Used:      status.Used,
		Limit:     status.Limit,
		Remaining: status.Remaining,
		IsPro:     status.IsPro,
		ResetType: status.ResetType,
		Degraded:  status.Degraded,
	})
}
