package handlers

import (
	"errors"
	"fmt"
	"net/http"

	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	treatssvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/treats"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/dto"
	httperrors "github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/errors"
)

const treatHistoryLimit = 50

type Limiter interface {
	Allow(key string) bool
	RetryAfter(key string) int64
}

type TreatsHandler struct {
	service *treatssvc.Service
	limiter Limiter
}

func NewTreatsHandler(service *treatssvc.Service, limiter Limiter) *TreatsHandler {
	return &TreatsHandler{service: service, limiter: limiter}
}

func (h *TreatsHandler) Give(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "TREATS_SERVICE_UNAVAILABLE", "treats service is unavailable")
		return
	}

	if h.limiter != nil {
		key := fmt.Sprintf("treats:%d", identity.UserID)
		if !h.limiter.Allow(key) {
			writeTooFast(w, h.limiter.RetryAfter(key))
			return
		}
	}

	var req dto.GiveTreatsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.service.Give(r.Context(), identity.UserID, req.PhotoID, req.Amount)
	if err != nil {
		handleTreatsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.GiveTreatsResponse{
		Status:     result.Status,
		NewBalance: result.NewBalance,
		Message:    result.Message,
	})
}

func (h *TreatsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "TREATS_SERVICE_UNAVAILABLE", "treats service is unavailable")
		return
	}

	balance, err := h.service.Balance(r.Context(), identity.UserID)
	if err != nil {
		handleTreatsError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.TreatBalanceResponse{Balance: balance})
}

func (h *TreatsHandler) History(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "TREATS_SERVICE_UNAVAILABLE", "treats service is unavailable")
		return
	}

	transactions, err := h.service.History(r.Context(), identity.UserID, treatHistoryLimit)
	if err != nil {
		handleTreatsError(w, err)
		return
	}

	items := make([]dto.TreatTransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, dto.TreatTransactionResponse{
			ID:              tx.ID,
			Amount:          tx.Amount,
			TransactionType: tx.TransactionType,
			FromUserID:      tx.FromUserID,
			ToUserID:        tx.ToUserID,
			PhotoID:         tx.PhotoID,
			CreatedAt:       tx.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.TreatHistoryResponse{Transactions: items})
}

func handleTreatsError(w http.ResponseWriter, err error) {
	var denied treatssvc.DeniedError
	switch {
	case errors.As(err, &denied):
		status := http.StatusConflict
		if denied.Insufficient() {
			status = http.StatusPaymentRequired
		}
		httperrors.Write(w, status, httperrors.APIError{
			Code:    "TRANSFER_DENIED",
			Message: denied.Reason,
		})
	case errors.Is(err, treatssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid treats request")
	default:
		writeInternal(w, "INTERNAL_ERROR", "treats operation failed")
	}
}
