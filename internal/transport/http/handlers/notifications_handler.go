package handlers

import (
	"context"
	"net/http"

	"github.com/ChaLconner/purrfect-spots-sub001/internal/domain/model"
	authsvc "github.com/ChaLconner/purrfect-spots-sub001/internal/services/auth"
	"github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/dto"
	httperrors "github.com/ChaLconner/purrfect-spots-sub001/internal/transport/http/errors"
)

const notificationsListLimit = 50

type NotificationStore interface {
	ListForUser(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
}

type NotificationsHandler struct {
	store NotificationStore
}

func NewNotificationsHandler(store NotificationStore) *NotificationsHandler {
	return &NotificationsHandler{store: store}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.store == nil {
		writeInternal(w, "NOTIFICATIONS_UNAVAILABLE", "notifications are unavailable")
		return
	}

	notifications, err := h.store.ListForUser(r.Context(), identity.UserID, notificationsListLimit)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to list notifications")
		return
	}

	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:          n.ID,
			Kind:        n.Kind,
			ActorID:     n.ActorID,
			ActorName:   n.ActorName,
			PhotoID:     n.PhotoID,
			TreatAmount: n.TreatAmount,
			CreatedAt:   n.CreatedAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.NotificationListResponse{Notifications: items})
}
