package dto

import "time"

type NotificationResponse struct {
	ID          int64     `json:"id"`
	Kind        string    `json:"kind"`
	ActorID     int64     `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	PhotoID     *int64    `json:"photo_id,omitempty"`
	TreatAmount int64     `json:"treat_amount,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}
