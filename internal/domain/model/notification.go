package model

import "time"

const (
	NotificationTreatReceived = "treat_received"
	NotificationPhotoLiked    = "photo_liked"
)

type Notification struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Kind        string    `json:"kind"`
	ActorID     int64     `json:"actor_id"`
	ActorName   string    `json:"actor_name"`
	PhotoID     *int64    `json:"photo_id,omitempty"`
	TreatAmount int64     `json:"treat_amount,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
