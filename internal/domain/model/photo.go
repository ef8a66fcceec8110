package model

import "time"

type Photo struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	ObjectKey string     `json:"object_key"`
	Caption   string     `json:"caption"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}
