package dto

import "time"

type PhotoResponse struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption"`
	CreatedAt time.Time `json:"created_at"`
}

type PhotoListResponse struct {
	Photos []PhotoResponse `json:"photos"`
}

type PhotoDeleteResponse struct {
	OK bool `json:"ok"`
}
