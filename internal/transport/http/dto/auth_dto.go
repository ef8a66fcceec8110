package dto

import "time"

type LoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LogoutResponse struct {
	OK bool `json:"ok"`
}
