package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	IsPro        bool      `json:"is_pro"`
	TreatBalance int64     `json:"treat_balance"`
	CreatedAt    time.Time `json:"created_at"`
}
