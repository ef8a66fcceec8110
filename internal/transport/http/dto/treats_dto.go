package dto

import "time"

type GiveTreatsRequest struct {
	PhotoID int64 `json:"photo_id"`
	Amount  int64 `json:"amount"`
}

type GiveTreatsResponse struct {
	Status     string `json:"status"`
	NewBalance int64  `json:"new_balance"`
	Message    string `json:"message"`
}

type TreatBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type TreatTransactionResponse struct {
	ID              int64     `json:"id"`
	Amount          int64     `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	FromUserID      int64     `json:"from_user_id"`
	ToUserID        int64     `json:"to_user_id"`
	PhotoID         *int64    `json:"photo_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type TreatHistoryResponse struct {
	Transactions []TreatTransactionResponse `json:"transactions"`
}
