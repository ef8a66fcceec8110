package model

import "time"

const (
	TreatTransactionGift = "gift"
)

// TreatTransaction is an append-only ledger entry. Rows are written by the
// store-side transfer operation and never mutated afterwards.
type TreatTransaction struct {
	ID              int64     `json:"id"`
	Amount          int64     `json:"amount"`
	TransactionType string    `json:"transaction_type"`
	FromUserID      int64     `json:"from_user_id"`
	ToUserID        int64     `json:"to_user_id"`
	PhotoID         *int64    `json:"photo_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
