package model

// QuotaStatus is a read-only projection for clients. Remaining is always
// max(0, Limit-Used). Degraded marks a status built after a store failure.
type QuotaStatus struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	IsPro     bool   `json:"is_pro"`
	ResetType string `json:"reset_type"`
	Degraded  bool   `json:"degraded,omitempty"`
}
