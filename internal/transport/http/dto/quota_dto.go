package dto

type QuotaStatusResponse struct {
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	IsPro     bool   `json:"is_pro"`
	ResetType string `json:"reset_type"`
	Degraded  bool   `json:"degraded,omitempty"`
}
