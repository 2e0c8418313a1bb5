package dto

// Request DTOs

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	Lang    string `json:"lang" validate:"omitempty,min=2,max=10"`
}

type TranslateRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
	Lang string `json:"lang" validate:"required,min=2,max=10"`
}

// Response DTOs

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Lang      string `json:"lang"`
	Ended     bool   `json:"ended"`
	Warning   string `json:"warning,omitempty"`
}

type TranslateResponse struct {
	Text       string `json:"text"`
	Lang       string `json:"lang"`
	Translated bool   `json:"translated"`
}
