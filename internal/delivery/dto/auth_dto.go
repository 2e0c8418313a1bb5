package dto

// Request DTOs

type AdminLoginRequest struct {
	AccessCode string `json:"access_code" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
