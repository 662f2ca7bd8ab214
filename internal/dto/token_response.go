// File: internal/dto/token_response.go
package dto

// TokenTypeBearer is the only token type issued.
const TokenTypeBearer = "Bearer"

// swagger:model dto.TokenResponse
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOi..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int    `json:"expires_in" example:"1800"`
	// always null, refresh tokens are not issued
	RefreshToken *string `json:"refresh_token" swaggertype:"string" extensions:"x-nullable"`
}
