// File: internal/dto/response.go
package dto

// Response is the envelope every endpoint answers with. Code mirrors the HTTP
// status.
// swagger:model dto.Response
type Response struct {
	Code    int     `json:"code" example:"200"`
	Message *string `json:"message" example:"Login successful"`
	Data    any     `json:"data"`
}
