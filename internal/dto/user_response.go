// File: internal/dto/user_response.go
package dto

import (
	"time"

	"user-center/internal/model"
)

// swagger:model dto.UserResponse
type UserResponse struct {
	ID        string    `json:"id" example:"0b4c7d3e-5a7e-4d6b-9f0e-2a1c3b4d5e6f"`
	Username  string    `json:"username" example:"alice"`
	Name      string    `json:"name" example:"Alice"`
	Avatar    *string   `json:"avatar" example:"https://example.com/alice.png"`
	IsActive  bool      `json:"is_active" example:"true"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at" example:"2025-05-01T15:04:05Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2025-05-01T15:04:05Z"`
}

// NewUserResponse projects u for API callers. The password digest is never
// copied.
func NewUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		Roles:     []string{},
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
