// File: internal/dto/create_user_request.go
package dto

// swagger:model dto.CreateUserRequest
type CreateUserRequest struct {
	Username string  `json:"username" validate:"required,min=3,max=50" example:"alice"`
	Name     string  `json:"name" validate:"required,min=1,max=100" example:"Alice"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=500" example:"https://example.com/alice.png"`
	Password string  `json:"password" validate:"required,min=6" example:"secret1"`
}
