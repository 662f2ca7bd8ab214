// File: internal/dto/list_users_query.go
package dto

const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// ListUsersQuery is bound from the query string of GET /users.
type ListUsersQuery struct {
	Skip     int   `query:"skip" validate:"gte=0"`
	Limit    int   `query:"limit" validate:"gte=1,lte=1000"`
	IsActive *bool `query:"is_active"`
}

// swagger:model dto.UserListResponse
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total" example:"150"`
	Skip  int            `json:"skip" example:"0"`
	Limit int            `json:"limit" example:"100"`
}
