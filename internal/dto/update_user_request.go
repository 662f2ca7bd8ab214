// File: internal/dto/update_user_request.go
package dto

// UpdateUserRequest is a partial update. A field left out of the body is not
// touched; avatar sent as null is cleared.
// swagger:model dto.UpdateUserRequest
type UpdateUserRequest struct {
	Name   NullableString `json:"name" swaggertype:"string" example:"Alice"`
	Avatar NullableString `json:"avatar" swaggertype:"string" example:"https://example.com/alice.png"`
}
