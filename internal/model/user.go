// File: internal/model/user.go
package model

import "time"

// User is the only persisted entity. PasswordHash never leaves the service
// layer; handlers expose dto.UserResponse instead.
type User struct {
	ID           string    `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Avatar       *string   `db:"avatar" json:"avatar"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
