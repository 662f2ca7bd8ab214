package repository

import (
	"context"
	"errors"

	"user-center/internal/model"
)

// ErrDuplicate is returned by Create when a primary key or unique constraint
// rejects the row.
var ErrDuplicate = errors.New("duplicate key")

// Repository is the capability set shared by every entity repository.
// Lookups return a nil entity and a nil error when nothing matches.
type Repository[T any, ID comparable] interface {
	GetByID(ctx context.Context, id ID) (*T, error)
	Create(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, entity *T) error
	Count(ctx context.Context) (int, error)
	Exists(ctx context.Context, id ID) (bool, error)
}

// UserFilter selects a page of users. IsActive nil means no filter.
type UserFilter struct {
	Skip     int
	Limit    int
	IsActive *bool
}

type UserRepository interface {
	Repository[model.User, string]
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// List returns the requested page ordered newest first and the size of
	// the filtered set before pagination.
	List(ctx context.Context, f UserFilter) ([]model.User, int, error)
}
