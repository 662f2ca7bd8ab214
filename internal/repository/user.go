// File: internal/repository/user.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"user-center/internal/database"
	"user-center/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const userColumns = `id, username, password_hash, name, avatar, is_active, created_at, updated_at`

var (
	timeNow = func() time.Time { return time.Now().UTC() }
	newID   = func() string { return uuid.NewString() }
)

type userRepository struct {
	db database.Querier
}

// NewUserRepository binds a repository to q, normally the transaction owned
// by a unit of work.
func NewUserRepository(q database.Querier) UserRepository {
	return &userRepository{db: q}
}

func scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.Name,
		&u.Avatar,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) getOne(ctx context.Context, op, where string, arg any) (*model.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, "GetUserByID", "id = $1", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "GetUserByUsername", "username = $1", username)
}

func (r *userRepository) exists(ctx context.Context, op, where string, arg any) (bool, error) {
	var ok bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE `+where+`)`, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.exists(ctx, "ExistsUser", "id = $1", id)
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "ExistsUserByUsername", "username = $1", username)
}

func (r *userRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountUsers: %w", err)
	}
	return n, nil
}

func (r *userRepository) List(ctx context.Context, f UserFilter) ([]model.User, int, error) {
	var total int
	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE ($1::boolean IS NULL OR is_active = $1)`,
		f.IsActive,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListUsers count: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE ($1::boolean IS NULL OR is_active = $1)
		 ORDER BY created_at DESC, id DESC
		 OFFSET $2 LIMIT $3`,
		f.IsActive,
		f.Skip,
		f.Limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListUsers: %w", err)
	}
	defer rows.Close()

	items := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListUsers scan: %w", err)
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListUsers rows: %w", err)
	}
	return items, total, nil
}

// Create assigns the id and both timestamps before inserting.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	now := timeNow()
	if u.ID == "" {
		u.ID = newID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, username, password_hash, name, avatar, is_active, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID,
		u.Username,
		u.PasswordHash,
		u.Name,
		u.Avatar,
		u.IsActive,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("CreateUser: %w: %s", ErrDuplicate, pgErr.ConstraintName)
		}
		return fmt.Errorf("CreateUser: %w", err)
	}
	return nil
}

// Update persists the mutable columns and refreshes updated_at.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	u.UpdatedAt = timeNow()
	_, err := r.db.Exec(ctx,
		`UPDATE users
		 SET name = $1, avatar = $2, is_active = $3, password_hash = $4, updated_at = $5
		 WHERE id = $6`,
		u.Name,
		u.Avatar,
		u.IsActive,
		u.PasswordHash,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, u *model.User) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	return nil
}
