// File: internal/service/password.go
package service

import (
	"fmt"

	"user-center/internal/apperror"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultBcryptCost is the work factor used for stored passwords.
	DefaultBcryptCost = 12
	// bcrypt ignores everything past 72 bytes.
	maxPasswordBytes = 72
)

// PasswordHasher turns plain-text passwords into digests and checks them.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; zero selects
// DefaultBcryptCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash rejects passwords bcrypt would silently truncate.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperror.Validation(fmt.Sprintf("password: must not exceed %d bytes", maxPasswordBytes))
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", apperror.Internal("failed to hash password", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
