// Package uow groups repository calls into one database transaction.
package uow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"user-center/internal/database"
	"user-center/internal/repository"

	"github.com/jackc/pgx/v5"
)

// closeTimeout bounds the rollback issued by Close after the request context
// has already been cancelled.
const closeTimeout = 5 * time.Second

// ErrClosed is returned when a unit of work is used after Commit, Rollback or
// Close.
var ErrClosed = errors.New("unit of work already closed")

// UnitOfWork exposes repositories bound to a single transaction.
type UnitOfWork interface {
	Users() repository.UserRepository
	// Commit persists everything done through the repositories. If the
	// store rejects the commit the transaction is rolled back.
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	// Close releases the transaction, rolling back anything not committed.
	// It is safe to call more than once.
	Close(ctx context.Context)
}

// Factory starts units of work.
type Factory interface {
	Begin(ctx context.Context) (UnitOfWork, error)
}

type pgFactory struct {
	db database.DB
}

// NewFactory returns a Factory that opens one pgx transaction per unit.
func NewFactory(db database.DB) Factory {
	return &pgFactory{db: db}
}

func (f *pgFactory) Begin(ctx context.Context) (UnitOfWork, error) {
	tx, err := f.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgUnitOfWork{tx: tx, users: repository.NewUserRepository(tx)}, nil
}

type pgUnitOfWork struct {
	mu    sync.Mutex
	tx    pgx.Tx
	users repository.UserRepository
	done  bool
}

func (u *pgUnitOfWork) Users() repository.UserRepository { return u.users }

func (u *pgUnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return ErrClosed
	}
	u.done = true
	if err := u.tx.Commit(ctx); err != nil {
		_ = u.tx.Rollback(context.WithoutCancel(ctx))
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (u *pgUnitOfWork) Rollback(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

func (u *pgUnitOfWork) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
	defer cancel()
	_ = u.Rollback(ctx)
}

// Run begins a unit of work, hands it to fn and finishes it: commit when fn
// returns nil, rollback when it fails or panics. Close always runs. Panics are
// rethrown after the rollback.
func Run(ctx context.Context, f Factory, fn func(ctx context.Context, w UnitOfWork) error) (err error) {
	w, err := f.Begin(ctx)
	if err != nil {
		return err
	}
	defer w.Close(ctx)

	defer func() {
		if p := recover(); p != nil {
			_ = w.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			_ = w.Rollback(context.WithoutCancel(ctx))
			return
		}
		err = w.Commit(ctx)
		if errors.Is(err, ErrClosed) {
			// fn committed on its own.
			err = nil
		}
	}()

	return fn(ctx, w)
}
