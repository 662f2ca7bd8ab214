package uow

import (
	"context"
	"sync"

	"user-center/internal/repository"
)

// FakeFactory hands out units of work over an in-memory repository. Each unit
// works on a private copy that is published to Store only on Commit.
type FakeFactory struct {
	Store     *repository.FakeUserRepository
	BeginErr  error
	CommitErr error

	mu    sync.Mutex
	units []*FakeUnitOfWork
}

func NewFakeFactory(store *repository.FakeUserRepository) *FakeFactory {
	if store == nil {
		store = repository.NewFakeUserRepository()
	}
	return &FakeFactory{Store: store}
}

func (f *FakeFactory) Begin(context.Context) (UnitOfWork, error) {
	if f.BeginErr != nil {
		return nil, f.BeginErr
	}
	w := &FakeUnitOfWork{store: f.Store, staged: f.Store.Clone(), commitErr: f.CommitErr}
	f.mu.Lock()
	f.units = append(f.units, w)
	f.mu.Unlock()
	return w, nil
}

// Units returns every unit of work begun so far.
func (f *FakeFactory) Units() []*FakeUnitOfWork {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeUnitOfWork(nil), f.units...)
}

type FakeUnitOfWork struct {
	mu        sync.Mutex
	store     *repository.FakeUserRepository
	staged    *repository.FakeUserRepository
	commitErr error
	done      bool

	Committed  bool
	RolledBack bool
	Closed     bool
}

func (w *FakeUnitOfWork) Users() repository.UserRepository { return w.staged }

func (w *FakeUnitOfWork) Commit(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return ErrClosed
	}
	w.done = true
	if w.commitErr != nil {
		w.RolledBack = true
		return w.commitErr
	}
	w.store.Replace(w.staged)
	w.Committed = true
	return nil
}

func (w *FakeUnitOfWork) Rollback(context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.done {
		return nil
	}
	w.done = true
	w.RolledBack = true
	return nil
}

func (w *FakeUnitOfWork) Close(ctx context.Context) {
	_ = w.Rollback(ctx)
	w.mu.Lock()
	w.Closed = true
	w.mu.Unlock()
}
