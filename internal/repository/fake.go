package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"user-center/internal/model"
)

// FakeUserRepository is an in-memory UserRepository with the same ordering,
// filtering and uniqueness rules as the Postgres one. FailOn forces the named
// method ("Create", "List", ...) to return the given error.
type FakeUserRepository struct {
	mu     sync.Mutex
	users  map[string]model.User
	Clock  func() time.Time
	FailOn map[string]error
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{users: map[string]model.User{}}
}

func (f *FakeUserRepository) now() time.Time {
	if f.Clock != nil {
		return f.Clock()
	}
	return timeNow()
}

func (f *FakeUserRepository) fail(op string) error {
	if err, ok := f.FailOn[op]; ok {
		return err
	}
	return nil
}

// Clone copies the stored rows; used by fake units of work to stage changes.
func (f *FakeUserRepository) Clone() *FakeUserRepository {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := &FakeUserRepository{users: make(map[string]model.User, len(f.users)), Clock: f.Clock, FailOn: f.FailOn}
	for k, v := range f.users {
		c.users[k] = v
	}
	return c
}

// Replace swaps in the rows of other, publishing staged changes.
func (f *FakeUserRepository) Replace(other *FakeUserRepository) {
	snapshot := other.Clone()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = snapshot.users
}

// Len is the number of stored users.
func (f *FakeUserRepository) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func (f *FakeUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	if err := f.fail("GetByID"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *FakeUserRepository) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if err := f.fail("GetByUsername"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *FakeUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	if err := f.fail("Exists"); err != nil {
		return false, err
	}
	u, err := f.GetByID(ctx, id)
	return u != nil, err
}

func (f *FakeUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if err := f.fail("ExistsByUsername"); err != nil {
		return false, err
	}
	u, err := f.GetByUsername(ctx, username)
	return u != nil, err
}

func (f *FakeUserRepository) Count(context.Context) (int, error) {
	if err := f.fail("Count"); err != nil {
		return 0, err
	}
	return f.Len(), nil
}

func (f *FakeUserRepository) List(_ context.Context, filter UserFilter) ([]model.User, int, error) {
	if err := f.fail("List"); err != nil {
		return nil, 0, err
	}
	f.mu.Lock()
	matched := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		if filter.IsActive == nil || u.IsActive == *filter.IsActive {
			matched = append(matched, u)
		}
	}
	f.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := len(matched)
	start := min(max(filter.Skip, 0), total)
	end := min(start+max(filter.Limit, 0), total)
	return matched[start:end], total, nil
}

func (f *FakeUserRepository) Create(_ context.Context, u *model.User) error {
	if err := f.fail("Create"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID == "" {
		u.ID = newID()
	}
	if _, ok := f.users[u.ID]; ok {
		return fmt.Errorf("CreateUser: %w: users_pkey", ErrDuplicate)
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return fmt.Errorf("CreateUser: %w: users_username_key", ErrDuplicate)
		}
	}
	now := f.now()
	u.CreatedAt = now
	u.UpdatedAt = now
	f.users[u.ID] = *u
	return nil
}

func (f *FakeUserRepository) Update(_ context.Context, u *model.User) error {
	if err := f.fail("Update"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return nil
	}
	u.UpdatedAt = f.now()
	f.users[u.ID] = *u
	return nil
}

func (f *FakeUserRepository) Delete(_ context.Context, u *model.User) error {
	if err := f.fail("Delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, u.ID)
	return nil
}
