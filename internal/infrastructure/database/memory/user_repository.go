package memory

import (
	"context"
	"slices"
	"sort"

	"ecommerce-multivendor/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) user.Repository {
	return &UserRepository{store: store}
}

func (r *UserRepository) FindByEmailAndStatus(_ context.Context, email string, status user.Status) (*user.User, error) {
	return r.latest(func(u *user.User) bool {
		return u.Email == email && u.Status == status
	})
}

func (r *UserRepository) FindByEmailAndRole(_ context.Context, email string, role user.Role) ([]*user.User, error) {
	users := r.filter(func(u *user.User) bool {
		return u.Email == email && u.Role == role
	})
	slices.Reverse(users)
	return users, nil
}

func (r *UserRepository) FindByRole(_ context.Context, role user.Role) ([]*user.User, error) {
	return r.filter(func(u *user.User) bool { return u.Role == role }), nil
}

func (r *UserRepository) FindByID(_ context.Context, id uint) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return r.hydrate(u), nil
}

// FindByIDForUpdate needs no row lock here: WithinTransaction already
// serialises writers.
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uint) (*user.User, error) {
	return r.FindByID(ctx, id)
}

func (r *UserRepository) FindByEmailRoleAndStatus(_ context.Context, email string, role user.Role, status user.Status) (*user.User, error) {
	return r.latest(func(u *user.User) bool {
		return u.Email == email && u.Role == role && u.Status == status
	})
}

func (r *UserRepository) FindBySellerRoleAndStatuses(_ context.Context, sellerID uint, role user.Role, statuses []user.Status) ([]*user.User, error) {
	return r.filter(func(u *user.User) bool {
		return u.SellerID != nil && *u.SellerID == sellerID &&
			u.Role == role &&
			slices.Contains(statuses, u.Status)
	}), nil
}

func (r *UserRepository) FindByRoleAndStatus(_ context.Context, role user.Role, status user.Status) ([]*user.User, error) {
	return r.filter(func(u *user.User) bool {
		return u.Role == role && u.Status == status
	}), nil
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.save(ctx, u)
}

// SaveAll writes every user or none of them.
func (r *UserRepository) SaveAll(ctx context.Context, users []*user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ctx, rollback := batch(ctx)
	for _, u := range users {
		if err := r.save(ctx, u); err != nil {
			rollback()
			return err
		}
	}
	return nil
}

// save enforces the same rule as the partial unique index in postgres: at
// most one active user per email. Callers hold the write lock.
func (r *UserRepository) save(ctx context.Context, u *user.User) error {
	if u.Status == user.StatusActive {
		for id, other := range r.store.users {
			if id != u.ID && other.Email == u.Email && other.Status == user.StatusActive {
				return user.ErrUserAlreadyExists
			}
		}
	}

	now := r.store.now()
	if u.ID == 0 {
		r.store.nextUserID++
		u.ID = r.store.nextUserID
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	remember(ctx, r.store.users, u.ID)

	stored := *u
	stored.Address = nil
	stored.Seller = nil
	stored.AddressID = copyUint(u.AddressID)
	stored.SellerID = copyUint(u.SellerID)
	r.store.users[u.ID] = stored

	return nil
}

// latest returns the matching user with the highest id, like the postgres
// lookups ordered by id DESC.
func (r *UserRepository) latest(match func(u *user.User) bool) (*user.User, error) {
	matches := r.filter(match)
	if len(matches) == 0 {
		return nil, user.ErrUserNotFound
	}
	return matches[len(matches)-1], nil
}

// filter returns hydrated copies of matching users ordered by id.
func (r *UserRepository) filter(match func(u *user.User) bool) []*user.User {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]*user.User, 0)
	for _, stored := range r.store.users {
		if match(&stored) {
			users = append(users, r.hydrate(stored))
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users
}

// hydrate attaches the address and seller one level deep. Callers hold at
// least the read lock.
func (r *UserRepository) hydrate(stored user.User) *user.User {
	u := stored
	u.AddressID = copyUint(stored.AddressID)
	u.SellerID = copyUint(stored.SellerID)

	if u.AddressID != nil {
		if a, ok := r.store.addresses[*u.AddressID]; ok {
			u.Address = &a
		}
	}
	if u.SellerID != nil {
		if s, ok := r.store.users[*u.SellerID]; ok {
			s.AddressID = copyUint(s.AddressID)
			s.SellerID = nil
			u.Seller = &s
		}
	}

	return &u
}
