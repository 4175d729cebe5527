package user

import (
	"context"
)

// Repository is the credential store for users. Lookups of a single user
// return ErrUserNotFound when nothing matches and the newest match otherwise;
// list lookups return an empty slice.
type Repository interface {
	FindByEmailAndStatus(ctx context.Context, email string, status Status) (*User, error)
	// FindByEmailAndRole returns every user with the email and role, whatever
	// the status, newest first.
	FindByEmailAndRole(ctx context.Context, email string, role Role) ([]*User, error)
	FindByRole(ctx context.Context, role Role) ([]*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByIDForUpdate locks the row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*User, error)
	FindByEmailRoleAndStatus(ctx context.Context, email string, role Role, status Status) (*User, error)
	FindBySellerRoleAndStatuses(ctx context.Context, sellerID uint, role Role, statuses []Status) ([]*User, error)
	FindByRoleAndStatus(ctx context.Context, role Role, status Status) ([]*User, error)

	// Save inserts u when u.ID is zero and updates it otherwise.
	Save(ctx context.Context, u *User) error
	SaveAll(ctx context.Context, users []*User) error
}
