package address

import (
	"context"
	"time"
)

// Address is owned by exactly one user and created just before it.
type Address struct {
	ID        uint
	Street    string
	City      string
	Pincode   string
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Address) error
}
