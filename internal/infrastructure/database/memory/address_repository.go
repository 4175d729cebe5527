package memory

import (
	"context"

	"ecommerce-multivendor/internal/domain/address"
)

type AddressRepository struct {
	store *Store
}

func NewAddressRepository(store *Store) address.Repository {
	return &AddressRepository{store: store}
}

func (r *AddressRepository) Create(ctx context.Context, a *address.Address) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextAddressID++
	a.ID = r.store.nextAddressID
	a.CreatedAt = r.store.now()
	remember(ctx, r.store.addresses, a.ID)
	r.store.addresses[a.ID] = *a

	return nil
}
