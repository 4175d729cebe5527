package postgres

import (
	"context"
	"fmt"

	"ecommerce-multivendor/internal/domain/address"
	"ecommerce-multivendor/internal/infrastructure/database/postgres/models"
)

type AddressRepository struct {
	db *DB
}

func NewAddressRepository(db *DB) address.Repository {
	return &AddressRepository{db: db}
}

func (r *AddressRepository) Create(ctx context.Context, a *address.Address) error {
	dbModel := &models.AddressModel{
		Street:  a.Street,
		City:    a.City,
		Pincode: a.Pincode,
	}
	if err := r.db.conn(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}

	a.ID = dbModel.ID
	a.CreatedAt = dbModel.CreatedAt

	return nil
}
