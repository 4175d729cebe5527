package product

import (
	"context"
	"time"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

// Product is listed by a seller. This service only changes its status.
type Product struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Quantity    int
	SellerID    uint
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) Deactivate() {
	p.Status = StatusDeactivated
}

type Repository interface {
	Create(ctx context.Context, p *Product) error
	FindBySellerAndStatuses(ctx context.Context, sellerID uint, statuses []Status) ([]*Product, error)
	SaveAll(ctx context.Context, products []*Product) error
}
