package memory

import (
	"context"
	"slices"
	"sort"

	"ecommerce-multivendor/internal/domain/product"
)

type ProductRepository struct {
	store *Store
}

func NewProductRepository(store *Store) product.Repository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if p.Status == "" {
		p.Status = product.StatusActive
	}
	now := r.store.now()
	r.store.nextProductID++
	p.ID = r.store.nextProductID
	p.CreatedAt = now
	p.UpdatedAt = now
	remember(ctx, r.store.products, p.ID)
	r.store.products[p.ID] = *p

	return nil
}

func (r *ProductRepository) FindBySellerAndStatuses(_ context.Context, sellerID uint, statuses []product.Status) ([]*product.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	products := make([]*product.Product, 0)
	for _, stored := range r.store.products {
		if stored.SellerID == sellerID && slices.Contains(statuses, stored.Status) {
			p := stored
			products = append(products, &p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })

	return products, nil
}

func (r *ProductRepository) SaveAll(ctx context.Context, products []*product.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	for _, p := range products {
		if p.ID == 0 {
			r.store.nextProductID++
			p.ID = r.store.nextProductID
			p.CreatedAt = now
		}
		p.UpdatedAt = now
		remember(ctx, r.store.products, p.ID)
		r.store.products[p.ID] = *p
	}

	return nil
}
