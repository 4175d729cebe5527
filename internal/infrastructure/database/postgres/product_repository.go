package postgres

import (
	"context"
	"fmt"

	"ecommerce-multivendor/internal/domain/product"
	"ecommerce-multivendor/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) product.Repository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	dbModel := toProductModel(p)
	if dbModel.Status == "" {
		dbModel.Status = string(product.StatusActive)
	}
	if err := r.db.conn(ctx).Omit(clause.Associations).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	p.ID = dbModel.ID
	p.Status = product.Status(dbModel.Status)
	p.CreatedAt = dbModel.CreatedAt
	p.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *ProductRepository) FindBySellerAndStatuses(ctx context.Context, sellerID uint, statuses []product.Status) ([]*product.Product, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}

	var dbModels []models.ProductModel
	err := r.db.conn(ctx).
		Where("seller_id = ? AND status IN ?", sellerID, values).
		Order("id").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	products := make([]*product.Product, len(dbModels))
	for i := range dbModels {
		products[i] = toProductEntity(&dbModels[i])
	}

	return products, nil
}

func (r *ProductRepository) SaveAll(ctx context.Context, products []*product.Product) error {
	if len(products) == 0 {
		return nil
	}

	return r.db.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range products {
			dbModel := toProductModel(p)
			if err := tx.Omit(clause.Associations).Save(dbModel).Error; err != nil {
				return fmt.Errorf("failed to save product %d: %w", p.ID, err)
			}
			p.ID = dbModel.ID
			p.UpdatedAt = dbModel.UpdatedAt
		}
		return nil
	})
}

func toProductModel(p *product.Product) *models.ProductModel {
	return &models.ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		SellerID:    p.SellerID,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductEntity(m *models.ProductModel) *product.Product {
	return &product.Product{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Quantity:    m.Quantity,
		SellerID:    m.SellerID,
		Status:      product.Status(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
