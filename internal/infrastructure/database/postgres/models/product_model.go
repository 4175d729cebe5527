package models

import (
	"time"
)

// ProductModel represents the database model for Product
type ProductModel struct {
	ID          uint       `gorm:"primaryKey"`
	Name        string     `gorm:"type:varchar(255);not null"`
	Description string     `gorm:"type:text"`
	Price       float64    `gorm:"type:numeric(12,2);not null;default:0"`
	Quantity    int        `gorm:"not null;default:0"`
	SellerID    uint       `gorm:"not null;index:idx_products_seller_status"`
	Seller      *UserModel `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active';index:idx_products_seller_status"`
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

func (ProductModel) TableName() string {
	return "products"
}
