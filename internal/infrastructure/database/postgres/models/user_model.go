package models

import (
	"time"
)

// UserModel represents the database model for User. Email is unique among
// active users only, so a deactivated account does not block re-registration.
type UserModel struct {
	ID             uint          `gorm:"primaryKey"`
	FirstName      string        `gorm:"type:varchar(100)"`
	LastName       string        `gorm:"type:varchar(100)"`
	Email          string        `gorm:"type:varchar(255);not null;index:idx_users_active_email,unique,where:status = 'active'"`
	PasswordHashed string        `gorm:"type:varchar(255);not null"`
	Phone          string        `gorm:"type:varchar(20)"`
	Role           string        `gorm:"type:varchar(20);not null;index"`
	Status         string        `gorm:"type:varchar(20);not null;default:'active';index"`
	AddressID      *uint         `gorm:"uniqueIndex"`
	Address        *AddressModel `gorm:"foreignKey:AddressID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	SellerID       *uint         `gorm:"index"`
	Seller         *UserModel    `gorm:"foreignKey:SellerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	CreatedAt      time.Time     `gorm:"not null"`
	UpdatedAt      time.Time     `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

// AddressModel represents the database model for Address
type AddressModel struct {
	ID        uint      `gorm:"primaryKey"`
	Street    string    `gorm:"type:varchar(255)"`
	City      string    `gorm:"type:varchar(100)"`
	Pincode   string    `gorm:"type:varchar(20)"`
	CreatedAt time.Time `gorm:"not null"`
}

func (AddressModel) TableName() string {
	return "addresses"
}
