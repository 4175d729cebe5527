package user

import (
	"time"

	"ecommerce-multivendor/internal/domain/address"
)

// Role identifies what a user may do on the marketplace.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSeller   Role = "seller"
	RoleCustomer Role = "customer"
	RoleDelivery Role = "delivery"
)

// Status is the lifecycle state of a user. Users are never hard-deleted.
type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

// ParseRole returns the role named by s.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSeller, RoleCustomer, RoleDelivery:
		return r, true
	}
	return "", false
}

// ParseStatus returns the status named by s.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusActive, StatusDeactivated:
		return st, true
	}
	return "", false
}

// User represents an account of any role.
//
// AddressID and SellerID are the persisted references; Address and Seller are
// populated by repositories when the referenced records exist.
type User struct {
	ID             uint
	FirstName      string
	LastName       string
	Email          string
	PasswordHashed string
	Phone          string
	Role           Role
	Status         Status
	AddressID      *uint
	Address        *address.Address
	SellerID       *uint
	Seller         *User
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Deactivate marks the user as soft-deleted.
func (u *User) Deactivate() {
	u.Status = StatusDeactivated
}
