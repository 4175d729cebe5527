package user

import (
	"time"

	domainUser "ecommerce-multivendor/internal/domain/user"
)

type RegisterAdminRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterUserRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,phone"`
	Street    string `json:"street" validate:"omitempty,max=255"`
	City      string `json:"city" validate:"omitempty,max=100"`
	Pincode   string `json:"pincode" validate:"omitempty,max=20"`
	Role      string `json:"role" validate:"required,oneof=seller customer delivery"`
	// SellerID is the employing seller of a delivery person.
	SellerID uint `json:"seller_id" validate:"required_if=Role delivery"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,user_role"`
}

type UpdateUserStatusRequest struct {
	UserID uint   `json:"user_id" validate:"required"`
	Status string `json:"status" validate:"required,user_status"`
}

type AddressResponse struct {
	ID      uint   `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// UserResponse is the public projection of a user. It never carries the
// password hash.
type UserResponse struct {
	ID        uint             `json:"id"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	Role      string           `json:"role"`
	Status    string           `json:"status"`
	Address   *AddressResponse `json:"address,omitempty"`
	Seller    *UserResponse    `json:"seller,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt int64         `json:"expires_at"`
	User      *UserResponse `json:"user"`
}

type UsersResponse struct {
	Users []*UserResponse `json:"users"`
}

type DeactivateSellerResponse struct {
	SellerID                   uint `json:"seller_id"`
	DeliveryPersonsDeactivated int  `json:"delivery_persons_deactivated"`
	ProductsDeactivated        int  `json:"products_deactivated"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}

	resp := &UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}

	if u.Address != nil {
		resp.Address = &AddressResponse{
			ID:      u.Address.ID,
			Street:  u.Address.Street,
			City:    u.Address.City,
			Pincode: u.Address.Pincode,
		}
	}

	// Only delivery persons embed their seller.
	if u.Role == domainUser.RoleDelivery && u.Seller != nil {
		resp.Seller = ToUserResponse(u.Seller)
	}

	return resp
}

func ToUsersResponse(users []*domainUser.User) *UsersResponse {
	resp := &UsersResponse{Users: make([]*UserResponse, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, ToUserResponse(u))
	}
	return resp
}
