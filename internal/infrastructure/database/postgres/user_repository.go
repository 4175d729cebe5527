package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecommerce-multivendor/internal/domain/address"
	"ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/infrastructure/database/postgres/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// UserRepository implements domain.User.Repository interface
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmailAndStatus(ctx context.Context, email string, status user.Status) (*user.User, error) {
	return r.first(r.withRefs(ctx).Where("email = ? AND status = ?", email, string(status)).Order("id DESC"))
}

func (r *UserRepository) FindByEmailAndRole(ctx context.Context, email string, role user.Role) ([]*user.User, error) {
	return r.find(r.withRefs(ctx).Where("email = ? AND role = ?", email, string(role)).Order("id DESC"))
}

func (r *UserRepository) FindByRole(ctx context.Context, role user.Role) ([]*user.User, error) {
	return r.find(r.withRefs(ctx).Where("role = ?", string(role)).Order("id"))
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(r.withRefs(ctx).Where("id = ?", id))
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uint) (*user.User, error) {
	return r.first(r.db.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id))
}

func (r *UserRepository) FindByEmailRoleAndStatus(ctx context.Context, email string, role user.Role, status user.Status) (*user.User, error) {
	return r.first(r.withRefs(ctx).
		Where("email = ? AND role = ? AND status = ?", email, string(role), string(status)).
		Order("id DESC"))
}

func (r *UserRepository) FindBySellerRoleAndStatuses(ctx context.Context, sellerID uint, role user.Role, statuses []user.Status) ([]*user.User, error) {
	return r.find(r.withRefs(ctx).
		Where("seller_id = ? AND role = ? AND status IN ?", sellerID, string(role), statusStrings(statuses)).
		Order("id"))
}

func (r *UserRepository) FindByRoleAndStatus(ctx context.Context, role user.Role, status user.Status) ([]*user.User, error) {
	return r.find(r.withRefs(ctx).Where("role = ? AND status = ?", string(role), string(status)).Order("id"))
}

func (r *UserRepository) Save(ctx context.Context, u *user.User) error {
	dbModel := toUserModel(u)
	if err := r.db.conn(ctx).Omit(clause.Associations).Save(dbModel).Error; err != nil {
		if isUniqueViolation(err) {
			return user.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to save user: %w", err)
	}

	u.ID = dbModel.ID
	u.CreatedAt = dbModel.CreatedAt
	u.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *UserRepository) SaveAll(ctx context.Context, users []*user.User) error {
	if len(users) == 0 {
		return nil
	}

	return r.db.conn(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range users {
			dbModel := toUserModel(u)
			if err := tx.Omit(clause.Associations).Save(dbModel).Error; err != nil {
				if isUniqueViolation(err) {
					return user.ErrUserAlreadyExists
				}
				return fmt.Errorf("failed to save user %d: %w", u.ID, err)
			}
			u.ID = dbModel.ID
			u.UpdatedAt = dbModel.UpdatedAt
		}
		return nil
	})
}

func (r *UserRepository) withRefs(ctx context.Context) *gorm.DB {
	return r.db.conn(ctx).Preload("Address").Preload("Seller")
}

func (r *UserRepository) first(query *gorm.DB) (*user.User, error) {
	var dbModel models.UserModel
	err := query.Take(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) find(query *gorm.DB) ([]*user.User, error) {
	var dbModels []models.UserModel
	if err := query.Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "duplicate key")
}

func statusStrings(statuses []user.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Helper functions to convert between domain entities and database models

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		PasswordHashed: u.PasswordHashed,
		Phone:          u.Phone,
		Role:           string(u.Role),
		Status:         string(u.Status),
		AddressID:      u.AddressID,
		SellerID:       u.SellerID,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	u := &user.User{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		PasswordHashed: m.PasswordHashed,
		Phone:          m.Phone,
		Role:           user.Role(m.Role),
		Status:         user.Status(m.Status),
		AddressID:      m.AddressID,
		SellerID:       m.SellerID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
	if m.Address != nil {
		u.Address = toAddressEntity(m.Address)
	}
	if m.Seller != nil {
		u.Seller = toUserEntity(m.Seller)
	}
	return u
}

func toAddressEntity(m *models.AddressModel) *address.Address {
	return &address.Address{
		ID:        m.ID,
		Street:    m.Street,
		City:      m.City,
		Pincode:   m.Pincode,
		CreatedAt: m.CreatedAt,
	}
}
