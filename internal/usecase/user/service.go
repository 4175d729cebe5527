package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce-multivendor/internal/domain/address"
	"ecommerce-multivendor/internal/domain/event"
	"ecommerce-multivendor/internal/domain/product"
	"ecommerce-multivendor/internal/domain/transaction"
	domainUser "ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/logger"
	"ecommerce-multivendor/internal/usecase/auth"
	appErrors "ecommerce-multivendor/pkg/errors"
	"ecommerce-multivendor/pkg/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// StatusAll asks FetchUsersByRole for users of every status.
const StatusAll = "all"

// Service implements account use cases
type Service struct {
	userRepo      domainUser.Repository
	addressRepo   address.Repository
	productRepo   product.Repository
	transactor    transaction.Transactor
	authenticator *auth.Authenticator
	publisher     event.Publisher
}

// NewService creates a new account service. A nil publisher drops events.
func NewService(
	userRepo domainUser.Repository,
	addressRepo address.Repository,
	productRepo product.Repository,
	transactor transaction.Transactor,
	authenticator *auth.Authenticator,
	publisher event.Publisher,
) *Service {
	if publisher == nil {
		publisher = event.NopPublisher{}
	}

	return &Service{
		userRepo:      userRepo,
		addressRepo:   addressRepo,
		productRepo:   productRepo,
		transactor:    transactor,
		authenticator: authenticator,
		publisher:     publisher,
	}
}

func (s *Service) RegisterAdmin(ctx context.Context, req *RegisterAdminRequest) (*UserResponse, error) {
	if req == nil {
		return nil, appErrors.Validation("Missing input", appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Missing input", err)
	}

	if err := s.ensureEmailAvailable(ctx, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &domainUser.User{
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		Role:           domainUser.RoleAdmin,
		Status:         domainUser.StatusActive,
	}

	if err := s.userRepo.Save(ctx, admin); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			return nil, appErrors.DuplicateAccount("User already registered with this email")
		}
		logger.Error("Failed to register admin",
			zap.String("email", req.Email),
			zap.Error(err),
			zap.String("event", "admin_registration_failed"),
		)
		return nil, appErrors.PersistenceFailure("Failed to register admin", err)
	}

	logger.Info("Admin registered successfully",
		zap.Uint("user_id", admin.ID),
		zap.String("email", admin.Email),
		zap.String("event", "admin_registered"),
	)

	s.publish(ctx, event.Event{
		Type:   event.UserRegistered,
		UserID: admin.ID,
		Role:   string(admin.Role),
		Status: string(admin.Status),
	})

	return ToUserResponse(admin), nil
}

// RegisterUser creates the address and then the user in one transaction. A
// delivery person's seller is resolved before anything is written.
func (s *Service) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*UserResponse, error) {
	if req == nil {
		return nil, appErrors.Validation("Missing input", appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	role, _ := domainUser.ParseRole(req.Role)

	if err := s.ensureEmailAvailable(ctx, req.Email); err != nil {
		return nil, err
	}

	var seller *domainUser.User
	if role == domainUser.RoleDelivery {
		var err error
		seller, err = s.resolveSeller(ctx, req.SellerID)
		if err != nil {
			return nil, err
		}
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	addr := &address.Address{
		Street:  req.Street,
		City:    req.City,
		Pincode: req.Pincode,
	}
	newUser := &domainUser.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHashed: hashedPassword,
		Phone:          req.Phone,
		Role:           role,
		Status:         domainUser.StatusActive,
	}
	if seller != nil {
		newUser.SellerID = &seller.ID
	}

	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.addressRepo.Create(ctx, addr); err != nil {
			return err
		}
		newUser.AddressID = &addr.ID
		return s.userRepo.Save(ctx, newUser)
	})
	if err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			return nil, appErrors.DuplicateAccount("User with this email is already registered")
		}
		logger.Error("Failed to register user",
			zap.String("email", req.Email),
			zap.String("role", req.Role),
			zap.Error(err),
			zap.String("event", "user_registration_failed"),
		)
		return nil, appErrors.PersistenceFailure("Failed to register user", err)
	}

	newUser.Address = addr
	newUser.Seller = seller

	logger.Info("User registered successfully",
		zap.Uint("user_id", newUser.ID),
		zap.String("email", newUser.Email),
		zap.String("role", string(newUser.Role)),
		zap.String("event", "user_registered"),
	)

	evt := event.Event{
		Type:   event.UserRegistered,
		UserID: newUser.ID,
		Role:   string(newUser.Role),
		Status: string(newUser.Status),
	}
	if seller != nil {
		evt.Attributes = map[string]uint64{"seller_id": uint64(seller.ID)}
	}
	s.publish(ctx, evt)

	return ToUserResponse(newUser), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req == nil {
		return nil, appErrors.Validation("Missing input", appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		if invalidField(err) == "Role" && req.Role != "" {
			return nil, appErrors.Validation("Invalid role "+req.Role, err)
		}
		return nil, appErrors.Validation("Missing input", err)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}

	if !user.IsActive() {
		logger.Warn("Login attempt for inactive user",
			zap.Uint("user_id", user.ID),
			zap.String("email", req.Email),
			zap.String("event", "login_failed_inactive_user"),
		)
		return nil, appErrors.AccountNotFound("User not found or inactive.")
	}

	token, expiresAt, err := s.authenticator.IssueToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("event", "user_logged_in"),
	)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserResponse(user),
	}, nil
}

// FetchUsersByRole lists active users of a role by default. status may also
// be "deactivated" or StatusAll. An empty list is not an error.
func (s *Service) FetchUsersByRole(ctx context.Context, role, status string) (*UsersResponse, error) {
	if role == "" {
		return nil, appErrors.Validation("Missing role", appErrors.ErrInvalidInput)
	}
	parsedRole, ok := domainUser.ParseRole(role)
	if !ok {
		return nil, appErrors.Validation("Unknown role "+role, appErrors.ErrInvalidInput)
	}

	var (
		users []*domainUser.User
		err   error
	)
	switch status {
	case "":
		users, err = s.userRepo.FindByRoleAndStatus(ctx, parsedRole, domainUser.StatusActive)
	case StatusAll:
		users, err = s.userRepo.FindByRole(ctx, parsedRole)
	default:
		parsedStatus, ok := domainUser.ParseStatus(status)
		if !ok {
			return nil, appErrors.Validation("Unknown status "+status, appErrors.ErrInvalidInput)
		}
		users, err = s.userRepo.FindByRoleAndStatus(ctx, parsedRole, parsedStatus)
	}
	if err != nil {
		return nil, appErrors.PersistenceFailure("Failed to fetch users", err)
	}

	return ToUsersResponse(users), nil
}

// FetchDeliveryPersonsBySeller lists the active delivery persons of a seller.
// A non-zero scope is the id of the calling seller: it defaults sellerID and
// any other seller is refused.
func (s *Service) FetchDeliveryPersonsBySeller(ctx context.Context, sellerID, scope uint) (*UsersResponse, error) {
	if scope != 0 {
		if sellerID == 0 {
			sellerID = scope
		}
		if sellerID != scope {
			logger.Warn("Seller asked for another seller's delivery persons",
				zap.Uint("caller_id", scope),
				zap.Uint("seller_id", sellerID),
				zap.String("event", "delivery_person_access_denied"),
			)
			return nil, appErrors.Forbidden("Sellers can only view their own delivery persons")
		}
	}
	if sellerID == 0 {
		return nil, appErrors.Validation("Missing seller id", appErrors.ErrInvalidInput)
	}

	if _, err := s.resolveSeller(ctx, sellerID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindBySellerRoleAndStatuses(ctx, sellerID, domainUser.RoleDelivery,
		[]domainUser.Status{domainUser.StatusActive})
	if err != nil {
		return nil, appErrors.PersistenceFailure("Failed to fetch delivery persons", err)
	}

	return ToUsersResponse(users), nil
}

func (s *Service) UpdateUserStatus(ctx context.Context, req *UpdateUserStatusRequest) (*UserResponse, error) {
	if req == nil {
		return nil, appErrors.Validation("Missing input", appErrors.ErrInvalidInput)
	}
	if err := utils.ValidateStruct(req); err != nil {
		if invalidField(err) == "UserID" {
			return nil, appErrors.Validation("Missing user id", err)
		}
		return nil, appErrors.Validation("Invalid status "+req.Status, err)
	}
	status := domainUser.Status(req.Status)

	user, err := s.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.AccountNotFound(fmt.Sprintf("User not found with ID: %d", req.UserID))
		}
		return nil, appErrors.PersistenceFailure("Failed to update user status", err)
	}

	previous := user.Status
	user.Status = status

	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			return nil, appErrors.DuplicateAccount("Another active account uses this email")
		}
		logger.Error("Failed to update user status",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
			zap.String("event", "user_status_update_failed"),
		)
		return nil, appErrors.PersistenceFailure("Failed to update user status", err)
	}

	logger.Info("User status updated",
		zap.Uint("user_id", user.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
		zap.String("event", "user_status_updated"),
	)

	s.publish(ctx, event.Event{
		Type:   event.UserStatusChanged,
		UserID: user.ID,
		Role:   string(user.Role),
		Status: string(user.Status),
	})

	return ToUserResponse(user), nil
}

// DeactivateSeller deactivates the seller, its active delivery persons and
// its active products. Either all of them change or none do.
func (s *Service) DeactivateSeller(ctx context.Context, sellerID uint) (*DeactivateSellerResponse, error) {
	if sellerID == 0 {
		return nil, appErrors.Validation("Missing seller id", appErrors.ErrInvalidInput)
	}

	summary := &DeactivateSellerResponse{SellerID: sellerID}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		seller, err := s.userRepo.FindByIDForUpdate(ctx, sellerID)
		if err != nil {
			if errors.Is(err, domainUser.ErrUserNotFound) {
				return appErrors.ReferenceNotFound("Seller not found")
			}
			return appErrors.PersistenceFailure("Failed to load the seller", err)
		}
		if seller.Role != domainUser.RoleSeller {
			return appErrors.Validation("User is not a seller", appErrors.ErrInvalidInput)
		}

		deliveryPersons, err := s.userRepo.FindBySellerRoleAndStatuses(ctx, sellerID, domainUser.RoleDelivery,
			[]domainUser.Status{domainUser.StatusActive})
		if err != nil {
			return appErrors.PersistenceFailure("Failed to load the seller's delivery persons", err)
		}

		products, err := s.productRepo.FindBySellerAndStatuses(ctx, sellerID,
			[]product.Status{product.StatusActive})
		if err != nil {
			return appErrors.PersistenceFailure("Failed to load the seller's products", err)
		}

		seller.Deactivate()
		if err := s.userRepo.Save(ctx, seller); err != nil {
			return appErrors.PersistenceFailure("Failed to deactivate the seller", err)
		}

		if len(deliveryPersons) > 0 {
			for _, d := range deliveryPersons {
				d.Deactivate()
			}
			if err := s.userRepo.SaveAll(ctx, deliveryPersons); err != nil {
				return appErrors.PersistenceFailure("Failed to deactivate the seller's delivery persons", err)
			}
		}

		if len(products) > 0 {
			for _, p := range products {
				p.Deactivate()
			}
			if err := s.productRepo.SaveAll(ctx, products); err != nil {
				return appErrors.PersistenceFailure("Failed to deactivate the seller's products", err)
			}
		}

		summary.DeliveryPersonsDeactivated = len(deliveryPersons)
		summary.ProductsDeactivated = len(products)
		return nil
	})
	if err != nil {
		logger.Warn("Seller deactivation failed",
			zap.Uint("seller_id", sellerID),
			zap.Error(err),
			zap.String("event", "seller_deactivation_failed"),
		)
		if appErrors.CodeOf(err) == "" {
			return nil, appErrors.PersistenceFailure("Failed to deactivate the seller", err)
		}
		return nil, err
	}

	logger.Info("Seller deactivated",
		zap.Uint("seller_id", sellerID),
		zap.Int("delivery_persons", summary.DeliveryPersonsDeactivated),
		zap.Int("products", summary.ProductsDeactivated),
		zap.String("event", "seller_deactivated"),
	)

	s.publish(ctx, event.Event{
		Type:   event.SellerDeactivated,
		UserID: sellerID,
		Role:   string(domainUser.RoleSeller),
		Status: string(domainUser.StatusDeactivated),
		Attributes: map[string]uint64{
			"delivery_persons_deactivated": uint64(summary.DeliveryPersonsDeactivated),
			"products_deactivated":         uint64(summary.ProductsDeactivated),
		},
	})

	return summary, nil
}

// DeactivateDeliveryPerson marks a delivery person deactivated. A non-zero
// scope restricts it to the delivery persons of that seller.
func (s *Service) DeactivateDeliveryPerson(ctx context.Context, deliveryID, scope uint) (*UserResponse, error) {
	if deliveryID == 0 {
		return nil, appErrors.Validation("Missing delivery person id", appErrors.ErrInvalidInput)
	}

	deliveryPerson, err := s.userRepo.FindByID(ctx, deliveryID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.AccountNotFound("Delivery person not found")
		}
		return nil, appErrors.PersistenceFailure("Failed to load the delivery person", err)
	}
	if deliveryPerson.Role != domainUser.RoleDelivery {
		return nil, appErrors.Validation("User is not a delivery person", appErrors.ErrInvalidInput)
	}
	if scope != 0 && (deliveryPerson.SellerID == nil || *deliveryPerson.SellerID != scope) {
		logger.Warn("Seller tried to deactivate another seller's delivery person",
			zap.Uint("caller_id", scope),
			zap.Uint("delivery_person_id", deliveryID),
			zap.String("event", "delivery_person_access_denied"),
		)
		return nil, appErrors.Forbidden("Sellers can only deactivate their own delivery persons")
	}

	deliveryPerson.Deactivate()
	if err := s.userRepo.Save(ctx, deliveryPerson); err != nil {
		return nil, appErrors.PersistenceFailure("Failed to deactivate the delivery person", err)
	}

	logger.Info("Delivery person deactivated",
		zap.Uint("delivery_person_id", deliveryID),
		zap.String("event", "delivery_person_deactivated"),
	)

	evt := event.Event{
		Type:   event.DeliveryPersonDeactivated,
		UserID: deliveryID,
		Role:   string(domainUser.RoleDelivery),
		Status: string(domainUser.StatusDeactivated),
	}
	if deliveryPerson.SellerID != nil {
		evt.Attributes = map[string]uint64{"seller_id": uint64(*deliveryPerson.SellerID)}
	}
	s.publish(ctx, evt)

	return ToUserResponse(deliveryPerson), nil
}

func (s *Service) GetProfile(ctx context.Context, userID uint) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.AccountNotFound("User not found")
		}
		return nil, appErrors.PersistenceFailure("Failed to load profile", err)
	}

	return ToUserResponse(user), nil
}

func (s *Service) ensureEmailAvailable(ctx context.Context, email string) error {
	_, err := s.userRepo.FindByEmailAndStatus(ctx, email, domainUser.StatusActive)
	if err == nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return appErrors.DuplicateAccount("User with this email is already registered")
	}
	if !errors.Is(err, domainUser.ErrUserNotFound) {
		return appErrors.PersistenceFailure("Failed to check existing user", err)
	}
	return nil
}

// resolveSeller loads the user a delivery person points at and requires it to
// be a seller.
func (s *Service) resolveSeller(ctx context.Context, sellerID uint) (*domainUser.User, error) {
	seller, err := s.userRepo.FindByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, appErrors.ReferenceNotFound("Seller not found")
		}
		return nil, appErrors.PersistenceFailure("Failed to load the seller", err)
	}
	if seller.Role != domainUser.RoleSeller {
		return nil, appErrors.ReferenceNotFound("Seller not found")
	}
	return seller, nil
}

// publish runs after the write has committed. Delivery failures are logged
// and never reach the caller.
func (s *Service) publish(ctx context.Context, evt event.Event) {
	evt.OccurredAt = time.Now().UTC()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Warn("Failed to publish account event",
			zap.String("type", string(evt.Type)),
			zap.Uint("user_id", evt.UserID),
			zap.Error(err),
		)
	}
}

// invalidField names the first struct field that failed validation.
func invalidField(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return ""
}
