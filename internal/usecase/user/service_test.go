package user

import (
	"context"
	"errors"
	"testing"

	"ecommerce-multivendor/internal/config"
	"ecommerce-multivendor/internal/domain/event"
	"ecommerce-multivendor/internal/domain/product"
	domainUser "ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/infrastructure/database/memory"
	"ecommerce-multivendor/internal/mocks"
	"ecommerce-multivendor/internal/usecase/auth"
	appErrors "ecommerce-multivendor/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	store    *memory.Store
	users    domainUser.Repository
	products product.Repository
	service  *Service
}

type option func(f *fixture)

func withProductRepo(wrap func(product.Repository) product.Repository) option {
	return func(f *fixture) { f.products = wrap(f.products) }
}

func newFixture(t *testing.T, publisher event.Publisher, opts ...option) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:    store,
		users:    memory.NewUserRepository(store),
		products: memory.NewProductRepository(store),
	}
	for _, opt := range opts {
		opt(f)
	}

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}}
	f.service = NewService(
		f.users,
		memory.NewAddressRepository(store),
		f.products,
		store,
		auth.NewAuthenticator(f.users, cfg),
		publisher,
	)
	return f
}

func (f *fixture) register(t *testing.T, req *RegisterUserRequest) *UserResponse {
	t.Helper()
	resp, err := f.service.RegisterUser(context.Background(), req)
	require.NoError(t, err)
	return resp
}

func sellerRequest(email string) *RegisterUserRequest {
	return &RegisterUserRequest{
		FirstName: "Sam",
		LastName:  "Seller",
		Email:     email,
		Password:  "p",
		Street:    "12 Market Rd",
		City:      "Pune",
		Pincode:   "411001",
		Role:      "seller",
	}
}

func deliveryRequest(email string, sellerID uint) *RegisterUserRequest {
	return &RegisterUserRequest{
		Email:    email,
		Password: "p",
		City:     "Pune",
		Role:     "delivery",
		SellerID: sellerID,
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, appErrors.CodeOf(err), "error: %v", err)
}

type failingProductRepo struct {
	product.Repository
	err error
}

func (r failingProductRepo) SaveAll(context.Context, []*product.Product) error {
	return r.err
}

// interleavedProductRepo lets an unrelated request register an admin while
// the cascade is running, then fails the cascade.
type interleavedProductRepo struct {
	product.Repository
	users domainUser.Repository
	err   error
}

func (r interleavedProductRepo) SaveAll(context.Context, []*product.Product) error {
	admin := &domainUser.User{
		Email:          "other@x.com",
		PasswordHashed: "hash",
		Role:           domainUser.RoleAdmin,
		Status:         domainUser.StatusActive,
	}
	if err := r.users.Save(context.Background(), admin); err != nil {
		return err
	}
	return r.err
}

func TestRegisterUser_DuplicateActiveEmail(t *testing.T) {
	f := newFixture(t, nil)

	f.register(t, sellerRequest("a@x.com"))

	_, err := f.service.RegisterUser(context.Background(), sellerRequest("a@x.com"))
	assertCode(t, err, appErrors.CodeDuplicateAccount)

	users, addresses, _ := f.store.Counts()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, addresses)
}

func TestRegisterUser_EmailReusableAfterDeactivation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first := f.register(t, sellerRequest("a@x.com"))
	_, err := f.service.UpdateUserStatus(ctx, &UpdateUserStatusRequest{UserID: first.ID, Status: "deactivated"})
	require.NoError(t, err)

	second := f.register(t, sellerRequest("a@x.com"))
	assert.NotEqual(t, first.ID, second.ID)

	// reactivating the first account would leave two active owners
	_, err = f.service.UpdateUserStatus(ctx, &UpdateUserStatusRequest{UserID: first.ID, Status: "active"})
	assertCode(t, err, appErrors.CodeDuplicateAccount)
}

func TestRegisterUser_DeliveryWithUnknownSeller(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.service.RegisterUser(context.Background(), deliveryRequest("d@x.com", 999))
	assertCode(t, err, appErrors.CodeReferenceNotFound)

	users, addresses, _ := f.store.Counts()
	assert.Zero(t, users)
	assert.Zero(t, addresses)
}

func TestRegisterUser_DeliveryReferencingNonSeller(t *testing.T) {
	f := newFixture(t, nil)
	customer := f.register(t, &RegisterUserRequest{Email: "c@x.com", Password: "p", Role: "customer"})

	_, err := f.service.RegisterUser(context.Background(), deliveryRequest("d@x.com", customer.ID))
	assertCode(t, err, appErrors.CodeReferenceNotFound)
}

func TestRegisterUser_DeliveryEmbedsSeller(t *testing.T) {
	f := newFixture(t, nil)
	seller := f.register(t, sellerRequest("s@x.com"))

	courier := f.register(t, deliveryRequest("d@x.com", seller.ID))

	require.NotNil(t, courier.Seller)
	assert.Equal(t, seller.ID, courier.Seller.ID)
	require.NotNil(t, courier.Address)
	assert.Equal(t, "Pune", courier.Address.City)
	assert.Equal(t, "active", courier.Status)
}

func TestRegisterUser_Validation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *RegisterUserRequest
	}{
		{name: "nil request", req: nil},
		{name: "missing role", req: &RegisterUserRequest{Email: "a@x.com", Password: "p"}},
		{name: "admin role", req: &RegisterUserRequest{Email: "a@x.com", Password: "p", Role: "admin"}},
		{name: "missing email", req: &RegisterUserRequest{Password: "p", Role: "seller"}},
		{name: "delivery without seller", req: &RegisterUserRequest{Email: "a@x.com", Password: "p", Role: "delivery"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.RegisterUser(ctx, tt.req)
			assertCode(t, err, appErrors.CodeValidation)
		})
	}
}

func TestRegisterAdmin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	admin, err := f.service.RegisterAdmin(ctx, &RegisterAdminRequest{Email: "root@x.com", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Role)

	_, err = f.service.RegisterAdmin(ctx, &RegisterAdminRequest{Email: "root@x.com", Password: "p"})
	assertCode(t, err, appErrors.CodeDuplicateAccount)

	_, err = f.service.RegisterAdmin(ctx, &RegisterAdminRequest{Email: "root2@x.com"})
	assertCode(t, err, appErrors.CodeValidation)
}

func TestLogin(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	seller := f.register(t, sellerRequest("s@x.com"))

	resp, err := f.service.Login(ctx, &LoginRequest{Email: "s@x.com", Password: "p", Role: "seller"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotZero(t, resp.ExpiresAt)
	assert.Equal(t, seller.ID, resp.User.ID)

	_, err = f.service.Login(ctx, &LoginRequest{Email: "s@x.com", Password: "p", Role: "customer"})
	assertCode(t, err, appErrors.CodeAuthentication)
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid email or password.", appErr.Message)

	_, err = f.service.Login(ctx, &LoginRequest{Email: "s@x.com", Password: "wrong", Role: "seller"})
	assertCode(t, err, appErrors.CodeAuthentication)

	_, err = f.service.Login(ctx, &LoginRequest{Email: "s@x.com", Role: "seller"})
	assertCode(t, err, appErrors.CodeValidation)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	seller := f.register(t, sellerRequest("s@x.com"))

	_, err := f.service.DeactivateSeller(ctx, seller.ID)
	require.NoError(t, err)

	_, err = f.service.Login(ctx, &LoginRequest{Email: "s@x.com", Password: "p", Role: "seller"})
	assertCode(t, err, appErrors.CodeAccountNotFound)
}

func TestLogin_OlderAccountBehindNewerRole(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seller := f.register(t, sellerRequest("a@x.com"))
	_, err := f.service.UpdateUserStatus(ctx, &UpdateUserStatusRequest{UserID: seller.ID, Status: "deactivated"})
	require.NoError(t, err)

	customer := f.register(t, &RegisterUserRequest{Email: "a@x.com", Password: "p", Role: "customer"})
	_, err = f.service.UpdateUserStatus(ctx, &UpdateUserStatusRequest{UserID: customer.ID, Status: "deactivated"})
	require.NoError(t, err)
	_, err = f.service.UpdateUserStatus(ctx, &UpdateUserStatusRequest{UserID: seller.ID, Status: "active"})
	require.NoError(t, err)

	resp, err := f.service.Login(ctx, &LoginRequest{Email: "a@x.com", Password: "p", Role: "seller"})
	require.NoError(t, err)
	assert.Equal(t, seller.ID, resp.User.ID)

	_, err = f.service.Login(ctx, &LoginRequest{Email: "a@x.com", Password: "p", Role: "customer"})
	assertCode(t, err, appErrors.CodeAccountNotFound)
}

func TestLogin_DeactivatedAccountBehindActiveOne(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seller := f.register(t, sellerRequest("a@x.com"))
	_, err := f.service.DeactivateSeller(ctx, seller.ID)
	require.NoError(t, err)
	f.register(t, &RegisterUserRequest{Email: "a@x.com", Password: "other", Role: "customer"})

	_, err = f.service.Login(ctx, &LoginRequest{Email: "a@x.com", Password: "p", Role: "seller"})
	assertCode(t, err, appErrors.CodeAccountNotFound)

	_, err = f.service.Login(ctx, &LoginRequest{Email: "a@x.com", Password: "other", Role: "customer"})
	require.NoError(t, err)
}

func TestLogin_RejectsUnknownRole(t *testing.T) {
	f := newFixture(t, nil)
	f.register(t, sellerRequest("s@x.com"))

	_, err := f.service.Login(context.Background(), &LoginRequest{Email: "s@x.com", Password: "p", Role: "owner"})
	assertCode(t, err, appErrors.CodeValidation)
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Invalid role owner", appErr.Message)
}

func TestFetchUsersByRole(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	empty, err := f.service.FetchUsersByRole(ctx, "customer", "")
	require.NoError(t, err)
	require.NotNil(t, empty.Users)
	assert.Empty(t, empty.Users)

	seller := f.register(t, sellerRequest("s@x.com"))
	f.register(t, deliveryRequest("d1@x.com", seller.ID))
	d2 := f.register(t, deliveryRequest("d2@x.com", seller.ID))
	_, err = f.service.DeactivateDeliveryPerson(ctx, d2.ID, 0)
	require.NoError(t, err)

	active, err := f.service.FetchUsersByRole(ctx, "delivery", "")
	require.NoError(t, err)
	require.Len(t, active.Users, 1)
	require.NotNil(t, active.Users[0].Seller)
	assert.Equal(t, "s@x.com", active.Users[0].Seller.Email)

	all, err := f.service.FetchUsersByRole(ctx, "delivery", StatusAll)
	require.NoError(t, err)
	assert.Len(t, all.Users, 2)

	sellers, err := f.service.FetchUsersByRole(ctx, "seller", "")
	require.NoError(t, err)
	require.Len(t, sellers.Users, 1)
	assert.Nil(t, sellers.Users[0].Seller)

	_, err = f.service.FetchUsersByRole(ctx, "", "")
	assertCode(t, err, appErrors.CodeValidation)

	_, err = f.service.FetchUsersByRole(ctx, "delivery", "pending")
	assertCode(t, err, appErrors.CodeValidation)
}

func TestFetchDeliveryPersonsBySeller(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seller := f.register(t, sellerRequest("s@x.com"))
	other := f.register(t, sellerRequest("o@x.com"))
	f.register(t, deliveryRequest("d1@x.com", seller.ID))
	f.register(t, deliveryRequest("d2@x.com", other.ID))

	resp, err := f.service.FetchDeliveryPersonsBySeller(ctx, seller.ID, 0)
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "d1@x.com", resp.Users[0].Email)

	_, err = f.service.FetchDeliveryPersonsBySeller(ctx, 0, 0)
	assertCode(t, err, appErrors.CodeValidation)

	_, err = f.service.FetchDeliveryPersonsBySeller(ctx, 999, 0)
	assertCode(t, err, appErrors.CodeReferenceNotFound)
}

func TestFetchDeliveryPersonsBySeller_ScopedToCallingSeller(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seller := f.register(t, sellerRequest("s@x.com"))
	other := f.register(t, sellerRequest("o@x.com"))
	f.register(t, deliveryRequest("d1@x.com", seller.ID))

	resp, err := f.service.FetchDeliveryPersonsBySeller(ctx, 0, seller.ID)
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, "d1@x.com", resp.Users[0].Email)

	_, err = f.service.FetchDeliveryPersonsBySeller(ctx, seller.ID, other.ID)
	assertCode(t, err, appErrors.CodeForbidden)
}

func TestUpdateUserStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	customer := f.register(t, &RegisterUserRequest{Email: "c@x.com", Password: "p", Role: "customer"})

	resp, err := f.service.UpdateUserStatus(ctx, &UpdateUserStatusRequest{UserID: customer.ID, Status: "deactivated"})
	require.NoError(t, err)
	assert.Equal(t, "deactivated", resp.Status)

	tests := []struct {
		name string
		req  *UpdateUserStatusRequest
		code string
		msg  string
	}{
		{name: "nil request", req: nil, code: appErrors.CodeValidation},
		{name: "missing id", req: &UpdateUserStatusRequest{Status: "active"}, code: appErrors.CodeValidation, msg: "Missing user id"},
		{name: "unknown status", req: &UpdateUserStatusRequest{UserID: customer.ID, Status: "banned"}, code: appErrors.CodeValidation, msg: "Invalid status banned"},
		{name: "empty status", req: &UpdateUserStatusRequest{UserID: customer.ID}, code: appErrors.CodeValidation, msg: "Invalid status "},
		{name: "unknown user", req: &UpdateUserStatusRequest{UserID: 999, Status: "active"}, code: appErrors.CodeAccountNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.UpdateUserStatus(ctx, tt.req)
			assertCode(t, err, tt.code)
			if tt.msg != "" {
				var appErr *appErrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, tt.msg, appErr.Message)
			}
		})
	}
}

func TestDeactivateSeller_Cascade(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	seller := f.register(t, sellerRequest("s@x.com"))
	other := f.register(t, sellerRequest("o@x.com"))
	f.register(t, deliveryRequest("d1@x.com", seller.ID))
	f.register(t, deliveryRequest("d2@x.com", seller.ID))
	f.register(t, deliveryRequest("d3@x.com", other.ID))

	for _, p := range []*product.Product{
		{Name: "Lamp", SellerID: seller.ID},
		{Name: "Desk", SellerID: seller.ID},
		{Name: "Chair", SellerID: seller.ID},
		{Name: "Rug", SellerID: other.ID},
	} {
		require.NoError(t, f.products.Create(ctx, p))
	}

	before := countDeactivated(t, f)

	summary, err := f.service.DeactivateSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, &DeactivateSellerResponse{
		SellerID:                   seller.ID,
		DeliveryPersonsDeactivated: 2,
		ProductsDeactivated:        3,
	}, summary)

	assert.Equal(t, before+2+3+1, countDeactivated(t, f))

	otherProducts, err := f.products.FindBySellerAndStatuses(ctx, other.ID, []product.Status{product.StatusActive})
	require.NoError(t, err)
	assert.Len(t, otherProducts, 1)
}

func TestDeactivateSeller_NothingToCascade(t *testing.T) {
	f := newFixture(t, nil)
	seller := f.register(t, sellerRequest("s@x.com"))

	summary, err := f.service.DeactivateSeller(context.Background(), seller.ID)
	require.NoError(t, err)
	assert.Zero(t, summary.DeliveryPersonsDeactivated)
	assert.Zero(t, summary.ProductsDeactivated)
	assert.Equal(t, 1, countDeactivated(t, f))
}

func TestDeactivateSeller_Errors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	customer := f.register(t, &RegisterUserRequest{Email: "c@x.com", Password: "p", Role: "customer"})

	_, err := f.service.DeactivateSeller(ctx, 0)
	assertCode(t, err, appErrors.CodeValidation)

	_, err = f.service.DeactivateSeller(ctx, 999)
	assertCode(t, err, appErrors.CodeReferenceNotFound)

	_, err = f.service.DeactivateSeller(ctx, customer.ID)
	assertCode(t, err, appErrors.CodeValidation)
}

func TestDeactivateSeller_RollsBackWhenCascadeFails(t *testing.T) {
	saveFailed := errors.New("connection reset")
	f := newFixture(t, nil, withProductRepo(func(repo product.Repository) product.Repository {
		return failingProductRepo{Repository: repo, err: saveFailed}
	}))
	ctx := context.Background()

	seller := f.register(t, sellerRequest("s@x.com"))
	f.register(t, deliveryRequest("d1@x.com", seller.ID))
	require.NoError(t, f.products.Create(ctx, &product.Product{Name: "Lamp", SellerID: seller.ID}))

	_, err := f.service.DeactivateSeller(ctx, seller.ID)
	assertCode(t, err, appErrors.CodePersistenceFailure)
	assert.ErrorIs(t, err, saveFailed)

	assert.Zero(t, countDeactivated(t, f))
	got, err := f.users.FindByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
}

func TestDeactivateSeller_RollbackKeepsUnrelatedWrites(t *testing.T) {
	f := newFixture(t, nil, func(f *fixture) {
		f.products = interleavedProductRepo{Repository: f.products, users: f.users, err: errors.New("connection reset")}
	})
	ctx := context.Background()

	seller := f.register(t, sellerRequest("s@x.com"))
	require.NoError(t, f.products.Create(ctx, &product.Product{Name: "Lamp", SellerID: seller.ID}))

	_, err := f.service.DeactivateSeller(ctx, seller.ID)
	assertCode(t, err, appErrors.CodePersistenceFailure)

	admin, err := f.users.FindByEmailAndStatus(ctx, "other@x.com", domainUser.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, domainUser.RoleAdmin, admin.Role)

	got, err := f.users.FindByID(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())
}

func TestDeactivateDeliveryPerson(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	seller := f.register(t, sellerRequest("s@x.com"))
	courier := f.register(t, deliveryRequest("d@x.com", seller.ID))

	resp, err := f.service.DeactivateDeliveryPerson(ctx, courier.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "deactivated", resp.Status)

	_, err = f.service.DeactivateDeliveryPerson(ctx, 0, 0)
	assertCode(t, err, appErrors.CodeValidation)

	_, err = f.service.DeactivateDeliveryPerson(ctx, 999, 0)
	assertCode(t, err, appErrors.CodeAccountNotFound)

	_, err = f.service.DeactivateDeliveryPerson(ctx, seller.ID, 0)
	assertCode(t, err, appErrors.CodeValidation)
}

func TestDeactivateDeliveryPerson_ScopedToCallingSeller(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	seller := f.register(t, sellerRequest("s@x.com"))
	other := f.register(t, sellerRequest("o@x.com"))
	courier := f.register(t, deliveryRequest("d@x.com", seller.ID))

	_, err := f.service.DeactivateDeliveryPerson(ctx, courier.ID, other.ID)
	assertCode(t, err, appErrors.CodeForbidden)
	got, err := f.users.FindByID(ctx, courier.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive())

	resp, err := f.service.DeactivateDeliveryPerson(ctx, courier.ID, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "deactivated", resp.Status)
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	seller := f.register(t, sellerRequest("s@x.com"))

	resp, err := f.service.GetProfile(ctx, seller.ID)
	require.NoError(t, err)
	assert.Equal(t, "s@x.com", resp.Email)

	_, err = f.service.GetProfile(ctx, 999)
	assertCode(t, err, appErrors.CodeAccountNotFound)
}

func TestEventsArePublishedAfterCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)

	var published []event.Event
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evt event.Event) error {
			published = append(published, evt)
			return nil
		}).
		Times(4)

	f := newFixture(t, publisher)
	ctx := context.Background()

	seller := f.register(t, sellerRequest("s@x.com"))
	courier := f.register(t, deliveryRequest("d@x.com", seller.ID))
	_, err := f.service.DeactivateDeliveryPerson(ctx, courier.ID, 0)
	require.NoError(t, err)
	_, err = f.service.DeactivateSeller(ctx, seller.ID)
	require.NoError(t, err)

	require.Len(t, published, 4)
	assert.Equal(t, event.UserRegistered, published[0].Type)
	assert.Equal(t, event.UserRegistered, published[1].Type)
	assert.Equal(t, uint64(seller.ID), published[1].Attributes["seller_id"])
	assert.Equal(t, event.DeliveryPersonDeactivated, published[2].Type)
	assert.Equal(t, event.SellerDeactivated, published[3].Type)
	assert.Equal(t, uint64(0), published[3].Attributes["delivery_persons_deactivated"])
	assert.False(t, published[3].OccurredAt.IsZero())
}

func TestEventsAreNotPublishedOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	f := newFixture(t, publisher)

	_, err := f.service.RegisterUser(context.Background(), deliveryRequest("d@x.com", 42))
	assertCode(t, err, appErrors.CodeReferenceNotFound)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		Return(errors.New("broker unavailable"))

	f := newFixture(t, publisher)

	_, err := f.service.RegisterAdmin(context.Background(), &RegisterAdminRequest{Email: "root@x.com", Password: "p"})
	assert.NoError(t, err)
}

func countDeactivated(t *testing.T, f *fixture) int {
	t.Helper()
	ctx := context.Background()

	total := 0
	for _, role := range []domainUser.Role{domainUser.RoleAdmin, domainUser.RoleSeller, domainUser.RoleCustomer, domainUser.RoleDelivery} {
		users, err := f.users.FindByRoleAndStatus(ctx, role, domainUser.StatusDeactivated)
		require.NoError(t, err)
		total += len(users)
	}

	// products of every seller registered by the tests
	sellers, err := f.users.FindByRole(ctx, domainUser.RoleSeller)
	require.NoError(t, err)
	for _, s := range sellers {
		products, err := f.products.FindBySellerAndStatuses(ctx, s.ID, []product.Status{product.StatusDeactivated})
		require.NoError(t, err)
		total += len(products)
	}

	return total
}
