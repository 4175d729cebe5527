package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ecommerce-multivendor/internal/config"
	domainUser "ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/infrastructure/database/memory"
	"ecommerce-multivendor/internal/middleware"
	"ecommerce-multivendor/internal/usecase/auth"
	"ecommerce-multivendor/internal/usecase/user"
	appErrors "ecommerce-multivendor/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type brokenUserRepo struct {
	domainUser.Repository
}

func (brokenUserRepo) FindByRoleAndStatus(context.Context, domainUser.Role, domainUser.Status) ([]*domainUser.User, error) {
	return nil, errors.New("connection refused")
}

func newTestRouter(t *testing.T, wrapUsers func(domainUser.Repository) domainUser.Repository) *gin.Engine {
	t.Helper()

	store := memory.NewStore()
	var users domainUser.Repository = memory.NewUserRepository(store)
	if wrapUsers != nil {
		users = wrapUsers(users)
	}

	cfg := &config.Config{JWT: config.JWTConfig{Secret: "handler-secret", ExpiryHours: 1}}
	authenticator := auth.NewAuthenticator(users, cfg)
	service := user.NewService(users, memory.NewAddressRepository(store), memory.NewProductRepository(store),
		store, authenticator, nil)
	h := NewUserHandler(service)

	r := gin.New()
	api := r.Group("/api/user")
	h.RegisterRoutes(api)
	h.RegisterSellerRoutes(api)
	h.RegisterAdminRoutes(api)

	protected := r.Group("/api/user")
	protected.Use(middleware.AuthMiddleware(authenticator))
	h.RegisterProfileRoutes(protected)
	protected.GET("/scoped/delivery-person", h.FetchDeliveryPersons)
	protected.DELETE("/scoped/delivery-person", h.DeactivateDeliveryPerson)

	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func registerSeller(t *testing.T, r http.Handler, email string) uint {
	t.Helper()

	code, resp := do(t, r, http.MethodPost, "/api/user/register", map[string]any{
		"email":    email,
		"password": "p",
		"role":     "Seller",
		"city":     "Pune",
	})
	require.Equal(t, http.StatusOK, code, resp.Message)

	var u user.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &u))
	return u.ID
}

func TestRegisterUser_Duplicate(t *testing.T) {
	r := newTestRouter(t, nil)
	registerSeller(t, r, "a@x.com")

	code, resp := do(t, r, http.MethodPost, "/api/user/register", map[string]any{
		"email": " A@X.com ", "password": "p", "role": "seller",
	})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, resp.Success)
	assert.Equal(t, appErrors.CodeDuplicateAccount, resp.Code)
}

func TestRegisterUser_UnknownSeller(t *testing.T) {
	r := newTestRouter(t, nil)

	code, resp := do(t, r, http.MethodPost, "/api/user/register", map[string]any{
		"email": "d@x.com", "password": "p", "role": "delivery", "seller_id": 77,
	})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeReferenceNotFound, resp.Code)
}

func TestRegisterAdmin_InvalidBody(t *testing.T) {
	r := newTestRouter(t, nil)

	code, resp := do(t, r, http.MethodPost, "/api/user/admin/register", "{not json")

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeValidation, resp.Code)
}

func TestLoginAndProfile(t *testing.T) {
	r := newTestRouter(t, nil)
	sellerID := registerSeller(t, r, "s@x.com")

	code, resp := do(t, r, http.MethodPost, "/api/user/login", map[string]any{
		"email": "s@x.com", "password": "p", "role": "customer",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeAuthentication, resp.Code)
	assert.Equal(t, "Invalid email or password.", resp.Message)

	code, resp = do(t, r, http.MethodPost, "/api/user/login", map[string]any{
		"email": "s@x.com", "password": "p", "role": "seller",
	})
	require.Equal(t, http.StatusOK, code)

	var login user.LoginResponse
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, sellerID, login.User.ID)
	assert.NotContains(t, string(resp.Data), "password")

	code, resp = do(t, r, http.MethodGet, "/api/user/profile", nil, "Authorization", "Bearer "+login.Token)
	require.Equal(t, http.StatusOK, code)
	var profile user.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &profile))
	assert.Equal(t, "s@x.com", profile.Email)

	code, _ = do(t, r, http.MethodGet, "/api/user/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFetchUsersByRole(t *testing.T) {
	r := newTestRouter(t, nil)

	code, resp := do(t, r, http.MethodGet, "/api/user/fetch/role-wise?role=customer", nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "No users found", resp.Message)
	assert.JSONEq(t, `{"users":[]}`, string(resp.Data))

	code, resp = do(t, r, http.MethodGet, "/api/user/fetch/role-wise", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeValidation, resp.Code)
}

func TestFetchUsersByRole_PersistenceFailure(t *testing.T) {
	r := newTestRouter(t, func(repo domainUser.Repository) domainUser.Repository {
		return brokenUserRepo{Repository: repo}
	})

	code, resp := do(t, r, http.MethodGet, "/api/user/fetch/role-wise?role=seller", nil)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, appErrors.CodePersistenceFailure, resp.Code)
}

func TestDeliveryPersonsAndSellerDeactivation(t *testing.T) {
	r := newTestRouter(t, nil)
	sellerID := registerSeller(t, r, "s@x.com")

	for _, email := range []string{"d1@x.com", "d2@x.com"} {
		code, resp := do(t, r, http.MethodPost, "/api/user/register", map[string]any{
			"email": email, "password": "p", "role": "delivery", "seller_id": sellerID,
		})
		require.Equal(t, http.StatusOK, code, resp.Message)
	}

	code, resp := do(t, r, http.MethodGet, "/api/user/fetch/seller/delivery-person?sellerId="+uintString(sellerID), nil)
	require.Equal(t, http.StatusOK, code)
	var couriers user.UsersResponse
	require.NoError(t, json.Unmarshal(resp.Data, &couriers))
	require.Len(t, couriers.Users, 2)
	require.NotNil(t, couriers.Users[0].Seller)

	code, resp = do(t, r, http.MethodDelete, "/api/user/delete/seller?sellerId="+uintString(sellerID), nil)
	require.Equal(t, http.StatusOK, code)
	var summary user.DeactivateSellerResponse
	require.NoError(t, json.Unmarshal(resp.Data, &summary))
	assert.Equal(t, 2, summary.DeliveryPersonsDeactivated)

	code, resp = do(t, r, http.MethodGet, "/api/user/fetch/seller/delivery-person?sellerId="+uintString(sellerID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "No delivery persons found", resp.Message)

	code, resp = do(t, r, http.MethodDelete, "/api/user/delete/seller?sellerId=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeValidation, resp.Code)

	code, resp = do(t, r, http.MethodDelete, "/api/user/delete/seller", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing seller id", resp.Message)

	code, resp = do(t, r, http.MethodDelete, "/api/user/delete/seller?sellerId=999", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeReferenceNotFound, resp.Code)
}

func TestUpdateUserStatusAndDeactivateDeliveryPerson(t *testing.T) {
	r := newTestRouter(t, nil)
	sellerID := registerSeller(t, r, "s@x.com")

	code, resp := do(t, r, http.MethodPost, "/api/user/register", map[string]any{
		"email": "d@x.com", "password": "p", "role": "delivery", "seller_id": sellerID,
	})
	require.Equal(t, http.StatusOK, code)
	var courier user.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &courier))

	code, resp = do(t, r, http.MethodDelete, "/api/user/delete/seller/delivery-person?deliveryId="+uintString(courier.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Delivery person deactivated successfully", resp.Message)

	code, resp = do(t, r, http.MethodPut, "/api/user/update/status", map[string]any{
		"user_id": courier.ID, "status": "ACTIVE",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User status updated to active successfully", resp.Message)

	code, resp = do(t, r, http.MethodPut, "/api/user/update/status", map[string]any{
		"user_id": 999, "status": "active",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeAccountNotFound, resp.Code)

	code, resp = do(t, r, http.MethodPut, "/api/user/update/status", map[string]any{
		"user_id": courier.ID, "status": " Banned ",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, appErrors.CodeValidation, resp.Code)
	assert.Equal(t, "Invalid status banned", resp.Message)
}

func TestDeliveryPersonRoutes_SellerCallerIsScoped(t *testing.T) {
	r := newTestRouter(t, nil)
	sellerID := registerSeller(t, r, "s@x.com")
	otherID := registerSeller(t, r, "o@x.com")

	code, resp := do(t, r, http.MethodPost, "/api/user/register", map[string]any{
		"email": "d@x.com", "password": "p", "role": "delivery", "seller_id": sellerID,
	})
	require.Equal(t, http.StatusOK, code)
	var courier user.UserResponse
	require.NoError(t, json.Unmarshal(resp.Data, &courier))

	code, resp = do(t, r, http.MethodPost, "/api/user/login", map[string]any{
		"email": "o@x.com", "password": "p", "role": "seller",
	})
	require.Equal(t, http.StatusOK, code)
	var login user.LoginResponse
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.Equal(t, otherID, login.User.ID)
	bearer := "Bearer " + login.Token

	code, resp = do(t, r, http.MethodGet, "/api/user/scoped/delivery-person?sellerId="+uintString(sellerID), nil,
		"Authorization", bearer)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, appErrors.CodeForbidden, resp.Code)

	code, resp = do(t, r, http.MethodDelete, "/api/user/scoped/delivery-person?deliveryId="+uintString(courier.ID), nil,
		"Authorization", bearer)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, appErrors.CodeForbidden, resp.Code)

	// the unauthenticated management routes are not scoped
	code, _ = do(t, r, http.MethodGet, "/api/user/fetch/seller/delivery-person?sellerId="+uintString(sellerID), nil)
	assert.Equal(t, http.StatusOK, code)
}

func uintString(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
