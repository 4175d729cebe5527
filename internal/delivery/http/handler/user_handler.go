package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	domainUser "ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/logger"
	"ecommerce-multivendor/internal/middleware"
	"ecommerce-multivendor/internal/usecase/user"
	appErrors "ecommerce-multivendor/pkg/errors"
	"ecommerce-multivendor/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	service *user.Service
}

func NewUserHandler(service *user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes mounts the open account endpoints on a group rooted at
// /api/user.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/admin/register", h.RegisterAdmin)
	router.POST("/register", h.RegisterUser)
	router.POST("/login", h.Login)
	router.GET("/fetch/role-wise", h.FetchUsersByRole)
}

// RegisterSellerRoutes mounts delivery staff management.
func (h *UserHandler) RegisterSellerRoutes(router *gin.RouterGroup) {
	router.GET("/fetch/seller/delivery-person", h.FetchDeliveryPersons)
	router.DELETE("/delete/seller/delivery-person", h.DeactivateDeliveryPerson)
}

// RegisterAdminRoutes mounts status changes and seller deactivation.
func (h *UserHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.PUT("/update/status", h.UpdateUserStatus)
	router.DELETE("/delete/seller", h.DeactivateSeller)
}

// RegisterProfileRoutes needs AuthMiddleware in front of it.
func (h *UserHandler) RegisterProfileRoutes(router *gin.RouterGroup) {
	router.GET("/profile", h.GetProfile)
}

func (h *UserHandler) RegisterAdmin(c *gin.Context) {
	var req user.RegisterAdminRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)

	admin, err := h.service.RegisterAdmin(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Admin registered successfully", admin)
}

func (h *UserHandler) RegisterUser(c *gin.Context) {
	var req user.RegisterUserRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	req.FirstName = utils.SanitizeString(req.FirstName)
	req.LastName = utils.SanitizeString(req.LastName)
	req.Phone = utils.SanitizePhone(req.Phone)
	req.Street = utils.SanitizeString(req.Street)
	req.City = utils.SanitizeString(req.City)
	req.Pincode = utils.SanitizeString(req.Pincode)
	req.Role = utils.SanitizeEnum(req.Role)

	registered, err := h.service.RegisterUser(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "User registered successfully", registered)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	req.Email = utils.SanitizeEmail(req.Email)
	req.Role = utils.SanitizeEnum(req.Role)

	loginResponse, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Logged in successfully", loginResponse)
}

func (h *UserHandler) FetchUsersByRole(c *gin.Context) {
	role := utils.SanitizeEnum(c.Query("role"))
	status := utils.SanitizeEnum(c.Query("status"))

	users, err := h.service.FetchUsersByRole(c.Request.Context(), role, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "Users fetched successfully"
	if len(users.Users) == 0 {
		message = "No users found"
	}
	utils.SuccessResponse(c, http.StatusOK, message, users)
}

func (h *UserHandler) FetchDeliveryPersons(c *gin.Context) {
	sellerID, ok := queryID(c, "sellerId")
	if !ok {
		return
	}

	users, err := h.service.FetchDeliveryPersonsBySeller(c.Request.Context(), sellerID, sellerScope(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	message := "Delivery persons fetched successfully"
	if len(users.Users) == 0 {
		message = "No delivery persons found"
	}
	utils.SuccessResponse(c, http.StatusOK, message, users)
}

func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	var req user.UpdateUserStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c)
		return
	}

	req.Status = utils.SanitizeEnum(req.Status)

	updated, err := h.service.UpdateUserStatus(c.Request.Context(), &req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK,
		fmt.Sprintf("User status updated to %s successfully", updated.Status), updated)
}

func (h *UserHandler) DeactivateSeller(c *gin.Context) {
	sellerID, ok := queryID(c, "sellerId")
	if !ok {
		return
	}

	summary, err := h.service.DeactivateSeller(c.Request.Context(), sellerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Seller deactivated successfully", summary)
}

func (h *UserHandler) DeactivateDeliveryPerson(c *gin.Context) {
	deliveryID, ok := queryID(c, "deliveryId")
	if !ok {
		return
	}

	deactivated, err := h.service.DeactivateDeliveryPerson(c.Request.Context(), deliveryID, sellerScope(c))
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Delivery person deactivated successfully", deactivated)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Profile fetched successfully", profile)
}

// queryID parses a positive id from the query string. A missing parameter is
// passed through as zero so the service reports it.
func queryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, appErrors.CodeValidation, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// sellerScope returns the caller's id when the caller is an authenticated
// seller, and zero otherwise.
func sellerScope(c *gin.Context) uint {
	if c.GetString(middleware.ContextRole) != string(domainUser.RoleSeller) {
		return 0
	}
	id, _ := middleware.GetUserID(c)
	return id
}

func invalidBody(c *gin.Context) {
	utils.ErrorResponseWithCode(c, http.StatusBadRequest, appErrors.CodeValidation, "Invalid request body")
}

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case appErrors.CodeValidation,
			appErrors.CodeDuplicateAccount,
			appErrors.CodeReferenceNotFound,
			appErrors.CodeAccountNotFound,
			appErrors.CodeAuthentication:
			utils.ErrorResponseWithCode(c, http.StatusBadRequest, appErr.Code, appErr.Message)
			return
		case appErrors.CodeForbidden:
			utils.ErrorResponseWithCode(c, http.StatusForbidden, appErr.Code, appErr.Message)
			return
		case appErrors.CodePersistenceFailure:
			logServerError(c, err)
			utils.ErrorResponseWithCode(c, http.StatusInternalServerError, appErr.Code, appErr.Message)
			return
		}
	}

	logServerError(c, err)
	utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
}

func logServerError(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.Error("Internal server error",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
}
