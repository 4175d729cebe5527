package routes

import (
	"net/http"

	"ecommerce-multivendor/internal/config"
	"ecommerce-multivendor/internal/delivery/http/handler"
	"ecommerce-multivendor/internal/logger"
	"ecommerce-multivendor/internal/middleware"
	"ecommerce-multivendor/internal/usecase/auth"
	"ecommerce-multivendor/internal/usecase/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker reports whether the credential store is reachable.
type HealthChecker interface {
	Health() error
}

type Dependencies struct {
	UserService   *user.Service
	Authenticator *auth.Authenticator
	Store         HealthChecker
	// Done stops background middleware work when closed.
	Done <-chan struct{}
}

func SetupRoutes(cfg *config.Config, deps Dependencies) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Order: recovery, request ID, logging, security headers, CORS, request size limit, rate limit
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	if cfg.RateLimit.GeneralRPS > 0 {
		router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst, deps.Done))
	}

	router.GET("/health", func(c *gin.Context) {
		if err := deps.Store.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userHandler := handler.NewUserHandler(deps.UserService)

	api := router.Group("/api/user")
	userHandler.RegisterRoutes(api)

	protected := router.Group("/api/user")
	protected.Use(middleware.AuthMiddleware(deps.Authenticator))
	userHandler.RegisterProfileRoutes(protected)

	if cfg.Auth.EnforceRoles {
		seller := protected.Group("")
		seller.Use(middleware.AdminOrSeller())
		userHandler.RegisterSellerRoutes(seller)

		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		userHandler.RegisterAdminRoutes(admin)
	} else {
		userHandler.RegisterSellerRoutes(api)
		userHandler.RegisterAdminRoutes(api)
	}

	logger.Info("All routes initialized",
		zap.Bool("enforce_roles", cfg.Auth.EnforceRoles),
	)
	return router
}
