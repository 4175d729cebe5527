package auth

import (
	"context"

	"ecommerce-multivendor/internal/config"
	domainUser "ecommerce-multivendor/internal/domain/user"
	"ecommerce-multivendor/internal/logger"
	appErrors "ecommerce-multivendor/pkg/errors"
	"ecommerce-multivendor/pkg/utils"

	"go.uber.org/zap"
)

// Authenticator checks credentials and issues stateless bearer tokens.
type Authenticator struct {
	userRepo domainUser.Repository
	config   *config.Config
}

func NewAuthenticator(userRepo domainUser.Repository, cfg *config.Config) *Authenticator {
	return &Authenticator{
		userRepo: userRepo,
		config:   cfg,
	}
}

// Authenticate checks the password against the accounts registered under
// email with the given role, newest first, and returns the one it matches.
// An active match wins over deactivated ones; Login decides what to do with
// an inactive account. The caller only ever sees AUTHENTICATION_FAILURE and
// the actual reason goes to the log.
func (a *Authenticator) Authenticate(ctx context.Context, email, password, role string) (*domainUser.User, error) {
	records, err := a.userRepo.FindByEmailAndRole(ctx, email, domainUser.Role(role))
	if err != nil {
		logger.Error("Failed to load user for authentication",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, appErrors.AuthenticationFailure()
	}
	if len(records) == 0 {
		a.reject(email, "unknown_account")
		return nil, appErrors.AuthenticationFailure()
	}

	var matched *domainUser.User
	for _, u := range records {
		if !utils.CheckPassword(u.PasswordHashed, password) {
			continue
		}
		if u.IsActive() {
			return u, nil
		}
		if matched == nil {
			matched = u
		}
	}

	if matched == nil {
		a.reject(email, "password_mismatch")
		return nil, appErrors.AuthenticationFailure()
	}

	return matched, nil
}

// IssueToken signs a token whose subject is the user's email.
func (a *Authenticator) IssueToken(user *domainUser.User) (string, int64, error) {
	return utils.GenerateToken(
		user.ID,
		user.Email,
		string(user.Role),
		a.config.JWT.Secret,
		a.config.JWT.ExpiryHours,
	)
}

func (a *Authenticator) ParseToken(token string) (*utils.Claims, error) {
	claims, err := utils.ValidateToken(token, a.config.JWT.Secret)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}
	return claims, nil
}

func (a *Authenticator) reject(email, reason string) {
	logger.Warn("Authentication failed",
		zap.String("email", email),
		zap.String("reason", reason),
		zap.String("event", "authentication_failed"),
	)
}
