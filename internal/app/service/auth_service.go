package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/metrics"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/ikkim/tubemark-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrMissingFields         = errors.New("all fields are required")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrUserNotFound          = errors.New("user not found")
	ErrRevocationDisabled    = errors.New("token revocation is not enabled")
	ErrPasswordTooLong       = errors.New("password must be at most 72 bytes")
)

// TokenRevoker records session token ids that must no longer be accepted
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

type RegisterInput struct {
	Name     string
	Email    string
	Username string
	Password string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, error)
	Login(username, password string) (*model.User, *util.SessionToken, error)
	Logout(ctx context.Context, tokenID string, expiresAt time.Time) error
	GetUserByID(id uint) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	revoker   TokenRevoker
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService builds the auth service. revoker may be nil, in which case
// Logout reports ErrRevocationDisabled.
func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	jwtExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		revoker:   revoker,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(input RegisterInput) (user *model.User, err error) {
	defer func() { metrics.AuthEvents.WithLabelValues("register", metrics.Outcome(err)).Inc() }()

	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": username,
		"email":    email,
	})

	if name == "" || email == "" || username == "" || input.Password == "" {
		logger.Warn("Registration failed: missing fields", map[string]interface{}{
			"username": username,
		})
		return nil, ErrMissingFields
	}

	if len(input.Password) > util.MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	if err := s.checkAvailable(username, email); err != nil {
		return nil, err
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	user = &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         name,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Lost a race with a concurrent registration; report which field
		if conflict := s.checkAvailable(username, email); conflict != nil {
			return nil, conflict
		}
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})

	return user, nil
}

// checkAvailable reports a username conflict before an email conflict
func (s *authService) checkAvailable(username, email string) error {
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		logger.Warn("Registration failed: username already exists", map[string]interface{}{
			"username": username,
		})
		return ErrUsernameAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing username", err, map[string]interface{}{
			"username": username,
		})
		return err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing email", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	return nil
}

func (s *authService) Login(username, password string) (user *model.User, session *util.SessionToken, err error) {
	defer func() { metrics.AuthEvents.WithLabelValues("login", metrics.Outcome(err)).Inc() }()

	username = strings.TrimSpace(username)

	logger.Info("Login attempt", map[string]interface{}{
		"username": username,
	})

	if username == "" || password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err = s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.BurnPasswordCheck(password)
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"username": username,
			})
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"username": username,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	session, err = util.GenerateSessionToken(user.ID, user.Username, user.Name, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, session, nil
}

func (s *authService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) (err error) {
	defer func() { metrics.AuthEvents.WithLabelValues("logout", metrics.Outcome(err)).Inc() }()

	if s.revoker == nil {
		return ErrRevocationDisabled
	}

	if err = s.revoker.Revoke(ctx, tokenID, time.Until(expiresAt)); err != nil {
		logger.Error("Failed to revoke session token", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"token_id": tokenID,
	})
	return nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to get user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return user, nil
}
