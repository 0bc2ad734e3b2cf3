package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/internal/app/repository"
	"github.com/ikkim/tubemark-backend/internal/metrics"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/ikkim/tubemark-backend/pkg/mailer"
	"github.com/ikkim/tubemark-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailNotFound     = errors.New("no account with that email")
	ErrInvalidResetToken = errors.New("password reset token is invalid")
	ErrResetTokenExpired = errors.New("password reset token has expired")
	ErrPasswordRequired  = errors.New("password is required")
	ErrResetEmailFailed  = errors.New("failed to send password reset email")
)

const (
	// DefaultResetTokenTTL is how long an emailed reset link stays usable
	DefaultResetTokenTTL = 2 * time.Hour
	resetPathPrefix      = "/reset-password/"
)

type PasswordResetConfig struct {
	SiteURL  string
	TokenTTL time.Duration
	// HideAccountExistence answers RequestReset for unknown emails as if
	// the email had been sent.
	HideAccountExistence bool
}

type PasswordResetService interface {
	RequestReset(email string) error
	// VerifyToken returns the email of the account the token belongs to
	VerifyToken(token string) (string, error)
	CompleteReset(token, newPassword string) error
	PurgeExpired() (int64, error)
}

type passwordResetService struct {
	resetRepo repository.PasswordResetRepository
	userRepo  repository.UserRepository
	mailer    mailer.Mailer
	config    PasswordResetConfig
	now       func() time.Time
}

func NewPasswordResetService(
	resetRepo repository.PasswordResetRepository,
	userRepo repository.UserRepository,
	mailer mailer.Mailer,
	config PasswordResetConfig,
) PasswordResetService {
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultResetTokenTTL
	}
	config.SiteURL = strings.TrimRight(config.SiteURL, "/")

	return &passwordResetService{
		resetRepo: resetRepo,
		userRepo:  userRepo,
		mailer:    mailer,
		config:    config,
		now:       time.Now,
	}
}

func (s *passwordResetService) resetLink(token string) string {
	return s.config.SiteURL + resetPathPrefix + token
}

func (s *passwordResetService) RequestReset(email string) (err error) {
	defer func() { metrics.PasswordResetEvents.WithLabelValues("request", metrics.Outcome(err)).Inc() }()

	email = normalizeEmail(email)

	logger.Info("Processing password reset request", map[string]interface{}{
		"email": email,
	})

	if email == "" {
		return ErrMissingFields
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Password reset requested for non-existent email", map[string]interface{}{
				"email": email,
			})
			if s.config.HideAccountExistence {
				return nil
			}
			return ErrEmailNotFound
		}
		logger.Error("Failed to find user for password reset", err, map[string]interface{}{
			"email": email,
		})
		return err
	}

	token, tokenHash, err := util.GenerateResetToken()
	if err != nil {
		logger.Error("Failed to generate reset token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	reset := &model.PasswordReset{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: s.now().Add(s.config.TokenTTL),
	}
	if err := s.resetRepo.Create(reset); err != nil {
		logger.Error("Failed to create password reset record", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}

	if err := s.mailer.SendPasswordReset(user.Email, s.resetLink(token), s.config.TokenTTL); err != nil {
		// An undelivered token must never be usable
		if delErr := s.resetRepo.DeleteByID(reset.ID); delErr != nil {
			logger.Error("Failed to roll back undelivered password reset", delErr, map[string]interface{}{
				"id": reset.ID,
			})
		}
		return fmt.Errorf("%w: %v", ErrResetEmailFailed, err)
	}

	logger.Info("Password reset email sent", map[string]interface{}{
		"user_id":    user.ID,
		"expires_at": reset.ExpiresAt,
	})
	return nil
}

// findLive loads the reset for a plaintext token, applying the validity rules
func (s *passwordResetService) findLive(token string) (*model.PasswordReset, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidResetToken
	}

	reset, err := s.resetRepo.FindByTokenHash(util.HashResetToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Invalid reset token provided")
			return nil, ErrInvalidResetToken
		}
		logger.Error("Failed to find reset record", err)
		return nil, err
	}

	if reset.User.ID == 0 {
		logger.Warn("Reset token belongs to a missing user", map[string]interface{}{
			"id": reset.ID,
		})
		return nil, ErrInvalidResetToken
	}

	if reset.IsExpired(s.now()) {
		logger.Warn("Reset token has expired", map[string]interface{}{
			"id":         reset.ID,
			"expires_at": reset.ExpiresAt,
		})
		return nil, ErrResetTokenExpired
	}

	return reset, nil
}

func (s *passwordResetService) VerifyToken(token string) (string, error) {
	reset, err := s.findLive(token)
	metrics.PasswordResetEvents.WithLabelValues("verify", metrics.Outcome(err)).Inc()
	if err != nil {
		return "", err
	}
	return reset.User.Email, nil
}

func (s *passwordResetService) CompleteReset(token, newPassword string) (err error) {
	defer func() { metrics.PasswordResetEvents.WithLabelValues("complete", metrics.Outcome(err)).Inc() }()

	logger.Info("Processing password reset with token")

	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) > util.MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	reset, err := s.findLive(token)
	if err != nil {
		return err
	}

	hashedPassword, err := util.HashPassword(newPassword)
	if err != nil {
		logger.Error("Failed to hash new password", err, map[string]interface{}{
			"user_id": reset.UserID,
		})
		return err
	}

	if err := s.resetRepo.ConsumeAndSetPassword(reset.ID, reset.UserID, hashedPassword, s.now()); err != nil {
		if errors.Is(err, repository.ErrResetNotConsumed) {
			logger.Warn("Reset token was consumed concurrently", map[string]interface{}{
				"id": reset.ID,
			})
			return ErrInvalidResetToken
		}
		return err
	}

	logger.Info("Password reset successfully", map[string]interface{}{
		"user_id": reset.UserID,
	})
	return nil
}

func (s *passwordResetService) PurgeExpired() (int64, error) {
	count, err := s.resetRepo.DeleteExpired(s.now())
	if err != nil {
		return 0, err
	}
	metrics.PasswordResetsPurged.Add(float64(count))
	if count > 0 {
		logger.Info("Purged expired password resets", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}
