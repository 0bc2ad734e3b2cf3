package repository

import (
	"errors"
	"time"

	"github.com/ikkim/tubemark-backend/internal/app/model"
	"github.com/ikkim/tubemark-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrResetNotConsumed means the reset row was already consumed, expired, or
// its user no longer exists when the consume ran.
var ErrResetNotConsumed = errors.New("password reset could not be consumed")

type PasswordResetRepository interface {
	Create(reset *model.PasswordReset) error
	// FindByTokenHash loads the reset with its user
	FindByTokenHash(tokenHash string) (*model.PasswordReset, error)
	DeleteByID(id uint) error
	// ConsumeAndSetPassword deletes the unexpired reset and sets the user's
	// password hash in one transaction. Exactly one concurrent caller wins.
	ConsumeAndSetPassword(resetID, userID uint, passwordHash string, now time.Time) error
	DeleteExpired(now time.Time) (int64, error)
}

type passwordResetRepository struct {
	db *gorm.DB
}

func NewPasswordResetRepository(db *gorm.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(reset *model.PasswordReset) error {
	logger.Debug("Creating password reset in database", map[string]interface{}{
		"user_id": reset.UserID,
	})

	if err := r.db.Create(reset).Error; err != nil {
		logger.Error("Failed to create password reset in database", err, map[string]interface{}{
			"user_id": reset.UserID,
		})
		return err
	}

	logger.Debug("Password reset created in database", map[string]interface{}{
		"id":         reset.ID,
		"user_id":    reset.UserID,
		"expires_at": reset.ExpiresAt,
	})
	return nil
}

func (r *passwordResetRepository) FindByTokenHash(tokenHash string) (*model.PasswordReset, error) {
	logger.Debug("Finding password reset by token hash in database")

	var reset model.PasswordReset
	if err := r.db.Preload("User").Where("token_hash = ?", tokenHash).First(&reset).Error; err != nil {
		logLookupError("Failed to find password reset by token hash in database", err, nil)
		return nil, err
	}

	logger.Debug("Password reset found by token hash in database", map[string]interface{}{
		"id":      reset.ID,
		"user_id": reset.UserID,
	})
	return &reset, nil
}

func (r *passwordResetRepository) DeleteByID(id uint) error {
	logger.Debug("Deleting password reset from database", map[string]interface{}{
		"id": id,
	})

	if err := r.db.Delete(&model.PasswordReset{}, id).Error; err != nil {
		logger.Error("Failed to delete password reset from database", err, map[string]interface{}{
			"id": id,
		})
		return err
	}

	logger.Debug("Password reset deleted from database", map[string]interface{}{
		"id": id,
	})
	return nil
}

func (r *passwordResetRepository) ConsumeAndSetPassword(resetID, userID uint, passwordHash string, now time.Time) error {
	logger.Debug("Consuming password reset in database", map[string]interface{}{
		"id":      resetID,
		"user_id": userID,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Compare-and-delete: only a live row for this user is consumed
		result := tx.Where("id = ? AND user_id = ? AND expires_at > ?", resetID, userID, now).
			Delete(&model.PasswordReset{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return ErrResetNotConsumed
		}

		result = tx.Model(&model.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return ErrResetNotConsumed
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrResetNotConsumed) {
			logger.Debug("Password reset was not consumable", map[string]interface{}{
				"id": resetID,
			})
		} else {
			logger.Error("Failed to consume password reset in database", err, map[string]interface{}{
				"id": resetID,
			})
		}
		return err
	}

	logger.Debug("Password reset consumed in database", map[string]interface{}{
		"id":      resetID,
		"user_id": userID,
	})
	return nil
}

func (r *passwordResetRepository) DeleteExpired(now time.Time) (int64, error) {
	logger.Debug("Deleting expired password resets from database")

	result := r.db.Where("expires_at <= ?", now).Delete(&model.PasswordReset{})
	if result.Error != nil {
		logger.Error("Failed to delete expired password resets from database", result.Error, nil)
		return 0, result.Error
	}

	logger.Debug("Expired password resets deleted from database", map[string]interface{}{
		"count": result.RowsAffected,
	})
	return result.RowsAffected, nil
}
