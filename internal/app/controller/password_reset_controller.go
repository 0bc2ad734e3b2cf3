package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/internal/app/service"
	apperrors "github.com/ikkim/tubemark-backend/internal/errors"
	"github.com/ikkim/tubemark-backend/internal/middleware"
)

const resetRequestedMessage = "If an account exists for that email, a password reset link has been sent"

type PasswordResetController struct {
	resetService service.PasswordResetService
}

func NewPasswordResetController(resetService service.PasswordResetService) *PasswordResetController {
	return &PasswordResetController{
		resetService: resetService,
	}
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// respondResetTokenError maps token lookup failures. Reports whether it responded.
func respondResetTokenError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrResetTokenExpired):
		apperrors.BadRequest(c, apperrors.ResetTokenExpired, "Password reset link has expired")
	case errors.Is(err, service.ErrInvalidResetToken):
		apperrors.BadRequest(c, apperrors.ResetTokenInvalid, "Password reset link is invalid")
	default:
		return false
	}
	return true
}

// ForgotPassword emails a reset link
// POST /forgot-password
func (ctrl *PasswordResetController) ForgotPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if err := ctrl.resetService.RequestReset(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Email is required")
		case errors.Is(err, service.ErrEmailNotFound):
			apperrors.BadRequest(c, apperrors.ResourceNotFound, "No account is registered with that email")
		case errors.Is(err, service.ErrResetEmailFailed):
			log.Error("Password reset email failed", err, nil)
			apperrors.InternalError(c, "Could not send the password reset email. Please try again later")
		default:
			log.Error("Failed to request password reset", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": resetRequestedMessage,
		"data": gin.H{
			"message": resetRequestedMessage,
		},
	})
}

// VerifyToken reports the email a live reset token belongs to
// GET /verify-token/:token
func (ctrl *PasswordResetController) VerifyToken(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email, err := ctrl.resetService.VerifyToken(c.Param("token"))
	if err != nil {
		if respondResetTokenError(c, err) {
			return
		}
		log.Error("Failed to verify reset token", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"email": email,
		},
	})
}

// ResetPassword sets a new password using a reset token
// POST /reset-password/:token
func (ctrl *PasswordResetController) ResetPassword(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset password request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if err := ctrl.resetService.CompleteReset(c.Param("token"), req.Password); err != nil {
		if errors.Is(err, service.ErrPasswordRequired) {
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Password is required")
			return
		}
		if errors.Is(err, service.ErrPasswordTooLong) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Password must be at most 72 bytes")
			return
		}
		if respondResetTokenError(c, err) {
			return
		}
		log.Error("Failed to reset password", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	log.Info("Password reset completed")

	c.JSON(http.StatusOK, gin.H{
		"message": "Password has been reset",
		"data": gin.H{
			"message": "Password has been reset",
		},
	})
}
