package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/tubemark-backend/internal/errors"
	"github.com/ikkim/tubemark-backend/pkg/util"
)

// Context keys for session information
const (
	UserIDKey         = "user_id"
	UsernameKey       = "username"
	DisplayNameKey    = "display_name"
	TokenIDKey        = "token_id"
	TokenExpiresAtKey = "token_expires_at"
)

// RevocationChecker reports whether a session token id has been revoked
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret string
	revoked   RevocationChecker
}

// NewAuthMiddleware builds the bearer guard. revoked may be nil when no
// revocation list is configured.
func NewAuthMiddleware(jwtSecret string, revoked RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
		revoked:   revoked,
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Authenticate validates the session token (required).
// 401 when no bearer token is presented, 403 when it is presented but bad.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Warn("Missing or malformed authorization header", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.AbortWithError(c, http.StatusUnauthorized, errors.AuthUnauthorized, "Authentication required")
			return
		}

		claims, err := util.ValidateToken(token, m.jwtSecret)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})

			if stderrors.Is(err, util.ErrExpiredToken) {
				errors.Forbidden(c, errors.AuthTokenExpired, "Session has expired")
			} else {
				errors.Forbidden(c, errors.AuthTokenInvalid, "Invalid session token")
			}
			return
		}

		if m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Error("Failed to check token revocation", err, map[string]interface{}{
					"user_id": claims.UserID,
				})
				errors.AbortWithError(c, http.StatusInternalServerError, errors.InternalServerError, "Something went wrong. Please try again later")
				return
			}
			if revoked {
				log.Warn("Revoked token presented", map[string]interface{}{
					"user_id":  claims.UserID,
					"token_id": claims.ID,
				})
				errors.Forbidden(c, errors.AuthTokenRevoked, "Session has been logged out")
				return
			}
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Set(DisplayNameKey, claims.DisplayName)
		c.Set(TokenIDKey, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(TokenExpiresAtKey, claims.ExpiresAt.Time)
		}

		log.Debug("User authenticated successfully", map[string]interface{}{
			"user_id":  claims.UserID,
			"username": claims.Username,
		})

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUsername extracts the username from context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	name, ok := username.(string)
	return name, ok
}

// GetTokenID extracts the session token id and expiry from context
func GetTokenID(c *gin.Context) (string, time.Time, bool) {
	tokenID := c.GetString(TokenIDKey)
	if tokenID == "" {
		return "", time.Time{}, false
	}
	return tokenID, c.GetTime(TokenExpiresAtKey), true
}
