package redis

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/tubemark-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationList is a deny-list of session token ids. Entries expire on
// their own once the token they name would have expired anyway.
type RevocationList struct {
	client *redis.Client
}

func NewRevocationList(client *redis.Client) *RevocationList {
	return &RevocationList{client: client}
}

func revokedKey(tokenID string) string {
	return revokedKeyPrefix + tokenID
}

// Revoke marks a token id as revoked for ttl. A non-positive ttl means the
// token is already expired and nothing is stored.
func (r *RevocationList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("token id is empty")
	}
	if ttl <= 0 {
		logger.Debug("Skipping revocation of expired token", map[string]interface{}{
			"token_id": tokenID,
		})
		return nil
	}

	if err := r.client.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return err
	}

	logger.Debug("Token revoked", map[string]interface{}{
		"token_id": tokenID,
		"ttl":      ttl.String(),
	})
	return nil
}

// IsRevoked reports whether a token id is on the deny-list
func (r *RevocationList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		logger.Error("Failed to check token revocation", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return false, err
	}
	return n > 0, nil
}
