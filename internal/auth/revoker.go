package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedTokenKeyPrefix = "portfolio-revoked-token||"

var _ RevocationStore = (*Revoker)(nil)

// Revoker keeps ids of logged out tokens in redis until the tokens expire
type Revoker struct {
	redisClient *redis.Client
}

func NewRevoker(redisClient *redis.Client) *Revoker {
	return &Revoker{
		redisClient: redisClient,
	}
}

func (r *Revoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return r.redisClient.Set(ctx, revokedTokenKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	count, err := r.redisClient.Exists(ctx, revokedTokenKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
