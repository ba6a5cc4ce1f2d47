package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const blacklistPrefix = "blacklist:"

// TokenBlacklist stores revoked token IDs in Redis until the token would
// have expired anyway.
type TokenBlacklist struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewTokenBlacklist(client *redis.Client, logger *logrus.Logger) *TokenBlacklist {
	return &TokenBlacklist{
		client: client,
		logger: logger,
	}
}

// Add blacklists jti for ttl. Tokens that are already expired need no entry.
func (b *TokenBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		b.logger.WithError(err).WithField("jti", jti).Error("Failed to blacklist token")
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (b *TokenBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return n > 0, nil
}
