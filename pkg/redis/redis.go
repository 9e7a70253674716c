package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/foodgram/foodgram-backend/config"
	"github.com/foodgram/foodgram-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "foodgram:blacklist:"

// NewClient connects to Redis and verifies the connection with a PING.
func NewClient(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"addr": cfg.Addr(),
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return client, nil
}

// TokenBlacklist stores revoked auth tokens by their ID until they expire.
type TokenBlacklist struct {
	client redis.Cmdable
}

func NewTokenBlacklist(client redis.Cmdable) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func blacklistKey(tokenID string) string {
	return blacklistPrefix + tokenID
}

// Revoke blacklists tokenID for ttl. A non-positive ttl means the token has
// already expired and nothing is stored.
func (b *TokenBlacklist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		logger.Debug("Token already expired, skipping blacklist", map[string]interface{}{
			"token_id": tokenID,
		})
		return nil
	}

	if err := b.client.Set(ctx, blacklistKey(tokenID), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	logger.Debug("Token blacklisted", map[string]interface{}{
		"token_id": tokenID,
		"ttl":      ttl.String(),
	})
	return nil
}

// IsRevoked reports whether tokenID was blacklisted.
func (b *TokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := b.client.Get(ctx, blacklistKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, map[string]interface{}{
			"token_id": tokenID,
		})
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return val == "revoked", nil
}
