package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// StateManager remembers the fingerprint of the inputs each source was last indexed from
type StateManager interface {
	GetFingerprint(ctx context.Context, source string) (string, error)
	SetFingerprint(ctx context.Context, source, fingerprint string) error
	ClearFingerprint(ctx context.Context, source string) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "catalog:fingerprint:",
	}
}

func (s *redisStateManager) GetFingerprint(ctx context.Context, source string) (string, error) {
	val, err := s.redisClient.Get(ctx, s.keyPrefix+source).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil // Never indexed
		}
		return "", fmt.Errorf("failed to get fingerprint for source %s: %w", source, err)
	}
	return val, nil
}

func (s *redisStateManager) SetFingerprint(ctx context.Context, source, fingerprint string) error {
	err := s.redisClient.Set(ctx, s.keyPrefix+source, fingerprint, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set fingerprint for source %s: %w", source, err)
	}
	return nil
}

func (s *redisStateManager) ClearFingerprint(ctx context.Context, source string) error {
	if err := s.redisClient.Del(ctx, s.keyPrefix+source).Err(); err != nil {
		return fmt.Errorf("failed to clear fingerprint for source %s: %w", source, err)
	}
	return nil
}
