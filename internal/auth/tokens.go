package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidToken indicates a missing, unknown or expired token
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenStore issues and verifies opaque bearer tokens tied to a user identity
type TokenStore interface {
	Issue(ctx context.Context, userID string) (string, error)
	Verify(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	Close() error
}

const (
	tokenPrefix = "cht_"
	keyPrefix   = "auth:token:"

	// DefaultTokenTTL applies when no TTL is configured
	DefaultTokenTTL = 24 * time.Hour
)

// newToken generates an opaque token value
func newToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenPrefix + hex.EncodeToString(raw), nil
}

// RedisTokenStore stores tokens in Redis with a TTL. Expiry needs no reaper;
// Redis drops the key when the TTL elapses.
type RedisTokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenStore connects to Redis and returns a token store
func NewRedisTokenStore(address, password string, db int, ttl time.Duration) (*RedisTokenStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &RedisTokenStore{client: client, ttl: ttl}, nil
}

// Issue generates an opaque token for the user and stores it with the TTL
func (s *RedisTokenStore) Issue(ctx context.Context, userID string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, keyPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}

	slog.Debug("token issued", "user_id", userID, "ttl", s.ttl)

	return token, nil
}

// Verify resolves a token to the user identity it was issued for
func (s *RedisTokenStore) Verify(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("failed to look up token: %w", err)
	}
	return userID, nil
}

// Revoke drops a token before its TTL elapses
func (s *RedisTokenStore) Revoke(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity
func (s *RedisTokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *RedisTokenStore) Close() error {
	return s.client.Close()
}
