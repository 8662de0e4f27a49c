package redis

// Package redis provides Redis-based adapters for recruit-admin.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/recruit-admin/internal/domain/auth"
)

// DefaultProfilePrefix namespaces cached principals.
const DefaultProfilePrefix = "recruit-admin:profile:"

// ProfileCache is a Redis-backed cache of admin principals keyed by a digest of the bearer token.
// Raw tokens are never written to Redis.
type ProfileCache struct {
	client redis.UniversalClient
	prefix string
}

// NewProfileCache creates a new Redis-based profile cache.
func NewProfileCache(client redis.UniversalClient) *ProfileCache {
	return &ProfileCache{
		client: client,
		prefix: DefaultProfilePrefix,
	}
}

// NewProfileCacheWithPrefix creates a profile cache with a custom key prefix.
func NewProfileCacheWithPrefix(client redis.UniversalClient, prefix string) *ProfileCache {
	return &ProfileCache{
		client: client,
		prefix: prefix,
	}
}

func (c *ProfileCache) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return c.prefix + hex.EncodeToString(sum[:])
}

// Get returns the cached principal for token; ok is false on a miss.
func (c *ProfileCache) Get(ctx context.Context, token string) (domainauth.Principal, bool, error) {
	if token == "" {
		return domainauth.Principal{}, false, nil
	}

	data, err := c.client.Get(ctx, c.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Principal{}, false, nil
		}
		return domainauth.Principal{}, false, fmt.Errorf("redis get: %w", err)
	}

	var p domainauth.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		// A payload we cannot decode is dropped so the next lookup refetches.
		if delErr := c.Delete(ctx, token); delErr != nil {
			return domainauth.Principal{}, false, errors.Join(fmt.Errorf("unmarshal principal: %w", err), delErr)
		}
		return domainauth.Principal{}, false, fmt.Errorf("unmarshal principal: %w", err)
	}
	return p, true, nil
}

// Set caches principal for token for ttl. A non-positive ttl is a no-op.
func (c *ProfileCache) Set(ctx context.Context, token string, principal domainauth.Principal, ttl time.Duration) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(principal)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	return c.client.Set(ctx, c.key(token), data, ttl).Err()
}

// Delete evicts the entry for token.
func (c *ProfileCache) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return c.client.Del(ctx, c.key(token)).Err()
}
