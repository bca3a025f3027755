package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ariefcatur/go-inventory-api.git/internal/redisx"
)

// Revocations tracks tokens invalidated before expiry (logout).
type Revocations interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocations keeps revoked jtis in Redis with a TTL no shorter than the
// token lifetime, so entries expire once the token itself is dead anyway.
type RedisRevocations struct {
	Client *redis.Client
}

func (r *RedisRevocations) Revoke(ctx context.Context, jti string) error {
	return r.Client.Set(ctx, fmt.Sprintf(redisx.KeyRevokedToken, jti), "1", redisx.TTLRevokedToken).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return redisx.Exists(ctx, r.Client, fmt.Sprintf(redisx.KeyRevokedToken, jti))
}
