package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const roleField = "role"

// RedisDirectory reads roles from the usersDB:<email> hashes.
type RedisDirectory struct {
	client redis.Cmdable
}

func NewRedisDirectory(client redis.Cmdable) *RedisDirectory {
	return &RedisDirectory{client: client}
}

func userKey(email string) string {
	return "usersDB:" + email
}

func (d *RedisDirectory) Role(ctx context.Context, email string) (Role, error) {
	v, err := d.client.HGet(ctx, userKey(email), roleField).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoRole
	}
	if err != nil {
		return "", fmt.Errorf("lookup role for %s: %w", email, err)
	}
	role := Role(v)
	if !role.Valid() {
		return "", fmt.Errorf("%q for %s: %w", v, email, ErrInvalidRole)
	}
	return role, nil
}

// SetRole records the role chosen during onboarding.
func (d *RedisDirectory) SetRole(ctx context.Context, email string, role Role) error {
	if !role.Valid() {
		return fmt.Errorf("%q: %w", role, ErrInvalidRole)
	}
	return d.client.HSet(ctx, userKey(email), roleField, string(role)).Err()
}
