package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/go-auth-api/internal/logging"
)

// CachedDirectory puts a Redis read-through cache in front of FindByID.
// Users are never updated after creation, so entries are only dropped by TTL.
// Cached values are profiles and never contain the password hash.
type CachedDirectory struct {
	next   Directory
	client *redis.Client
	ttl    time.Duration
	logger *logging.Logger
}

func NewCachedDirectory(next Directory, client *redis.Client, ttl time.Duration, logger *logging.Logger) *CachedDirectory {
	return &CachedDirectory{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func profileKey(id string) string {
	return fmt.Sprintf("user_profile:%s", id)
}

func (c *CachedDirectory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return c.next.FindByEmail(ctx, email)
}

func (c *CachedDirectory) Create(ctx context.Context, u *User) (*User, error) {
	return c.next.Create(ctx, u)
}

// FindByID serves from cache when possible. Redis failures are logged and the
// underlying directory answers instead.
func (c *CachedDirectory) FindByID(ctx context.Context, id string) (*User, error) {
	key := profileKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached User
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return &cached, nil
		}
		c.logger.Warn("discarding undecodable cached profile", "user_id", id)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("profile cache read failed", "user_id", id, "error", err.Error())
	}

	u, err := c.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := u.Profile()
	payload, err := json.Marshal(profile)
	if err != nil {
		return profile, nil
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache write failed", "user_id", id, "error", err.Error())
	}

	return profile, nil
}
