package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
	now         func() time.Time
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
		now:         time.Now,
	}
}

// UserID resolves the owner of a live session token.
func (lc *LoginChecker) UserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNotLoggedIn
	}

	val, err := lc.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotLoggedIn
	}
	if err != nil {
		return "", err
	}

	s, err := decodeSession(val)
	if err != nil {
		return "", err
	}
	if lc.now().Sub(s.CreatedAt) > lc.ttl {
		return "", ErrSessionExpired
	}
	return s.UserID, nil
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := lc.UserID(ctx, token)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, ErrSessionExpired):
		return false, nil
	default:
		return false, err
	}
}
