package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fittrack/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fittrack-session||"
	tokensSetKey     = "fittrack-sessions"
	tokenLength      = 35
)

var (
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrSessionExpired  = errors.New("session expired")
	ErrInvalidSession  = errors.New("invalid session value")
	ErrWrongPassword   = errors.New("wrong password")
	ErrUnknownUsername = errors.New("unknown username")
)

type session struct {
	UserID    string
	CreatedAt time.Time
}

func (s session) encode() string {
	return s.UserID + "|" + strconv.FormatInt(s.CreatedAt.Unix(), 10)
}

func decodeSession(val string) (session, error) {
	userID, createdAtStr, ok := strings.Cut(val, "|")
	if !ok || userID == "" {
		return session{}, ErrInvalidSession
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return session{}, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	return session{UserID: userID, CreatedAt: time.Unix(createdAtUnix, 0)}, nil
}

// Service keeps login sessions in redis: token -> "userID|createdAtUnix",
// plus a set of all tokens used by the periodic cleanup.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
	now            func() time.Time
}

func NewAuthService(ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		now:            time.Now,
	}
}

func (as *Service) Login(ctx context.Context, userID string, createdAt time.Time) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}

	token, err := as.RandStringFunc(tokenLength)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	val := session{UserID: userID, CreatedAt: createdAt}.encode()
	if err := as.redisClient.Set(ctx, sessionKey, val, 0).Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// Logout removes the session. It reports false when the token was not a live session.
func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	val, err := as.redisClient.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := as.redisClient.Del(ctx, sessionKey).Err(); err != nil {
		return false, err
	}
	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	_, decodeErr := decodeSession(val)
	return decodeErr == nil, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) int {
	sessionTokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("auth service, scan and clean, get sessions: %s", err)
		return 0
	}
	if len(sessionTokens) == 0 {
		log.Debugln("auth service, scan and clean abort, no sessions")
		return 0
	}

	log.Infof("auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		val, err := as.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if errors.Is(err, redis.Nil) {
			toRemove = append(toRemove, token)
			continue
		}
		if err != nil {
			log.Errorf("auth service, scan and clean token %s: %s", token, err)
			continue
		}

		s, err := decodeSession(val)
		if err != nil || as.now().Sub(s.CreatedAt) > as.ttl {
			toRemove = append(toRemove, token)
		}
	}

	removed := 0
	for _, token := range toRemove {
		if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, clean token %s: %s", token, err)
			continue
		}
		removed++
	}
	log.Infof("auth service, scan and clean done, removed %d sessions", removed)
	return removed
}
