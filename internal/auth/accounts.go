package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/store"
	"github.com/2beens/fittrack/pkg"
)

const (
	minPasswordLength = 8
	maxUsernameLength = 64
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type usersRepo interface {
	CreateUser(ctx context.Context, username, passwordHash string) (*store.User, error)
	GetUserByUsername(ctx context.Context, username string) (*store.User, error)
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	username := strings.TrimSpace(c.Username)
	switch {
	case username == "":
		return fmt.Errorf("%w: username empty", ErrInvalidCredentials)
	case len(username) > maxUsernameLength:
		return fmt.Errorf("%w: username too long", ErrInvalidCredentials)
	case len(c.Password) < minPasswordLength:
		return fmt.Errorf("%w: password must have at least %d characters", ErrInvalidCredentials, minPasswordLength)
	}
	return nil
}

// Accounts registers users and turns correct credentials into sessions.
type Accounts struct {
	users    usersRepo
	sessions *Service
}

func NewAccounts(users usersRepo, sessions *Service) *Accounts {
	return &Accounts{
		users:    users,
		sessions: sessions,
	}
}

func (a *Accounts) Register(ctx context.Context, creds Credentials) (*store.User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	hash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return a.users.CreateUser(ctx, strings.TrimSpace(creds.Username), hash)
}

// Login checks the credentials and opens a session, returning its token.
func (a *Accounts) Login(ctx context.Context, creds Credentials, now time.Time) (string, error) {
	user, err := a.users.GetUserByUsername(ctx, strings.TrimSpace(creds.Username))
	if errors.Is(err, store.ErrUserNotFound) {
		return "", ErrUnknownUsername
	}
	if err != nil {
		return "", err
	}
	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", ErrWrongPassword
	}
	return a.sessions.Login(ctx, user.ID, now)
}

func (a *Accounts) Logout(ctx context.Context, token string) (bool, error) {
	return a.sessions.Logout(ctx, token)
}
