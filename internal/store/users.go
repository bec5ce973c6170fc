package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/jackc/pgx/v5"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Store) CreateUser(ctx context.Context, username, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.user.create")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if username == "" || passwordHash == "" {
		return nil, errors.New("username or password hash empty")
	}

	user := &User{ID: newID(""), Username: username, PasswordHash: passwordHash}
	err = s.write(ctx, "create user", TableAppUser, func(ctx context.Context) error {
		err := s.db.QueryRow(ctx, `
			INSERT INTO app_user (id, username, password_hash, created_at)
			VALUES ($1, $2, $3, now())
			RETURNING created_at
		`, user.ID, user.Username, user.PasswordHash).Scan(&user.CreatedAt)
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.user.get")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	user := &User{}
	err = s.read(ctx, "get user", TableAppUser, func(ctx context.Context) error {
		err := s.db.QueryRow(ctx, `
			SELECT id, username, password_hash, created_at
			FROM app_user
			WHERE username = $1
		`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ListUserIDs returns every registered user id, oldest account first.
func (s *Store) ListUserIDs(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.user.list_ids")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	ids := []string{}
	err = s.read(ctx, "list users", TableAppUser, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, `SELECT id FROM app_user ORDER BY created_at`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("rows scan: %w", err)
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}
