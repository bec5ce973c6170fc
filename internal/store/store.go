package store

import (
	"context"
	"fmt"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

// dbConn is the part of *pgxpool.Pool the store uses.
type dbConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ dbConn = (*pgxpool.Pool)(nil)

type Store struct {
	db        dbConn
	callbacks Callbacks
}

type NewStoreParams struct {
	DB        *pgxpool.Pool
	Callbacks Callbacks
}

func NewStore(params NewStoreParams) *Store {
	return &Store{
		db:        params.DB,
		callbacks: params.Callbacks,
	}
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// probe checks table presence before the real statement runs, so a
// missing schema is reported as ErrTableMissing instead of a query failure.
func (s *Store) probe(ctx context.Context, table string) error {
	if _, err := s.db.Exec(ctx, "SELECT 1 FROM "+pq.QuoteIdentifier(table)+" LIMIT 1"); err != nil {
		return Normalize("probe table", table, err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, op, table string, fn func(ctx context.Context) error) error {
	if err := s.probe(ctx, table); err != nil {
		return err
	}
	return Normalize(op, table, fn(ctx))
}

func (s *Store) write(ctx context.Context, op, table string, fn func(ctx context.Context) error) error {
	s.callbacks.saving(op)
	err := s.probe(ctx, table)
	if err == nil {
		err = Normalize(op, table, fn(ctx))
	}
	if err != nil {
		s.callbacks.failed(op, err)
		return err
	}
	s.callbacks.success(op)
	return nil
}

// inTx runs fn in a transaction, rolled back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
			return
		}
		err = tx.Commit(ctx)
	}()
	return fn(tx)
}

// ExistingTables returns which of the required tables are present in the public schema.
func (s *Store) ExistingTables(ctx context.Context) (_ []string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.existing_tables")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	rows, err := s.db.Query(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
		ORDER BY table_name
	`, RequiredTables)
	if err != nil {
		return nil, Normalize("list tables", "", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, Normalize("list tables", "", err)
	}
	return tables, nil
}

// MissingTables returns the required tables that do not exist yet, in creation order.
func (s *Store) MissingTables(ctx context.Context) ([]string, error) {
	existing, err := s.ExistingTables(ctx)
	if err != nil {
		return nil, err
	}
	return MissingFrom(existing), nil
}

// MissingFrom returns the required tables absent from existing, in creation order.
func MissingFrom(existing []string) []string {
	present := make(map[string]bool, len(existing))
	for _, t := range existing {
		present[t] = true
	}
	missing := []string{}
	for _, t := range RequiredTables {
		if !present[t] {
			missing = append(missing, t)
		}
	}
	return missing
}

// Setup executes the creation script.
func (s *Store) Setup(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.store.setup")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if _, err := s.db.Exec(ctx, SchemaSQL()); err != nil {
		return Normalize("create schema", "", err)
	}
	log.Println("database schema created")
	return nil
}
