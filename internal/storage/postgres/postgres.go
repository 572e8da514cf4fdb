// Package postgres implements storage.Storage on PostgreSQL through a
// pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aanand-mishra/taskflow-api/internal/config"
	"github.com/aanand-mishra/taskflow-api/internal/storage"
)

// uniqueViolation is the SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

type Postgres struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Postgres)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS students (
		id         BIGSERIAL    PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		email      VARCHAR(255) NOT NULL UNIQUE,
		age        INTEGER      NOT NULL,
		created_at TIMESTAMPTZ  NOT NULL,
		updated_at TIMESTAMPTZ  NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          UUID          PRIMARY KEY,
		user_id     UUID          NOT NULL,
		title       VARCHAR(500)  NOT NULL,
		description VARCHAR(5000),
		completed   BOOLEAN       NOT NULL DEFAULT FALSE,
		priority    VARCHAR(16)   NOT NULL DEFAULT 'medium',
		category    VARCHAR(16)   NOT NULL DEFAULT 'personal',
		due_date    TEXT,
		created_at  TIMESTAMPTZ   NOT NULL,
		updated_at  TIMESTAMPTZ   NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks (user_id)`,
}

// New connects to cfg.Storage.DatabaseURL, checks the connection and
// creates the tables if needed.
func New(ctx context.Context, cfg *config.Config) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}
	poolCfg.MaxConns = cfg.Storage.MaxConns
	poolCfg.MinConns = 1

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: create pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres.New: ping: %w", err)
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(connectCtx, stmt); err != nil {
			pool.Close()
			return nil, fmt.Errorf("postgres.New: create schema: %w", err)
		}
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// timestamp matches TIMESTAMPTZ precision so a returned entity equals the
// stored one.
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
