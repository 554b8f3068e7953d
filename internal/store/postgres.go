package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx used by PostgresStore.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// PoolConfig tunes the connection pool opened by Connect.
type PoolConfig struct {
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS csv_uploads (
	id          UUID PRIMARY KEY,
	file_name   TEXT NOT NULL,
	content     TEXT NOT NULL,
	size        BIGINT NOT NULL,
	remote_addr TEXT,
	user_agent  TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS csv_uploads_created_at_idx ON csv_uploads (created_at DESC);
`

const (
	insertUploadSQL = `INSERT INTO csv_uploads (id, file_name, content, size, remote_addr, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))`

	getUploadSQL = `SELECT id, file_name, content, size, remote_addr, user_agent, created_at
FROM csv_uploads WHERE id = $1`

	listUploadsSQL = `SELECT id, file_name, size, created_at
FROM csv_uploads ORDER BY created_at DESC, id LIMIT $1`

	purgeUploadsSQL = `DELETE FROM csv_uploads WHERE created_at < $1`
)

// PostgresStore keeps uploads in the csv_uploads table.
type PostgresStore struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing connection or transaction.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

// Connect opens a pool for databaseURL, verifies it with a ping and makes
// sure the schema exists.
func Connect(ctx context.Context, databaseURL string, cfg PoolConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = int32(cfg.MinConns)
	}
	if cfg.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{db: pool, pool: pool}
	if err := s.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the uploads table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Save inserts u.
func (s *PostgresStore) Save(ctx context.Context, u Upload) error {
	_, err := s.db.Exec(ctx, insertUploadSQL,
		toPgUUID(u.ID),
		u.FileName,
		u.Content,
		u.Size,
		toPgText(u.RemoteAddr),
		toPgText(u.UserAgent),
		pgtype.Timestamptz{Time: u.CreatedAt, Valid: !u.CreatedAt.IsZero()},
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}
	return nil
}

// Get returns the upload with id or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Upload, error) {
	var (
		pgID       pgtype.UUID
		remoteAddr pgtype.Text
		userAgent  pgtype.Text
		createdAt  pgtype.Timestamptz
		u          Upload
	)
	err := s.db.QueryRow(ctx, getUploadSQL, toPgUUID(id)).Scan(
		&pgID, &u.FileName, &u.Content, &u.Size, &remoteAddr, &userAgent, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upload: %w", err)
	}

	u.ID = uuid.UUID(pgID.Bytes)
	u.RemoteAddr = remoteAddr.String
	u.UserAgent = userAgent.String
	u.CreatedAt = createdAt.Time
	return &u, nil
}

// List returns up to limit summaries, newest first. A non-positive limit
// returns everything.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]Summary, error) {
	rows, err := s.db.Query(ctx, listUploadsSQL, pgtype.Int4{Int32: int32(limit), Valid: limit > 0})
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}

	summaries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Summary, error) {
		var (
			pgID      pgtype.UUID
			createdAt pgtype.Timestamptz
			sum       Summary
		)
		if err := row.Scan(&pgID, &sum.FileName, &sum.Size, &createdAt); err != nil {
			return Summary{}, err
		}
		sum.ID = uuid.UUID(pgID.Bytes)
		sum.CreatedAt = createdAt.Time
		return sum, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	return summaries, nil
}

// PurgeOlderThan deletes uploads created before cutoff.
func (s *PostgresStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, purgeUploadsSQL, pgtype.Timestamptz{Time: cutoff, Valid: true})
	if err != nil {
		return 0, fmt.Errorf("purge uploads: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Close releases the pool opened by Connect. Stores built with
// NewPostgresStore leave connection lifetime to the caller.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: id != uuid.Nil}
}

func toPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
