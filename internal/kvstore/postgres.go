package kvstore

import (
	"context"
	"errors"
	"io"
	"log"

	"cafe-backoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Store backed by the documents table.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresStore{pool: pool, logger: logger}
}

func (s *postgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `
SELECT value::text
FROM documents
WHERE key = $1
`
	var blob string
	err := s.pool.QueryRow(ctx, q, key).Scan(&blob)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		s.logger.Printf("kvstore: get key=%s error=%v", key, err)
		return nil, false, domain.Remote("get", key, err)
	}
	return []byte(blob), true, nil
}

func (s *postgresStore) Set(ctx context.Context, key string, blob []byte) error {
	const q = `
INSERT INTO documents (key, value, updated_at)
VALUES ($1, $2::jsonb, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`
	if _, err := s.pool.Exec(ctx, q, key, string(blob)); err != nil {
		s.logger.Printf("kvstore: set key=%s bytes=%d error=%v", key, len(blob), err)
		return domain.Remote("set", key, err)
	}
	s.logger.Printf("kvstore: set key=%s bytes=%d", key, len(blob))
	return nil
}
