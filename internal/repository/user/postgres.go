package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"cafe-backoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const selectUser = `
SELECT u.id::text, u.email, u.username, u.full_name, u.password_hash, u.created_at,
       COALESCE(array_agg(r.role ORDER BY r.role) FILTER (WHERE r.role IS NOT NULL), '{}')
FROM users u
LEFT JOIN user_roles r ON r.user_id = u.id
`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO users (email, username, full_name, password_hash)
VALUES ($1, $2, $3, $4)
RETURNING id::text
`
	var id string
	if err := tx.QueryRow(ctx, q, strings.ToLower(u.Email), u.Username, u.FullName, u.PasswordHash).Scan(&id); err != nil {
		return nil, mapError(err)
	}
	if err := replaceRoles(ctx, tx, id, u.Roles); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("user repo: created id=%s email=%s roles=%v", id, u.Email, u.Roles)
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUser+`
WHERE lower(u.email) = lower($1)
GROUP BY u.id
`, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUser+`
WHERE u.id = $1
GROUP BY u.id
`, id))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+`
GROUP BY u.id
ORDER BY u.created_at DESC
`)
	if err != nil {
		r.logger.Printf("user repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
UPDATE users
SET email = $1, username = $2, full_name = $3, password_hash = $4
WHERE id = $5
`, strings.ToLower(u.Email), u.Username, u.FullName, u.PasswordHash, u.ID)
	if err != nil {
		return nil, mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, domain.ErrNotFound
	}
	if err := replaceRoles(ctx, tx, u.ID, u.Roles); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("user repo: updated id=%s roles=%v", u.ID, u.Roles)
	return r.GetByID(ctx, u.ID)
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		if invalidID(err) {
			return domain.ErrNotFound
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("user repo: deleted id=%s", id)
	return nil
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var roles []string
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FullName, &u.PasswordHash, &u.CreatedAt, &roles)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || invalidID(err) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	u.Roles = make([]domain.Role, 0, len(roles))
	for _, role := range roles {
		u.Roles = append(u.Roles, domain.Role(role))
	}
	return &u, nil
}

func replaceRoles(ctx context.Context, tx pgx.Tx, userID string, roles []domain.Role) error {
	if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return err
	}
	for _, role := range roles {
		if _, err := tx.Exec(ctx, `
INSERT INTO user_roles (user_id, role)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`, userID, string(role)); err != nil {
			return err
		}
	}
	return nil
}

func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrAlreadyExists
	}
	return err
}

// invalidID reports a malformed uuid literal, which can never match a row.
func invalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
