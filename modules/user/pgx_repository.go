package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/example/task-manager/domain/user"
	"github.com/example/task-manager/storage"
)

// DBTX is the subset of pgxpool.Pool used by PgxRepository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxRepository stores users in PostgreSQL.
type PgxRepository struct {
	db    DBTX
	newID storage.IDFunc
}

var _ Repository = (*PgxRepository)(nil)

// NewPgxRepository creates a PostgreSQL backed repository.
func NewPgxRepository(db DBTX, newID storage.IDFunc) *PgxRepository {
	return &PgxRepository{db: db, newID: newID}
}

const selectUser = `SELECT id, email, created_at FROM users `

func (r *PgxRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.queryOne(ctx, selectUser+`WHERE email = $1`, email)
}

func (r *PgxRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.queryOne(ctx, selectUser+`WHERE id = $1`, id)
}

func (r *PgxRepository) queryOne(ctx context.Context, sql string, arg string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, sql, arg).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func (r *PgxRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	created := *u
	if created.ID == "" {
		created.ID = r.newID()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`,
		created.ID, created.Email, created.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

// isPgDuplicateKeyError checks if error is a PostgreSQL unique violation.
func isPgDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
