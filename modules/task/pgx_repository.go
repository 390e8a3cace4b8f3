package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domain "github.com/example/task-manager/domain/task"
	"github.com/example/task-manager/storage"
)

// DBTX is the subset of pgxpool.Pool used by PgxRepository.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgxRepository stores tasks in PostgreSQL.
type PgxRepository struct {
	db    DBTX
	newID storage.IDFunc
}

var _ Repository = (*PgxRepository)(nil)

// NewPgxRepository creates a PostgreSQL backed repository.
func NewPgxRepository(db DBTX, newID storage.IDFunc) *PgxRepository {
	return &PgxRepository{db: db, newID: newID}
}

const selectTask = `SELECT id, user_id, title, description, completed, created_at FROM tasks `

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	return &t, nil
}

func (r *PgxRepository) FindAll(ctx context.Context, userID string) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, selectTask+`WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to find tasks: %w", err)
	}
	return tasks, nil
}

func (r *PgxRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, selectTask+`WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return t, nil
}

func (r *PgxRepository) Create(ctx context.Context, t *domain.Task) (*domain.Task, error) {
	created := *t
	if created.ID == "" {
		created.ID = r.newID()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (id, user_id, title, description, completed, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		created.ID, created.UserID, created.Title, created.Description, created.Completed, created.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &created, nil
}

func (r *PgxRepository) Update(ctx context.Context, id string, c domain.Changes) (*domain.Task, error) {
	cols := changedColumns(c)
	if len(cols) == 0 {
		t, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, ErrNotFound
		}
		return t, nil
	}

	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names))
	args := make([]any, 0, len(names)+1)
	for i, name := range names {
		sets = append(sets, fmt.Sprintf("%s = $%d", name, i+1))
		args = append(args, cols[name])
	}
	args = append(args, id)

	sql := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING id, user_id, title, description, completed, created_at`,
		strings.Join(sets, ", "), len(args))

	t, err := scanTask(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

func (r *PgxRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
