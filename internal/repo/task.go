package repo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

//go:embed migrations/001_create_board.up.sql
var postgresSchema string

const taskColumns = `id::text, project_id, user_id, title, priority, date::text, status, description, is_deleted, created_at, updated_at`

// Postgres is the gateway backed by a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{
		pool: pool,
	}
}

// Migrate applies the embedded schema. It is idempotent.
func (r *Postgres) Migrate(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, postgresSchema)
	return err
}

func (r *Postgres) Close() {
	r.pool.Close()
}

func (r *Postgres) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE project_id = $1
		ORDER BY created_at, id
	`, projectID)
	if err != nil {
		return nil, r.mapError(err)
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *Postgres) InsertTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO tasks (id, project_id, user_id, title, priority, date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns,
		uuid.NewString(), in.ProjectID, in.UserID, in.Title, string(in.Priority), in.Date, string(model.StatusTask),
	)
	t, err := scanTask(row)
	return t, r.mapError(err)
}

func (r *Postgres) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	cols, args := patchColumns(patch)
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, 0, len(cols)+1)
	for i, c := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+2))
	}
	sets = append(sets, "updated_at = now()")

	cmd, err := r.pool.Exec(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = $1",
		append([]any{id}, args...)...,
	)
	if err != nil {
		return r.mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *Postgres) DeleteTask(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		return r.mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *Postgres) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrorNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return ErrorConflict
		case "23503", "22P02": // foreign_key_violation, invalid uuid text
			return fmt.Errorf("%w: %s", ErrorNotFound, pgErr.Message)
		}
	}
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	err := s.Scan(
		&t.ID, &t.ProjectID, &t.UserID, &t.Title, &t.Priority, &t.Date,
		&t.Status, &t.Description, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// patchColumns turns a patch into column/value pairs in a fixed order.
func patchColumns(p model.TaskPatch) ([]string, []any) {
	var (
		cols []string
		args []any
	)
	add := func(col string, v any) {
		cols = append(cols, col)
		args = append(args, v)
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Priority != nil {
		add("priority", string(*p.Priority))
	}
	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	switch {
	case p.ClearDescription:
		add("description", nil)
	case p.Description != nil:
		add("description", *p.Description)
	}
	if p.IsDeleted != nil {
		add("is_deleted", *p.IsDeleted)
	}
	return cols, args
}
