package repo

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

//go:embed migrations/sqlite.sql
var sqliteSchema string

// SQLite is a single-file gateway for local, single-user boards.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and applies the
// schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// one writer keeps sqlite from returning SQLITE_BUSY under load
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

func (r *SQLite) Close() {
	r.db.Close()
}

func (r *SQLite) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, user_id, title, priority, date, status, description, is_deleted, created_at, updated_at
		FROM tasks
		WHERE project_id = ?
		ORDER BY created_at, rowid
	`, projectID)
	if err != nil {
		return nil, err
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

func (r *SQLite) InsertTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	now := time.Now().UTC()
	t := model.Task{
		ID:        uuid.NewString(),
		ProjectID: in.ProjectID,
		UserID:    in.UserID,
		Title:     in.Title,
		Priority:  in.Priority,
		Date:      in.Date,
		Status:    model.StatusTask,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, user_id, title, priority, date, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ProjectID, t.UserID, t.Title, string(t.Priority), t.Date, string(t.Status), now, now)
	if err != nil {
		return model.Task{}, r.mapError(err)
	}
	return t, nil
}

func (r *SQLite) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	cols, args := patchColumns(patch)
	if len(cols) == 0 {
		return nil
	}

	sets := make([]string, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, c+" = ?")
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return r.mapError(err)
	}
	return affected(res)
}

func (r *SQLite) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return r.mapError(err)
	}
	return affected(res)
}

func (r *SQLite) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, text, created_at
		FROM comments
		WHERE task_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *SQLite) InsertComment(ctx context.Context, taskID, text string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, task_id, text, created_at) VALUES (?, ?, ?, ?)
	`, uuid.NewString(), taskID, text, time.Now().UTC())
	return r.mapError(err)
}

func (r *SQLite) ListMembers(ctx context.Context, projectID string) ([]model.Membership, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.project_id, m.user_id, u.email, m.created_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = ?
		ORDER BY m.created_at, u.email
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]model.Membership, 0)
	for rows.Next() {
		var m model.Membership
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Email, &m.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SQLite) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, name FROM users WHERE LOWER(email) = LOWER(?)", email,
	).Scan(&u.ID, &u.Email, &u.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrorNotFound
	}
	return u, err
}

func (r *SQLite) InsertMembership(ctx context.Context, projectID, userID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, created_at) VALUES (?, ?, ?)
	`, projectID, userID, time.Now().UTC())
	return r.mapError(err)
}

func (r *SQLite) UpsertUser(ctx context.Context, u model.User) (model.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET name = excluded.name
	`, u.ID, u.Email, u.Name, time.Now().UTC())
	if err != nil {
		return model.User{}, r.mapError(err)
	}
	return r.FindUserByEmail(ctx, u.Email)
}

func (r *SQLite) mapError(err error) error {
	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) && sqErr.Code == sqlite3.ErrConstraint {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ErrorConflict
		case sqlite3.ErrConstraintForeignKey:
			return ErrorNotFound
		}
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrorNotFound
	}
	return nil
}
