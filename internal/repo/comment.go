package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

func (r *Postgres) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, task_id::text, text, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at DESC, id DESC
	`, taskID)
	if err != nil {
		return nil, r.mapError(err)
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

func (r *Postgres) InsertComment(ctx context.Context, taskID, text string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO comments (id, task_id, text) VALUES ($1, $2, $3)
	`, uuid.NewString(), taskID, text)
	return r.mapError(err)
}
