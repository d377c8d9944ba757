package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

func (r *Postgres) ListMembers(ctx context.Context, projectID string) ([]model.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.project_id, m.user_id::text, u.email, m.created_at
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.created_at, u.email
	`, projectID)
	if err != nil {
		return nil, r.mapError(err)
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

func (r *Postgres) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, email, name FROM users WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Email, &u.Name)
	return u, r.mapError(err)
}

func (r *Postgres) InsertMembership(ctx context.Context, projectID, userID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project_members (project_id, user_id) VALUES ($1, $2)
	`, projectID, userID)
	return r.mapError(err)
}

func (r *Postgres) UpsertUser(ctx context.Context, u model.User) (model.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name) VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id::text, email, name
	`, u.ID, u.Email, u.Name).Scan(&u.ID, &u.Email, &u.Name)
	return u, r.mapError(err)
}
