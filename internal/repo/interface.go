package repo

import (
	"context"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// TaskGateway is the task half of the persistence contract.
type TaskGateway interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
	InsertTask(ctx context.Context, t model.NewTask) (model.Task, error)
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error
	DeleteTask(ctx context.Context, id string) error
}

// CommentGateway lists comments newest first and appends new ones.
type CommentGateway interface {
	ListComments(ctx context.Context, taskID string) ([]model.Comment, error)
	InsertComment(ctx context.Context, taskID, text string) error
}

// MemberGateway covers the project membership store.
type MemberGateway interface {
	ListMembers(ctx context.Context, projectID string) ([]model.Membership, error)
	FindUserByEmail(ctx context.Context, email string) (model.User, error)
	InsertMembership(ctx context.Context, projectID, userID string) error
}

// Gateway is everything the board core needs from storage.
type Gateway interface {
	TaskGateway
	CommentGateway
	MemberGateway
	// UpsertUser is used by tooling to seed invite targets; the board core
	// never creates users.
	UpsertUser(ctx context.Context, u model.User) (model.User, error)
	Close()
}
