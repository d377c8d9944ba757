package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
)

// TaskLookup resolves a task from the board's current snapshot.
type TaskLookup interface {
	Task(id string) (model.Task, bool)
}

// CommentThread caches the comments of one task at a time, newest first.
// Loading another task's thread discards the previous one.
type CommentThread struct {
	gateway repo.CommentGateway
	tasks   TaskLookup
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.RWMutex
	taskID   string
	comments []model.Comment
}

func NewCommentThread(gateway repo.CommentGateway, tasks TaskLookup, timeout time.Duration, logger *zap.Logger) *CommentThread {
	return &CommentThread{
		gateway: gateway,
		tasks:   tasks,
		timeout: timeout,
		logger:  logger,
	}
}

// Load fetches the full thread for taskID and makes it the cached one.
func (c *CommentThread) Load(ctx context.Context, taskID string) ([]model.Comment, error) {
	if err := c.visible(taskID); err != nil {
		return nil, err
	}

	var comments []model.Comment
	err := gatewayCall(ctx, c.timeout, c.logger, "list_comments", func(ctx context.Context) error {
		var err error
		comments, err = c.gateway.ListComments(ctx, taskID)
		return err
	}, zap.String("task_id", taskID))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(comments, func(a, b model.Comment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	c.mu.Lock()
	c.taskID = taskID
	c.comments = comments
	c.mu.Unlock()

	return slices.Clone(comments), nil
}

// Post appends a comment and reloads the thread.
func (c *CommentThread) Post(ctx context.Context, taskID, text string) ([]model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("comment text is empty")
	}
	if err := c.visible(taskID); err != nil {
		return nil, err
	}

	err := gatewayCall(ctx, c.timeout, c.logger, "insert_comment", func(ctx context.Context) error {
		return c.gateway.InsertComment(ctx, taskID, text)
	}, zap.String("task_id", taskID))
	if err != nil {
		return nil, err
	}
	return c.Load(ctx, taskID)
}

// Cached returns the thread held for taskID, if that is the loaded one.
func (c *CommentThread) Cached(taskID string) ([]model.Comment, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.taskID != taskID || c.taskID == "" {
		return nil, false
	}
	return slices.Clone(c.comments), true
}

// visible gates threads on the owning task: unknown tasks are not found and
// trashed tasks keep their comments but do not expose them.
func (c *CommentThread) visible(taskID string) error {
	t, ok := c.tasks.Task(taskID)
	if !ok {
		return fmt.Errorf("comments: task %s: %w", taskID, repo.ErrorNotFound)
	}
	if t.IsDeleted {
		return ErrTrashed
	}
	return nil
}
