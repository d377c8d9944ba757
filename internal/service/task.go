package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
)

// Board is the cache the engine reads preconditions from and refreshes after
// every successful write.
type Board interface {
	Refresh(ctx context.Context) error
	Task(id string) (model.Task, bool)
}

// Scope identifies whose board the engine is mutating. It comes from the
// session, never from a constant.
type Scope struct {
	ProjectID string
	UserID    string
}

// TaskService is the command surface of the board. Each command validates,
// issues one gateway write and then rebuilds the board from the gateway. A
// failed command leaves the board untouched.
type TaskService struct {
	gateway repo.TaskGateway
	board   Board
	scope   Scope
	timeout time.Duration
	logger  *zap.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewTaskService(gateway repo.TaskGateway, board Board, scope Scope, timeout time.Duration, logger *zap.Logger) *TaskService {
	return &TaskService{
		gateway:  gateway,
		board:    board,
		scope:    scope,
		timeout:  timeout,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

func (s *TaskService) Create(ctx context.Context, in model.NewTask) (model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if err := validateNew(in); err != nil {
		return model.Task{}, err
	}
	if s.scope.ProjectID == "" {
		return model.Task{}, invalid("project is required")
	}
	in.ProjectID = s.scope.ProjectID
	in.UserID = s.scope.UserID

	var created model.Task
	err := gatewayCall(ctx, s.timeout, s.logger, "create", func(ctx context.Context) error {
		var err error
		created, err = s.gateway.InsertTask(ctx, in)
		return err
	}, zap.String("project_id", in.ProjectID))
	if err != nil {
		return model.Task{}, err
	}

	s.logger.Info("task created",
		zap.String("project_id", in.ProjectID),
		zap.String("task_id", created.ID),
	)
	return created, s.refresh(ctx, "create")
}

func (s *TaskService) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("title is required")
	}
	return s.update(ctx, "rename", id, nil, model.TaskPatch{Title: &title})
}

func (s *TaskService) SetPriority(ctx context.Context, id string, p model.Priority) error {
	if !p.Valid() {
		return invalid("unknown priority %q", p)
	}
	return s.update(ctx, "set_priority", id, nil, model.TaskPatch{Priority: &p})
}

func (s *TaskService) SetDate(ctx context.Context, id, date string) error {
	date = strings.TrimSpace(date)
	if err := validateDate(date); err != nil {
		return err
	}
	return s.update(ctx, "set_date", id, nil, model.TaskPatch{Date: &date})
}

func (s *TaskService) ChangeStatus(ctx context.Context, id string, status model.Status) error {
	if !status.Valid() {
		return invalid("unknown status %q", status)
	}
	return s.update(ctx, "change_status", id, nil, model.TaskPatch{Status: &status})
}

func (s *TaskService) SetDescription(ctx context.Context, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return invalid("description is empty")
	}
	return s.update(ctx, "set_description", id, nil, model.TaskPatch{Description: &text})
}

func (s *TaskService) ClearDescription(ctx context.Context, id string, confirm Confirm) error {
	return s.run(ctx, "clear_description", id,
		func(t model.Task) error {
			if t.Description == nil {
				return fmt.Errorf("%w: task has no description", ErrInvalidState)
			}
			return nil
		},
		confirm, "Clear the description? This cannot be undone.",
		func(ctx context.Context) error {
			return s.gateway.UpdateTask(ctx, id, model.TaskPatch{ClearDescription: true})
		},
	)
}

func (s *TaskService) SoftDelete(ctx context.Context, id string) error {
	deleted := true
	return s.update(ctx, "soft_delete", id, func(t model.Task) error {
		if t.IsDeleted {
			return fmt.Errorf("%w: task is already in trash", ErrInvalidState)
		}
		return nil
	}, model.TaskPatch{IsDeleted: &deleted})
}

func (s *TaskService) Restore(ctx context.Context, id string) error {
	deleted := false
	return s.update(ctx, "restore", id, requireTrashed, model.TaskPatch{IsDeleted: &deleted})
}

// HardDelete removes a trashed task for good.
func (s *TaskService) HardDelete(ctx context.Context, id string, confirm Confirm) error {
	return s.run(ctx, "hard_delete", id, requireTrashed,
		confirm, "Delete this task permanently? It cannot be restored.",
		func(ctx context.Context) error {
			return s.gateway.DeleteTask(ctx, id)
		},
	)
}

func requireTrashed(t model.Task) error {
	if !t.IsDeleted {
		return fmt.Errorf("%w: task is not in trash", ErrInvalidState)
	}
	return nil
}

func (s *TaskService) update(ctx context.Context, op, id string, check func(model.Task) error, patch model.TaskPatch) error {
	return s.run(ctx, op, id, check, nil, "", func(ctx context.Context) error {
		return s.gateway.UpdateTask(ctx, id, patch)
	})
}

// run is the shared command pipeline: guard, precondition, confirmation,
// write, refresh.
func (s *TaskService) run(ctx context.Context, op, id string, check func(model.Task) error, confirm Confirm, prompt string, write func(context.Context) error) error {
	release, err := s.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	task, ok := s.board.Task(id)
	if !ok {
		return fmt.Errorf("%s: task %s: %w", op, id, repo.ErrorNotFound)
	}
	if check != nil {
		if err := check(task); err != nil {
			return err
		}
	}
	if confirm != nil && !confirm(ctx, prompt) {
		return ErrNotConfirmed
	}

	if err := gatewayCall(ctx, s.timeout, s.logger, op, write, zap.String("task_id", id)); err != nil {
		return err
	}
	s.logger.Info("task updated", zap.String("op", op), zap.String("task_id", id))
	return s.refresh(ctx, op)
}

func (s *TaskService) refresh(ctx context.Context, op string) error {
	if err := s.board.Refresh(ctx); err != nil {
		return fmt.Errorf("%w: refresh after %s: %w", ErrGateway, op, err)
	}
	return nil
}

// acquire blocks a second command on the same task while one is in flight.
func (s *TaskService) acquire(id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[id]; busy {
		return nil, ErrBusy
	}
	s.inflight[id] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.inflight, id)
		s.mu.Unlock()
	}, nil
}

func validateNew(in model.NewTask) error {
	if in.Title == "" {
		return invalid("title is required")
	}
	if in.Date == "" {
		return invalid("date is required")
	}
	if err := validateDate(in.Date); err != nil {
		return err
	}
	if !in.Priority.Valid() {
		return invalid("unknown priority %q", in.Priority)
	}
	return nil
}

func validateDate(date string) error {
	if date == "" {
		return invalid("date is required")
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return invalid("date %q is not YYYY-MM-DD", date)
	}
	return nil
}
