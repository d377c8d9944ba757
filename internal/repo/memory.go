package repo

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

// Memory is an in-process gateway. It backs the "memory" store driver and
// the package tests of everything above the gateway.
type Memory struct {
	mu       sync.Mutex
	seq      int64
	tasks    map[string]memTask
	comments map[string][]memComment
	users    map[string]model.User
	members  []model.Membership
	now      func() time.Time
}

type memTask struct {
	task model.Task
	seq  int64
}

type memComment struct {
	comment model.Comment
	seq     int64
}

func NewMemory() *Memory {
	return &Memory{
		tasks:    make(map[string]memTask),
		comments: make(map[string][]memComment),
		users:    make(map[string]model.User),
		now:      time.Now,
	}
}

func (m *Memory) Close() {}

func (m *Memory) next() int64 {
	m.seq++
	return m.seq
}

func (m *Memory) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := make([]memTask, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.task.ProjectID == projectID {
			rows = append(rows, t)
		}
	}
	slices.SortFunc(rows, func(a, b memTask) int { return int(a.seq - b.seq) })

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, copyTask(r.task))
	}
	return tasks, nil
}

func (m *Memory) InsertTask(ctx context.Context, in model.NewTask) (model.Task, error) {
	if err := ctx.Err(); err != nil {
		return model.Task{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now().UTC()
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
	m.tasks[t.ID] = memTask{task: t, seq: m.next()}
	return copyTask(t), nil
}

func (m *Memory) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.tasks[id]
	if !ok {
		return ErrorNotFound
	}
	if patch.Empty() {
		return nil
	}
	row.task = patch.Apply(row.task)
	row.task.UpdatedAt = m.now().UTC()
	m.tasks[id] = row
	return nil
}

func (m *Memory) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return ErrorNotFound
	}
	delete(m.tasks, id)
	delete(m.comments, id)
	return nil
}

func (m *Memory) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := slices.Clone(m.comments[taskID])
	slices.SortFunc(rows, func(a, b memComment) int {
		if c := b.comment.CreatedAt.Compare(a.comment.CreatedAt); c != 0 {
			return c
		}
		return int(b.seq - a.seq)
	})

	comments := make([]model.Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.comment)
	}
	return comments, nil
}

func (m *Memory) InsertComment(ctx context.Context, taskID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[taskID]; !ok {
		return ErrorNotFound
	}
	c := model.Comment{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		Text:      text,
		CreatedAt: m.now().UTC(),
	}
	m.comments[taskID] = append(m.comments[taskID], memComment{comment: c, seq: m.next()})
	return nil
}

func (m *Memory) ListMembers(ctx context.Context, projectID string) ([]model.Membership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	members := make([]model.Membership, 0)
	for _, mb := range m.members {
		if mb.ProjectID == projectID {
			members = append(members, mb)
		}
	}
	return members, nil
}

func (m *Memory) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return model.User{}, ErrorNotFound
	}
	return u, nil
}

func (m *Memory) InsertMembership(ctx context.Context, projectID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var email string
	for _, u := range m.users {
		if u.ID == userID {
			email = u.Email
		}
	}
	if email == "" {
		return ErrorNotFound
	}
	for _, mb := range m.members {
		if mb.ProjectID == projectID && mb.UserID == userID {
			return ErrorConflict
		}
	}
	m.members = append(m.members, model.Membership{
		ProjectID: projectID,
		UserID:    userID,
		Email:     email,
		CreatedAt: m.now().UTC(),
	})
	return nil
}

func (m *Memory) UpsertUser(ctx context.Context, u model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if existing, ok := m.users[key]; ok {
		existing.Name = u.Name
		m.users[key] = existing
		return existing, nil
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	m.users[key] = u
	return u, nil
}

func copyTask(t model.Task) model.Task {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}
