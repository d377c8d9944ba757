package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/board"
	"github.com/BuzzLyutic/taskboard/internal/model"
)

// MockGateway - mock of the persistence gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListTasks(ctx context.Context, projectID string) ([]model.Task, error) {
	args := m.Called(ctx, projectID)
	tasks, _ := args.Get(0).([]model.Task)
	return tasks, args.Error(1)
}

func (m *MockGateway) InsertTask(ctx context.Context, t model.NewTask) (model.Task, error) {
	args := m.Called(ctx, t)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockGateway) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockGateway) DeleteTask(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockGateway) ListComments(ctx context.Context, taskID string) ([]model.Comment, error) {
	args := m.Called(ctx, taskID)
	comments, _ := args.Get(0).([]model.Comment)
	return comments, args.Error(1)
}

func (m *MockGateway) InsertComment(ctx context.Context, taskID, text string) error {
	args := m.Called(ctx, taskID, text)
	return args.Error(0)
}

func (m *MockGateway) ListMembers(ctx context.Context, projectID string) ([]model.Membership, error) {
	args := m.Called(ctx, projectID)
	members, _ := args.Get(0).([]model.Membership)
	return members, args.Error(1)
}

func (m *MockGateway) FindUserByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockGateway) InsertMembership(ctx context.Context, projectID, userID string) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

const testProject = "proj-1"

// setupService loads a board with seed through the mock and returns an engine
// over it. The initial refresh is consumed before the test sets its own
// expectations.
func setupService(t *testing.T, seed []model.Task) (*TaskService, *MockGateway, *board.Board) {
	t.Helper()

	gw := new(MockGateway)
	gw.On("ListTasks", mock.Anything, testProject).Return(seed, nil).Once()

	b := board.New(testProject, gw, 0, zap.NewNop())
	require.NoError(t, b.Refresh(context.Background()))

	svc := NewTaskService(gw, b, Scope{ProjectID: testProject, UserID: "user-1"}, 0, zap.NewNop())
	return svc, gw, b
}

func strPtr(s string) *string { return &s }
