package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/board"
	"github.com/BuzzLyutic/taskboard/internal/lane"
	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
)

func newMemoryBoard(t *testing.T) (*TaskService, *CommentThread, *board.Board, *repo.Memory) {
	t.Helper()
	gw := repo.NewMemory()
	b := board.New(testProject, gw, 0, zap.NewNop())
	require.NoError(t, b.Refresh(context.Background()))

	svc := NewTaskService(gw, b, Scope{ProjectID: testProject, UserID: "user-1"}, 0, zap.NewNop())
	thread := NewCommentThread(gw, b, 0, zap.NewNop())
	return svc, thread, b, gw
}

func laneOf(t *testing.T, b *board.Board, id string) lane.ID {
	t.Helper()
	task, ok := b.Task(id)
	require.True(t, ok, "task %s not on board", id)
	l, err := lane.Classify(task)
	require.NoError(t, err)
	return l
}

func TestLifecycle_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, _, b, gw := newMemoryBoard(t)

	created, err := svc.Create(ctx, model.NewTask{Title: "Write spec", Priority: model.PriorityHigh, Date: "2024-06-01"})
	require.NoError(t, err)
	assert.Equal(t, lane.Task, laneOf(t, b, created.ID))

	require.NoError(t, svc.ChangeStatus(ctx, created.ID, model.StatusReview))
	assert.Equal(t, lane.Review, laneOf(t, b, created.ID))

	require.NoError(t, svc.SoftDelete(ctx, created.ID))
	assert.Equal(t, lane.Trash, laneOf(t, b, created.ID))

	require.NoError(t, svc.HardDelete(ctx, created.ID, Confirmed))

	tasks, err := gw.ListTasks(ctx, testProject)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	_, ok := b.Task(created.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, b.Snapshot().Total)
}

func TestLifecycle_SoftDeleteRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _, b, _ := newMemoryBoard(t)

	created, err := svc.Create(ctx, model.NewTask{Title: "Round trip", Priority: model.PriorityLow, Date: "2024-02-29"})
	require.NoError(t, err)
	require.NoError(t, svc.ChangeStatus(ctx, created.ID, model.StatusInProgress))
	require.NoError(t, svc.SetDescription(ctx, created.ID, "keep me"))

	before, _ := b.Task(created.ID)

	require.NoError(t, svc.SoftDelete(ctx, created.ID))
	require.NoError(t, svc.Restore(ctx, created.ID))

	after, _ := b.Task(created.ID)
	assert.False(t, after.IsDeleted)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.Title, after.Title)
	assert.Equal(t, before.Priority, after.Priority)
	assert.Equal(t, before.Date, after.Date)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, lane.InProgress, laneOf(t, b, created.ID))
}

func TestLifecycle_HardDeleteLiveTaskKeepsIt(t *testing.T) {
	ctx := context.Background()
	svc, _, b, gw := newMemoryBoard(t)

	created, err := svc.Create(ctx, model.NewTask{Title: "Stay", Date: "2024-06-01"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.HardDelete(ctx, created.ID, Confirmed), ErrInvalidState)

	tasks, err := gw.ListTasks(ctx, testProject)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, lane.Task, laneOf(t, b, created.ID))
}

func TestLifecycle_CommentThread(t *testing.T) {
	ctx := context.Background()
	svc, thread, _, _ := newMemoryBoard(t)

	created, err := svc.Create(ctx, model.NewTask{Title: "Discuss", Date: "2024-06-01"})
	require.NoError(t, err)

	_, err = thread.Post(ctx, created.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = thread.Post(ctx, created.ID, "First pass")
	require.NoError(t, err)
	comments, err := thread.Post(ctx, created.ID, "Looks good")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Looks good", comments[0].Text)

	require.NoError(t, svc.SoftDelete(ctx, created.ID))
	_, err = thread.Load(ctx, created.ID)
	assert.ErrorIs(t, err, ErrTrashed)

	require.NoError(t, svc.Restore(ctx, created.ID))
	comments, err = thread.Load(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 2, "comments survive a trip through trash")
}

func TestLifecycle_DropAfterStatusChange(t *testing.T) {
	ctx := context.Background()
	svc, _, b, gw := newMemoryBoard(t)

	created, err := svc.Create(ctx, model.NewTask{Title: "Moving", Date: "2024-06-01"})
	require.NoError(t, err)

	drag := board.NewDragSession(svc, b)
	armed, ok := b.Task(created.ID)
	require.True(t, ok)
	require.NoError(t, drag.Begin(armed))

	// status changes while the drag is armed
	require.NoError(t, svc.ChangeStatus(ctx, created.ID, model.StatusReview))

	res, err := drag.Drop(ctx, lane.Task)
	require.NoError(t, err)
	assert.Equal(t, board.DropMoved, res)
	assert.Equal(t, lane.Task, laneOf(t, b, created.ID))

	tasks, err := gw.ListTasks(ctx, testProject)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.StatusTask, tasks[0].Status)
}
