package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
)

// stubLookup resolves tasks from a fixed map.
type stubLookup map[string]model.Task

func (s stubLookup) Task(id string) (model.Task, bool) {
	t, ok := s[id]
	return t, ok
}

func TestCommentThread_LoadOrdersNewestFirst(t *testing.T) {
	gw := new(MockGateway)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	gw.On("ListComments", mock.Anything, "t1").Return([]model.Comment{
		{ID: "c1", TaskID: "t1", Text: "first", CreatedAt: base},
		{ID: "c3", TaskID: "t1", Text: "third", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "c2", TaskID: "t1", Text: "second", CreatedAt: base.Add(time.Minute)},
	}, nil).Once()

	thread := NewCommentThread(gw, stubLookup{"t1": {ID: "t1"}}, 0, zap.NewNop())
	got, err := thread.Load(context.Background(), "t1")
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"c3", "c2", "c1"}, []string{got[0].ID, got[1].ID, got[2].ID})

	cached, ok := thread.Cached("t1")
	require.True(t, ok)
	assert.Equal(t, got, cached)
	gw.AssertExpectations(t)
}

func TestCommentThread_PostReloads(t *testing.T) {
	gw := new(MockGateway)
	now := time.Now()
	gw.On("InsertComment", mock.Anything, "t1", "looks good").Return(nil).Once()
	gw.On("ListComments", mock.Anything, "t1").Return([]model.Comment{
		{ID: "c1", TaskID: "t1", Text: "looks good", CreatedAt: now},
	}, nil).Once()

	thread := NewCommentThread(gw, stubLookup{"t1": {ID: "t1"}}, 0, zap.NewNop())
	got, err := thread.Post(context.Background(), "t1", "  looks good ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	gw.AssertExpectations(t)
}

func TestCommentThread_Errors(t *testing.T) {
	tasks := stubLookup{
		"live":    {ID: "live"},
		"trashed": {ID: "trashed", IsDeleted: true},
	}

	tests := []struct {
		name      string
		call      func(*CommentThread) error
		setupMock func(*MockGateway)
		wantErr   error
	}{
		{
			name:    "blank text",
			call:    func(c *CommentThread) error { _, err := c.Post(context.Background(), "live", "  \n"); return err },
			wantErr: ErrValidation,
		},
		{
			name:    "unknown task",
			call:    func(c *CommentThread) error { _, err := c.Load(context.Background(), "missing"); return err },
			wantErr: repo.ErrorNotFound,
		},
		{
			name:    "trashed task load",
			call:    func(c *CommentThread) error { _, err := c.Load(context.Background(), "trashed"); return err },
			wantErr: ErrTrashed,
		},
		{
			name:    "trashed task post",
			call:    func(c *CommentThread) error { _, err := c.Post(context.Background(), "trashed", "hi"); return err },
			wantErr: ErrTrashed,
		},
		{
			name: "gateway failure",
			call: func(c *CommentThread) error { _, err := c.Post(context.Background(), "live", "hi"); return err },
			setupMock: func(m *MockGateway) {
				m.On("InsertComment", mock.Anything, "live", "hi").Return(errors.New("broken pipe")).Once()
			},
			wantErr: ErrGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(MockGateway)
			if tt.setupMock != nil {
				tt.setupMock(gw)
			}
			thread := NewCommentThread(gw, tasks, 0, zap.NewNop())

			assert.ErrorIs(t, tt.call(thread), tt.wantErr)
			gw.AssertNotCalled(t, "ListComments", mock.Anything, mock.Anything)
			gw.AssertExpectations(t)
		})
	}
}

func TestCommentThread_LoadFailureKeepsCache(t *testing.T) {
	gw := new(MockGateway)
	gw.On("ListComments", mock.Anything, "t1").Return([]model.Comment{{ID: "c1", TaskID: "t1"}}, nil).Once()
	gw.On("ListComments", mock.Anything, "t2").Return(nil, errors.New("timeout")).Once()

	thread := NewCommentThread(gw, stubLookup{"t1": {ID: "t1"}, "t2": {ID: "t2"}}, 0, zap.NewNop())
	_, err := thread.Load(context.Background(), "t1")
	require.NoError(t, err)

	_, err = thread.Load(context.Background(), "t2")
	assert.ErrorIs(t, err, ErrGateway)

	cached, ok := thread.Cached("t1")
	assert.True(t, ok)
	assert.Len(t, cached, 1)
	_, ok = thread.Cached("t2")
	assert.False(t, ok)
}
