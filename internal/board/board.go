// Package board holds the cached view of one project's tasks and the
// transient drag state used to move tasks between lanes.
package board

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/lane"
	"github.com/BuzzLyutic/taskboard/internal/model"
)

// TaskLister is the read side of the task gateway.
type TaskLister interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
}

// Snapshot is an immutable, fully classified copy of a project's tasks as of
// the last successful refresh.
type Snapshot struct {
	ProjectID   string                   `json:"project_id"`
	Lanes       map[lane.ID][]model.Task `json:"lanes"`
	Counts      map[lane.ID]int          `json:"counts"`
	Anomalies   []lane.Anomaly           `json:"anomalies"`
	Total       int                      `json:"total"`
	RefreshedAt time.Time                `json:"refreshed_at"`
	byID        map[string]model.Task
}

// Task looks a task up by id.
func (s Snapshot) Task(id string) (model.Task, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Board owns the task cache for one project. Refresh is its only writer.
type Board struct {
	projectID string
	lister    TaskLister
	timeout   time.Duration
	logger    *zap.Logger

	refreshMu sync.Mutex // serializes refreshes end to end
	mu        sync.RWMutex
	snap      Snapshot
	loaded    bool
}

func New(projectID string, lister TaskLister, timeout time.Duration, logger *zap.Logger) *Board {
	b := &Board{
		projectID: projectID,
		lister:    lister,
		timeout:   timeout,
		logger:    logger,
	}
	b.snap = b.build(nil, time.Time{})
	return b
}

func (b *Board) ProjectID() string {
	return b.projectID
}

// Refresh replaces the cache with the gateway's current listing. On error
// the previous snapshot is kept.
func (b *Board) Refresh(ctx context.Context) error {
	b.refreshMu.Lock()
	defer b.refreshMu.Unlock()

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	tasks, err := b.lister.ListTasks(ctx, b.projectID)
	if err != nil {
		b.logger.Error("board refresh failed", zap.String("project_id", b.projectID), zap.Error(err))
		return err
	}

	snap := b.build(tasks, time.Now())
	for _, a := range snap.Anomalies {
		b.logger.Warn("task outside every lane",
			zap.String("project_id", b.projectID),
			zap.String("task_id", a.Task.ID),
			zap.String("status", string(a.Task.Status)),
		)
	}

	b.mu.Lock()
	b.snap = snap
	b.loaded = true
	b.mu.Unlock()
	return nil
}

// Snapshot returns the current view. It never blocks on a refresh in flight.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Loaded reports whether at least one refresh has succeeded.
func (b *Board) Loaded() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Task looks a task up in the current snapshot.
func (b *Board) Task(id string) (model.Task, bool) {
	return b.Snapshot().Task(id)
}

func (b *Board) build(tasks []model.Task, at time.Time) Snapshot {
	lanes, anomalies := lane.Partition(tasks)

	counts := make(map[lane.ID]int, len(lanes))
	for id, ts := range lanes {
		counts[id] = len(ts)
	}

	byID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	if anomalies == nil {
		anomalies = []lane.Anomaly{}
	}
	return Snapshot{
		ProjectID:   b.projectID,
		Lanes:       lanes,
		Counts:      counts,
		Anomalies:   anomalies,
		Total:       len(tasks),
		RefreshedAt: at,
		byID:        byID,
	}
}
