package board

import (
	"context"
	"errors"
	"sync"

	"github.com/BuzzLyutic/taskboard/internal/lane"
	"github.com/BuzzLyutic/taskboard/internal/model"
)

var ErrNotDraggable = errors.New("task is in trash and cannot be dragged")

// StatusChanger issues the status-change command a drop resolves to.
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id string, status model.Status) error
}

// TaskLookup resolves a task from the current snapshot.
type TaskLookup interface {
	Task(id string) (model.Task, bool)
}

// DropResult says what a drop did.
type DropResult string

const (
	DropIgnored   DropResult = "ignored"   // nothing was armed
	DropCancelled DropResult = "cancelled" // target was not an active lane, or the task left the board
	DropSameLane  DropResult = "same_lane" // armed task already has the target status
	DropMoved     DropResult = "moved"     // status change issued
)

// DragSession tracks the task being dragged between Begin and Drop.
type DragSession struct {
	changer StatusChanger
	tasks   TaskLookup

	mu    sync.Mutex
	armed *model.Task
}

func NewDragSession(changer StatusChanger, tasks TaskLookup) *DragSession {
	return &DragSession{changer: changer, tasks: tasks}
}

// Begin arms the session with a snapshot of t, replacing any armed task.
func (d *DragSession) Begin(t model.Task) error {
	if t.IsDeleted {
		return ErrNotDraggable
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed = &t
	return nil
}

// Armed returns the task currently being dragged.
func (d *DragSession) Armed() (model.Task, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.armed == nil {
		return model.Task{}, false
	}
	return *d.armed, true
}

// Cancel abandons the drag without side effects.
func (d *DragSession) Cancel() {
	d.mu.Lock()
	d.armed = nil
	d.mu.Unlock()
}

// Drop resolves the armed task onto target. The same-lane check uses the
// task's status in the current snapshot, not the one seen at Begin; a task
// that has since been deleted or trashed cancels the drop. The session is
// idle afterwards whatever the outcome; a failed status change is returned,
// not retried.
func (d *DragSession) Drop(ctx context.Context, target lane.ID) (DropResult, error) {
	d.mu.Lock()
	armed := d.armed
	d.armed = nil
	d.mu.Unlock()

	if armed == nil {
		return DropIgnored, nil
	}
	status, ok := target.Status()
	if !ok {
		return DropCancelled, nil
	}
	current, ok := d.tasks.Task(armed.ID)
	if !ok || current.IsDeleted {
		return DropCancelled, nil
	}
	if status == current.Status {
		return DropSameLane, nil
	}
	if err := d.changer.ChangeStatus(ctx, armed.ID, status); err != nil {
		return DropMoved, err
	}
	return DropMoved, nil
}
