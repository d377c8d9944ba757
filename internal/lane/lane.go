// Package lane maps tasks onto the five board views.
package lane

import (
	"errors"
	"fmt"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

type ID string

const (
	Task       ID = "Task"
	InProgress ID = "InProgress"
	Review     ID = "Review"
	Done       ID = "Done"
	Trash      ID = "Trash"
)

// All lists the lanes in board order.
var All = []ID{Task, InProgress, Review, Done, Trash}

var ErrUnknownStatus = errors.New("unknown task status")

var byStatus = map[model.Status]ID{
	model.StatusTask:       Task,
	model.StatusInProgress: InProgress,
	model.StatusReview:     Review,
	model.StatusDone:       Done,
}

// Classify returns the single lane a task belongs to. Deleted tasks go to
// Trash whatever their status; a live task with an unrecognised status is an
// invariant violation and comes back as ErrUnknownStatus.
func Classify(t model.Task) (ID, error) {
	if t.IsDeleted {
		return Trash, nil
	}
	id, ok := byStatus[t.Status]
	if !ok {
		return "", fmt.Errorf("%w: task %s has status %q", ErrUnknownStatus, t.ID, t.Status)
	}
	return id, nil
}

// Status returns the task status a lane stands for. Trash has none.
func (id ID) Status() (model.Status, bool) {
	for s, l := range byStatus {
		if l == id {
			return s, true
		}
	}
	return "", false
}

// Active reports whether tasks can be dropped into the lane.
func (id ID) Active() bool {
	_, ok := id.Status()
	return ok
}

// Parse accepts either a lane key ("InProgress") or a display status
// ("In Progress").
func Parse(s string) (ID, bool) {
	for _, id := range All {
		if string(id) == s {
			return id, true
		}
	}
	if id, ok := byStatus[model.Status(s)]; ok {
		return id, true
	}
	return "", false
}

// Anomaly is a task that could not be placed in any lane.
type Anomaly struct {
	Task   model.Task `json:"task"`
	Reason string     `json:"reason"`
}

// Partition splits tasks into lanes, keeping input order inside each lane.
// Every lane key is present in the result even when empty.
func Partition(tasks []model.Task) (map[ID][]model.Task, []Anomaly) {
	lanes := make(map[ID][]model.Task, len(All))
	for _, id := range All {
		lanes[id] = []model.Task{}
	}

	var anomalies []Anomaly
	for _, t := range tasks {
		id, err := Classify(t)
		if err != nil {
			anomalies = append(anomalies, Anomaly{Task: t, Reason: err.Error()})
			continue
		}
		lanes[id] = append(lanes[id], t)
	}
	return lanes, anomalies
}
