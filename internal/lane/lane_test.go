package lane

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		task    model.Task
		want    ID
		wantErr bool
	}{
		{name: "task lane", task: model.Task{Status: model.StatusTask}, want: Task},
		{name: "in progress", task: model.Task{Status: model.StatusInProgress}, want: InProgress},
		{name: "review", task: model.Task{Status: model.StatusReview}, want: Review},
		{name: "done", task: model.Task{Status: model.StatusDone}, want: Done},
		{name: "deleted wins over status", task: model.Task{Status: model.StatusReview, IsDeleted: true}, want: Trash},
		{name: "deleted with unknown status", task: model.Task{Status: "archived", IsDeleted: true}, want: Trash},
		{name: "unknown status", task: model.Task{ID: "x", Status: "archived"}, wantErr: true},
		{name: "empty status", task: model.Task{ID: "y"}, wantErr: true},
		{name: "lane key is not a status", task: model.Task{Status: "InProgress"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.task)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartition_DisjointAndExhaustive(t *testing.T) {
	statuses := []model.Status{model.StatusTask, model.StatusInProgress, model.StatusReview, model.StatusDone, "bogus"}

	var tasks []model.Task
	for i := 0; i < 40; i++ {
		tasks = append(tasks, model.Task{
			ID:        fmt.Sprintf("t%d", i),
			Status:    statuses[i%len(statuses)],
			IsDeleted: i%3 == 0,
		})
	}

	lanes, anomalies := Partition(tasks)
	require.Len(t, lanes, len(All))

	seen := make(map[string]int)
	for _, id := range All {
		for _, task := range lanes[id] {
			seen[task.ID]++
		}
	}
	for _, a := range anomalies {
		seen[a.Task.ID]++
		assert.False(t, a.Task.IsDeleted)
		assert.NotEmpty(t, a.Reason)
	}

	assert.Len(t, seen, len(tasks), "no task may vanish")
	for id, n := range seen {
		assert.Equal(t, 1, n, "task %s placed %d times", id, n)
	}
}

func TestPartition_EmptyLanesPresent(t *testing.T) {
	lanes, anomalies := Partition(nil)
	assert.Nil(t, anomalies)
	for _, id := range All {
		assert.NotNil(t, lanes[id])
		assert.Empty(t, lanes[id])
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want ID
		ok   bool
	}{
		{"Task", Task, true},
		{"InProgress", InProgress, true},
		{"In Progress", InProgress, true},
		{"Review", Review, true},
		{"Trash", Trash, true},
		{"sidebar", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := Parse(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusRoundTrip(t *testing.T) {
	for _, s := range model.Statuses {
		id, err := Classify(model.Task{Status: s})
		require.NoError(t, err)
		back, ok := id.Status()
		require.True(t, ok)
		assert.Equal(t, s, back)
		assert.True(t, id.Active())
	}
	_, ok := Trash.Status()
	assert.False(t, ok)
	assert.False(t, Trash.Active())
}
