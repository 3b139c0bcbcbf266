package worker

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datagov/internal/model"
)

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[string]*model.Task
}

func newFakeTaskStore(tasks ...*model.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: map[string]*model.Task{}}
	for _, task := range tasks {
		s.tasks[task.TaskURI] = task
	}
	return s
}

func (s *fakeTaskStore) GetTask(_ context.Context, taskURI string) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskURI]
	if !ok {
		return nil, errors.Errorf("task %q not found", taskURI)
	}
	return task, nil
}

func (s *fakeTaskStore) ListPendingTasks(_ context.Context, limit int) ([]*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var pending []*model.Task
	for _, task := range s.tasks {
		if task.Status == model.TaskPending && len(pending) < limit {
			pending = append(pending, task)
		}
	}
	return pending, nil
}

func (s *fakeTaskStore) SetTaskStatus(_ context.Context, taskURI string, status model.TaskStatus, taskErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskURI]
	if !ok {
		return errors.Errorf("task %q not found", taskURI)
	}
	task.Status = status
	task.Error = taskErr
	return nil
}

func TestProcessRecordsSuccess(t *testing.T) {
	store := newFakeTaskStore(&model.Task{TaskURI: "task-1", Action: "noop", Status: model.TaskPending})
	d := NewDispatcher(zap.NewNop())
	d.Register("noop", func(_ context.Context, _ *model.Task) (any, error) { return nil, nil })

	r := NewRunner(store, d, 1, zap.NewNop())
	defer r.Stop()

	require.NoError(t, r.Process(context.Background(), "task-1"))

	task, err := store.GetTask(context.Background(), "task-1")
	require.NoError(t, err)
	assert.Equal(t, model.TaskSucceeded, task.Status)
	assert.Empty(t, task.Error)
}

func TestProcessRecordsFailure(t *testing.T) {
	store := newFakeTaskStore(&model.Task{TaskURI: "task-1", Action: "boom", Status: model.TaskPending})
	d := NewDispatcher(zap.NewNop())
	d.Register("boom", func(_ context.Context, _ *model.Task) (any, error) {
		return nil, errors.New("bucket gone")
	})

	r := NewRunner(store, d, 1, zap.NewNop())
	defer r.Stop()

	err := r.Process(context.Background(), "task-1")
	require.Error(t, err)

	task, getErr := store.GetTask(context.Background(), "task-1")
	require.NoError(t, getErr)
	assert.Equal(t, model.TaskFailed, task.Status)
	assert.Contains(t, task.Error, "bucket gone")
}

func TestProcessMissingTaskIsTerminal(t *testing.T) {
	store := newFakeTaskStore()
	r := NewRunner(store, NewDispatcher(zap.NewNop()), 1, zap.NewNop())
	defer r.Stop()

	assert.Error(t, r.Process(context.Background(), "does-not-exist"))
}

func TestDrainPendingProcessesAll(t *testing.T) {
	store := newFakeTaskStore(
		&model.Task{TaskURI: "task-1", Action: "noop", Status: model.TaskPending},
		&model.Task{TaskURI: "task-2", Action: "noop", Status: model.TaskPending},
		&model.Task{TaskURI: "task-3", Action: "noop", Status: model.TaskPending},
	)
	d := NewDispatcher(zap.NewNop())
	d.Register("noop", func(_ context.Context, _ *model.Task) (any, error) { return nil, nil })

	r := NewRunner(store, d, 2, zap.NewNop())
	defer r.Stop()

	require.NoError(t, r.DrainPending(context.Background(), 10))

	for _, uri := range []string{"task-1", "task-2", "task-3"} {
		task, err := store.GetTask(context.Background(), uri)
		require.NoError(t, err)
		assert.Equal(t, model.TaskSucceeded, task.Status)
	}
}
