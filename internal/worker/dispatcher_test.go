package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"datagov/internal/model"
)

func TestDispatcherRoutesByAction(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	var got *model.Task
	d.Register("s3.prefix.create", func(_ context.Context, task *model.Task) (any, error) {
		got = task
		return "done", nil
	})

	task := &model.Task{TaskURI: "task-1", TargetURI: "loc-1", Action: "s3.prefix.create"}
	result, err := d.Dispatch(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, task, got)
}

func TestDispatcherUnknownActionFails(t *testing.T) {
	d := NewDispatcher(zap.NewNop())

	_, err := d.Dispatch(context.Background(), &model.Task{TaskURI: "task-1", Action: "glue.job.start"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glue.job.start")
}

func TestDispatcherDuplicateRegistrationPanics(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	handler := func(_ context.Context, _ *model.Task) (any, error) { return nil, nil }

	d.Register("s3.prefix.create", handler)
	assert.Panics(t, func() {
		d.Register("s3.prefix.create", handler)
	})
}

func TestDispatcherPaths(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	handler := func(_ context.Context, _ *model.Task) (any, error) { return nil, nil }

	d.Register("s3.prefix.create", handler)
	d.Register("env.delete", handler)

	assert.ElementsMatch(t, []string{"s3.prefix.create", "env.delete"}, d.Paths())
}
