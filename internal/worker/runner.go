package worker

import (
	"context"

	"github.com/alitto/pond"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"datagov/internal/model"
)

// TaskStore is the slice of the store the runner needs.
type TaskStore interface {
	GetTask(ctx context.Context, taskURI string) (*model.Task, error)
	ListPendingTasks(ctx context.Context, limit int) ([]*model.Task, error)
	SetTaskStatus(ctx context.Context, taskURI string, status model.TaskStatus, taskErr string) error
}

// Runner processes tasks against a dispatcher. Each task runs synchronously
// on one pool worker; the pool only bounds how many tasks run at once.
type Runner struct {
	store TaskStore
	disp  *Dispatcher
	pool  *pond.WorkerPool
	log   *zap.Logger
}

// NewRunner builds a runner with a fixed-size worker pool.
func NewRunner(store TaskStore, disp *Dispatcher, workers int, log *zap.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		store: store,
		disp:  disp,
		pool:  pond.New(workers, workers*4),
		log:   log,
	}
}

// Process loads one task, dispatches it and records the outcome. The task
// must exist; a missing task or a missing target entity is terminal.
func (r *Runner) Process(ctx context.Context, taskURI string) error {
	task, err := r.store.GetTask(ctx, taskURI)
	if err != nil {
		return errors.Wrap(err, "resolve task")
	}

	if err := r.store.SetTaskStatus(ctx, task.TaskURI, model.TaskRunning, ""); err != nil {
		return err
	}

	if _, err := r.disp.Dispatch(ctx, task); err != nil {
		r.log.Error("task failed",
			zap.String("taskUri", task.TaskURI),
			zap.String("action", task.Action),
			zap.Error(err),
		)
		if statusErr := r.store.SetTaskStatus(ctx, task.TaskURI, model.TaskFailed, err.Error()); statusErr != nil {
			r.log.Error("record task failure", zap.String("taskUri", task.TaskURI), zap.Error(statusErr))
		}
		return err
	}

	return r.store.SetTaskStatus(ctx, task.TaskURI, model.TaskSucceeded, "")
}

// DrainPending processes all currently pending tasks on the pool and waits
// for them to finish. Used by the CLI worker mode; the Lambda entrypoint
// processes tasks per SQS record instead.
func (r *Runner) DrainPending(ctx context.Context, batch int) error {
	tasks, err := r.store.ListPendingTasks(ctx, batch)
	if err != nil {
		return err
	}
	group := r.pool.Group()
	for _, task := range tasks {
		uri := task.TaskURI
		group.Submit(func() {
			_ = r.Process(ctx, uri)
		})
	}
	group.Wait()
	return nil
}

// Stop waits for in-flight tasks and releases the pool.
func (r *Runner) Stop() {
	r.pool.StopAndWait()
}
