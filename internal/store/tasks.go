package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"datagov/internal/model"
)

// CreateTask persists a new pending task and returns it with its generated URI.
func (s *Store) CreateTask(ctx context.Context, targetURI, action string, payload map[string]string) (*model.Task, error) {
	task := &model.Task{
		TaskURI:   uuid.NewString(),
		TargetURI: targetURI,
		Action:    action,
		Status:    model.TaskPending,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO task (task_uri, target_uri, action, status, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		task.TaskURI, task.TargetURI, task.Action, task.Status, task.Payload, task.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "insert task for target %q", targetURI)
	}
	return task, nil
}

// GetTask resolves a task by URI.
func (s *Store) GetTask(ctx context.Context, taskURI string) (*model.Task, error) {
	var t model.Task
	err := s.pool.QueryRow(ctx,
		`SELECT task_uri, target_uri, action, status, COALESCE(error, ''), payload, created_at, updated_at
		 FROM task WHERE task_uri = $1`,
		taskURI,
	).Scan(&t.TaskURI, &t.TargetURI, &t.Action, &t.Status, &t.Error, &t.Payload, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "task", taskURI)
	}
	return &t, nil
}

// ListPendingTasks returns tasks awaiting dispatch, oldest first.
func (s *Store) ListPendingTasks(ctx context.Context, limit int) ([]*model.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT task_uri, target_uri, action, status, COALESCE(error, ''), payload, created_at, updated_at
		 FROM task WHERE status = $1 ORDER BY created_at LIMIT $2`,
		model.TaskPending, limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list pending tasks")
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.TaskURI, &t.TargetURI, &t.Action, &t.Status, &t.Error, &t.Payload, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scan task row")
		}
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

// SetTaskStatus records the outcome of a dispatch. The error text is only
// stored for failed tasks.
func (s *Store) SetTaskStatus(ctx context.Context, taskURI string, status model.TaskStatus, taskErr string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE task SET status = $2, error = $3, updated_at = $4 WHERE task_uri = $1`,
		taskURI, status, taskErr, time.Now().UTC(),
	)
	return errors.Wrapf(err, "update task %q status", taskURI)
}
