// Package worker runs deferred control-plane tasks. Handlers are registered
// under string action paths ("s3.prefix.create") and invoked synchronously,
// one call per task. There is no retry policy and no handler composition;
// failures are recorded on the task and surfaced to the caller.
package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"datagov/internal/model"
)

// Handler processes a single task. Handlers resolve their own target entity
// from the store; an unresolvable target is a hard failure, never a retry.
type Handler func(ctx context.Context, task *model.Task) (any, error)

// Dispatcher routes tasks to handlers by action path.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	log      *zap.Logger
}

func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: map[string]Handler{},
		log:      log,
	}
}

// Register binds a handler to an action path. Registering the same path
// twice is a programming error.
func (d *Dispatcher) Register(path string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[path]; exists {
		panic(fmt.Sprintf("worker: handler already registered for %q", path))
	}
	d.handlers[path] = h
}

// Paths lists the registered action paths.
func (d *Dispatcher) Paths() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	paths := make([]string, 0, len(d.handlers))
	for p := range d.handlers {
		paths = append(paths, p)
	}
	return paths
}

// Dispatch invokes the handler registered for the task's action. An unknown
// action is a hard failure.
func (d *Dispatcher) Dispatch(ctx context.Context, task *model.Task) (any, error) {
	d.mu.RLock()
	h, ok := d.handlers[task.Action]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no handler registered for action %q", task.Action)
	}
	d.log.Info("dispatching task",
		zap.String("taskUri", task.TaskURI),
		zap.String("action", task.Action),
		zap.String("targetUri", task.TargetURI),
	)
	return h(ctx, task)
}
