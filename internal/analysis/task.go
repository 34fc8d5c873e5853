package analysis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/google/uuid"
)

// TaskStatus is the lifecycle state of a Task
type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusComplete  TaskStatus = "complete"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// TaskFunc does the work of a Task
type TaskFunc func(ctx context.Context) (models.Measurements, error)

// Task is a pending analysis whose result becomes available once Done is closed
type Task struct {
	id        string
	cancel    context.CancelFunc
	done      chan struct{}
	createdAt time.Time

	mu        sync.Mutex
	status    TaskStatus
	result    models.Measurements
	err       error
	cancelled bool
}

// Start runs fn in its own goroutine. Cancelling parent or calling Cancel
// stops the task.
func Start(parent context.Context, fn TaskFunc) *Task {
	ctx, cancel := context.WithCancel(parent)
	t := &Task{
		id:        uuid.NewString(),
		cancel:    cancel,
		done:      make(chan struct{}),
		createdAt: time.Now(),
		status:    TaskStatusRunning,
	}

	go func() {
		defer close(t.done)
		defer cancel()

		result, err := fn(ctx)

		t.mu.Lock()
		defer t.mu.Unlock()
		switch {
		case t.cancelled || errors.Is(err, context.Canceled):
			t.status = TaskStatusCancelled
			t.err = context.Canceled
		case err != nil:
			t.status = TaskStatusFailed
			t.err = err
		default:
			t.status = TaskStatusComplete
			t.result = result
		}
	}()

	return t
}

func (t *Task) ID() string {
	return t.id
}

func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

// Done is closed once the task has finished, failed or been cancelled
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Cancel stops the task. A cancelled task always reports context.Canceled,
// even if its function had already produced a value.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.cancelled = true
	if t.status == TaskStatusComplete {
		t.status = TaskStatusCancelled
		t.result = models.Measurements{}
		t.err = context.Canceled
	}
	t.mu.Unlock()
	t.cancel()
}

func (t *Task) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Result returns the outcome of a finished task. Calling it before Done is
// closed returns an error.
func (t *Task) Result() (models.Measurements, error) {
	select {
	case <-t.done:
	default:
		return models.Measurements{}, errors.New("task still running")
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.err
}

// Wait blocks until the task is done or ctx ends
func (t *Task) Wait(ctx context.Context) (models.Measurements, error) {
	select {
	case <-ctx.Done():
		return models.Measurements{}, ctx.Err()
	case <-t.done:
	}
	return t.Result()
}
