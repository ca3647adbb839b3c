package driven

import (
	"context"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
)

// TaskQueue handles background task distribution (Redis Streams)
type TaskQueue interface {
	// Enqueue adds a task. Tasks scheduled in the future are held until due.
	Enqueue(ctx context.Context, task *domain.Task) error

	// DequeueWithTimeout retrieves the next available task, waiting up to timeout seconds.
	// Returns nil, nil if the timeout is reached with no tasks available.
	DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error)

	// Ack marks a task as completed and removes it from the queue
	Ack(ctx context.Context, taskID string) error

	// Nack records a failure. The task is retried with backoff until its
	// attempts are used up, then marked failed.
	Nack(ctx context.Context, taskID string, reason string) error

	// GetTask retrieves a task by ID. Returns domain.ErrNotFound if unknown.
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)

	// Ping checks if the queue backend is healthy
	Ping(ctx context.Context) error
}
