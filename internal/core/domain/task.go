package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskType identifies the type of background task
type TaskType string

const (
	// TaskTypeWarmAnalysis precomputes and caches every analysis of a file
	TaskTypeWarmAnalysis TaskType = "warm_analysis"
)

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// DefaultTaskAttempts is the retry budget of a new task
const DefaultTaskAttempts = 3

// maxBackoff caps the delay between retries
const maxBackoff = 5 * time.Minute

// Task is a background job picked up by the analysis worker
type Task struct {
	ID     string   `json:"id"`
	Type   TaskType `json:"type"`
	FileID string   `json:"file_id"`

	Status      TaskStatus `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`

	// Error is the last failure reason
	Error string `json:"error,omitempty"`

	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	ScheduledFor time.Time  `json:"scheduled_for"`
}

// NewTask creates a pending task for a file
func NewTask(taskType TaskType, fileID string) *Task {
	now := time.Now()
	return &Task{
		ID:           uuid.NewString(),
		Type:         taskType,
		FileID:       fileID,
		Status:       TaskStatusPending,
		MaxAttempts:  DefaultTaskAttempts,
		CreatedAt:    now,
		UpdatedAt:    now,
		ScheduledFor: now,
	}
}

// NewWarmAnalysisTask creates a task that fills the analysis cache for a file
func NewWarmAnalysisTask(fileID string) *Task {
	return NewTask(TaskTypeWarmAnalysis, fileID)
}

// CanRetry returns true if the task has attempts left
func (t *Task) CanRetry() bool {
	return t.Attempts < t.MaxAttempts
}

// MarkProcessing updates the task to processing state
func (t *Task) MarkProcessing() {
	now := time.Now()
	t.Status = TaskStatusProcessing
	t.StartedAt = &now
	t.UpdatedAt = now
	t.Attempts++
}

// MarkCompleted updates the task to completed state
func (t *Task) MarkCompleted() {
	now := time.Now()
	t.Status = TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.Error = ""
}

// MarkFailed updates the task to failed state
func (t *Task) MarkFailed(reason string) {
	t.Status = TaskStatusFailed
	t.UpdatedAt = time.Now()
	t.Error = reason
}

// Retry puts the task back to pending with exponential backoff (1s, 2s, 4s, ...)
func (t *Task) Retry(reason string) {
	now := time.Now()
	t.Status = TaskStatusPending
	t.UpdatedAt = now
	t.Error = reason
	t.ScheduledFor = now.Add(t.Backoff())
}

// Backoff returns the delay before the next attempt
func (t *Task) Backoff() time.Duration {
	if t.Attempts >= 9 {
		return maxBackoff
	}
	backoff := time.Duration(1<<t.Attempts) * time.Second
	return min(backoff, maxBackoff)
}
