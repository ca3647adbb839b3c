package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/custodia-labs/dwg-dashboard/internal/core/domain"
	"github.com/custodia-labs/dwg-dashboard/internal/core/ports/driven/mocks"
)

// fakeWarmer records the files it was asked to warm
type fakeWarmer struct {
	mu     sync.Mutex
	files  []string
	err    error
	called chan string
}

func newFakeWarmer() *fakeWarmer {
	return &fakeWarmer{called: make(chan string, 10)}
}

func (f *fakeWarmer) Warm(ctx context.Context, fileID string) error {
	f.mu.Lock()
	f.files = append(f.files, fileID)
	f.mu.Unlock()
	f.called <- fileID
	return f.err
}

func (f *fakeWarmer) warmed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.files...)
}

// erroringQueue fails every dequeue
type erroringQueue struct {
	*mocks.MockTaskQueue
	calls chan struct{}
}

func (q *erroringQueue) DequeueWithTimeout(ctx context.Context, timeout int) (*domain.Task, error) {
	select {
	case q.calls <- struct{}{}:
	default:
	}
	return nil, errors.New("connection refused")
}

func TestNewWorker(t *testing.T) {
	w := NewWorker(WorkerConfig{
		TaskQueue:      mocks.NewMockTaskQueue(),
		Warmer:         newFakeWarmer(),
		Logger:         slog.Default(),
		Concurrency:    2,
		DequeueTimeout: 3,
		TaskTimeout:    time.Minute,
	})

	if w.concurrency != 2 {
		t.Errorf("expected concurrency 2, got %d", w.concurrency)
	}
	if w.dequeueTimeout != 3 {
		t.Errorf("expected dequeue timeout 3, got %d", w.dequeueTimeout)
	}
	if w.taskTimeout != time.Minute {
		t.Errorf("expected task timeout 1m, got %v", w.taskTimeout)
	}
}

func TestNewWorker_Defaults(t *testing.T) {
	w := NewWorker(WorkerConfig{TaskQueue: mocks.NewMockTaskQueue()})

	if w.concurrency != 1 {
		t.Errorf("expected default concurrency 1, got %d", w.concurrency)
	}
	if w.dequeueTimeout != 5 {
		t.Errorf("expected default dequeue timeout 5, got %d", w.dequeueTimeout)
	}
	if w.taskTimeout != 2*time.Minute {
		t.Errorf("expected default task timeout 2m, got %v", w.taskTimeout)
	}
	if w.logger == nil {
		t.Error("expected default logger")
	}
}

func TestWorker_ProcessTask_Success(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	warmer := newFakeWarmer()
	w := NewWorker(WorkerConfig{TaskQueue: queue, Warmer: warmer})
	ctx := context.Background()

	task := domain.NewWarmAnalysisTask("file-1")
	if err := queue.Enqueue(ctx, task); err != nil {
		t.Fatal(err)
	}
	got, _ := queue.DequeueWithTimeout(ctx, 0)

	w.processTask(ctx, got, slog.Default())

	if files := warmer.warmed(); len(files) != 1 || files[0] != "file-1" {
		t.Errorf("expected file-1 to be warmed, got %v", files)
	}
	if len(queue.Acked) != 1 || queue.Acked[0] != task.ID {
		t.Errorf("expected task to be acked, got %v", queue.Acked)
	}
	if len(queue.Nacked) != 0 {
		t.Errorf("expected no nacks, got %v", queue.Nacked)
	}
}

func TestWorker_ProcessTask_WarmFailure(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	warmer := newFakeWarmer()
	warmer.err = domain.ErrUnparseable
	w := NewWorker(WorkerConfig{TaskQueue: queue, Warmer: warmer})
	ctx := context.Background()

	task := domain.NewWarmAnalysisTask("file-1")
	_ = queue.Enqueue(ctx, task)

	w.processTask(ctx, task, slog.Default())

	if len(queue.Nacked) != 1 {
		t.Fatalf("expected 1 nack, got %d", len(queue.Nacked))
	}
	if task.Error != domain.ErrUnparseable.Error() {
		t.Errorf("expected failure reason to be recorded, got %q", task.Error)
	}
}

func TestWorker_ProcessTask_UnknownType(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	warmer := newFakeWarmer()
	w := NewWorker(WorkerConfig{TaskQueue: queue, Warmer: warmer})
	ctx := context.Background()

	task := domain.NewTask(domain.TaskType("unknown_type"), "file-1")
	_ = queue.Enqueue(ctx, task)

	w.processTask(ctx, task, slog.Default())

	if len(queue.Nacked) != 1 {
		t.Errorf("expected 1 nack for unknown type, got %d", len(queue.Nacked))
	}
	if len(warmer.warmed()) != 0 {
		t.Error("warmer should not be called for unknown task types")
	}
}

func TestWorker_ProcessTask_MissingFileID(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	warmer := newFakeWarmer()
	w := NewWorker(WorkerConfig{TaskQueue: queue, Warmer: warmer})
	ctx := context.Background()

	task := domain.NewWarmAnalysisTask("")
	_ = queue.Enqueue(ctx, task)

	w.processTask(ctx, task, slog.Default())

	if len(queue.Nacked) != 1 {
		t.Errorf("expected 1 nack for missing file_id, got %d", len(queue.Nacked))
	}
}

func TestWorker_StartProcessesQueue(t *testing.T) {
	queue := mocks.NewMockTaskQueue()
	warmer := newFakeWarmer()
	w := NewWorker(WorkerConfig{
		TaskQueue:      queue,
		Warmer:         warmer,
		Concurrency:    2,
		DequeueTimeout: 1,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_ = queue.Enqueue(ctx, domain.NewWarmAnalysisTask("file-1"))
	w.Start(ctx)
	defer w.Stop()

	select {
	case id := <-warmer.called:
		if id != "file-1" {
			t.Errorf("expected file-1, got %s", id)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("task was not processed")
	}
}

func TestWorker_StartStop(t *testing.T) {
	w := NewWorker(WorkerConfig{
		TaskQueue: mocks.NewMockTaskQueue(),
		Warmer:    newFakeWarmer(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)
	if !w.Running() {
		t.Error("expected worker to be running")
	}

	// Start again should be no-op
	w.Start(ctx)

	w.Stop()
	if w.Running() {
		t.Error("expected worker to be stopped")
	}

	// Stop again should be no-op
	w.Stop()
}

func TestWorker_ContextCancellation(t *testing.T) {
	w := NewWorker(WorkerConfig{
		TaskQueue: mocks.NewMockTaskQueue(),
		Warmer:    newFakeWarmer(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("worker did not stop after context cancellation")
		w.Stop()
	}
}

func TestWorker_DequeueErrorBacksOff(t *testing.T) {
	queue := &erroringQueue{
		MockTaskQueue: mocks.NewMockTaskQueue(),
		calls:         make(chan struct{}, 1),
	}
	w := NewWorker(WorkerConfig{TaskQueue: queue, Warmer: newFakeWarmer()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	select {
	case <-queue.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a dequeue attempt")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("stop should interrupt the error backoff")
	}
}
