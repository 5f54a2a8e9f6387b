package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eduportal/backend/internal/models"
	"github.com/eduportal/backend/pkg/queue"
)

// ConflictSource returns the current schedule conflicts.
type ConflictSource interface {
	Conflicts(ctx context.Context) ([]models.Conflict, error)
}

// JobQueue is the part of queue.Queue the watcher consumes.
type JobQueue interface {
	Dequeue(ctx context.Context) (*queue.Job, error)
	Retry(ctx context.Context, job *queue.Job) error
}

// ConflictWatcher rescans schedule conflicts when scan jobs arrive and logs the
// conflicts that appeared or cleared since the previous scan.
type ConflictWatcher struct {
	source ConflictSource
	queue  JobQueue
	logger *zap.Logger

	mu    sync.Mutex
	known map[string]models.Conflict
}

// NewConflictWatcher creates a watcher. Call Scan once before Run to set the baseline.
func NewConflictWatcher(source ConflictSource, q JobQueue, logger *zap.Logger) *ConflictWatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictWatcher{
		source: source,
		queue:  q,
		logger: logger,
		known:  make(map[string]models.Conflict),
	}
}

// Scan compares the current conflicts with the previous scan.
func (w *ConflictWatcher) Scan(ctx context.Context) (added, cleared []models.Conflict, err error) {
	current, err := w.source.Conflicts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("scan conflicts: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next := make(map[string]models.Conflict, len(current))
	for _, c := range current {
		next[c.ID] = c
		if _, ok := w.known[c.ID]; !ok {
			added = append(added, c)
		}
	}
	for id, c := range w.known {
		if _, ok := next[id]; !ok {
			cleared = append(cleared, c)
		}
	}
	w.known = next

	for _, c := range added {
		w.logger.Warn("schedule conflict detected",
			zap.String("conflict_id", c.ID),
			zap.String("student", c.StudentEmail),
			zap.String("message", c.Message),
			zap.String("time", c.TimeAlert),
		)
	}
	for _, c := range cleared {
		w.logger.Info("schedule conflict cleared", zap.String("conflict_id", c.ID), zap.String("student", c.StudentEmail))
	}
	return added, cleared, nil
}

// Process handles one scan job.
func (w *ConflictWatcher) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeConflictScan {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var ev models.ChangeEvent
	if err := json.Unmarshal(job.Payload, &ev); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	w.logger.Debug("rescanning conflicts", zap.String("job_id", job.ID), zap.String("trigger", ev.Type))
	_, _, err := w.Scan(ctx)
	return err
}

// Run starts the worker loop: dequeue, process, retry on error.
func (w *ConflictWatcher) Run(ctx context.Context) {
	w.logger.Info("conflict watcher started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("conflict watcher stopped")
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.logger.Warn("dequeue error", zap.Error(err))
			sleep(ctx, queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}
		if err := w.Process(ctx, job); err != nil {
			w.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := w.queue.Retry(ctx, job); reErr != nil {
				w.logger.Error("retry failed", zap.Error(reErr))
			}
			sleep(ctx, queue.RetryBackoff)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Enqueuer is a storage.Notifier that turns changes affecting schedules into scan jobs.
type Enqueuer struct {
	queue  *queue.Queue
	logger *zap.Logger
}

// NewEnqueuer creates an Enqueuer.
func NewEnqueuer(q *queue.Queue, logger *zap.Logger) *Enqueuer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enqueuer{queue: q, logger: logger}
}

// Notify enqueues a scan for course and registration changes and ignores the rest.
func (e *Enqueuer) Notify(ctx context.Context, ev models.ChangeEvent) {
	if !triggersScan(ev.Type) {
		return
	}
	if err := e.queue.Enqueue(context.WithoutCancel(ctx), queue.JobTypeConflictScan, ev); err != nil {
		e.logger.Warn("enqueue conflict scan", zap.String("trigger", ev.Type), zap.Error(err))
	}
}

func triggersScan(eventType string) bool {
	switch eventType {
	case models.EventCourseUpdated, models.EventCourseDeleted,
		models.EventRegistrationCreated, models.EventRegistrationStatusChanged:
		return true
	}
	return false
}
