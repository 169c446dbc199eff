package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const taskTimeout = 5 * time.Minute

// Scheduler runs queued tasks on a small worker pool and enqueues the
// periodic task on start and on every tick.
type Scheduler struct {
	periodic    func() TaskInterface
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface

	mu    sync.Mutex
	stats Stats
}

// Stats summarizes the tasks executed so far.
type Stats struct {
	Workers         int        `json:"workers"`
	QueueSize       int        `json:"queue_size"`
	TotalProcessed  int64      `json:"total_processed"`
	TotalErrors     int64      `json:"total_errors"`
	LastProcessedAt *time.Time `json:"last_processed_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
}

func NewScheduler(periodic func() TaskInterface, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		periodic:    periodic,
		interval:    interval,
		workerCount: max(workerCount, 1),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 16),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		s.enqueuePeriodic()

		if s.interval <= 0 {
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueuePeriodic()
			}
		}
	}()
}

// Stop cancels running tasks and waits for the workers to exit. Tasks still
// queued are dropped.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) GetStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats
	stats.Workers = s.workerCount
	stats.QueueSize = len(s.taskQueue)
	return stats
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueuePeriodic() {
	if s.periodic == nil {
		return
	}

	task := s.periodic()
	if err := s.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue periodic task", "type", string(task.GetType()), "error", err)
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	s.record(err)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "error", err)
	}
}

func (s *Scheduler) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.stats.TotalProcessed++
	s.stats.LastProcessedAt = &now
	if err != nil {
		s.stats.TotalErrors++
		s.stats.LastError = err.Error()
	}
}
