package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/k-rank/app/ranking"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

var (
	retryBaseDelay = time.Second
	retryMaxDelay  = 30 * time.Second
)

const taskTimeout = time.Minute

type Scheduler struct {
	catalog     *ranking.Catalog
	refresher   Refresher
	interval    time.Duration
	workerCount int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(catalog *ranking.Catalog, refresher Refresher, workerCount int, interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		catalog:     catalog,
		refresher:   refresher,
		interval:    interval,
		workerCount: max(workerCount, 1),
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 100),
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

		s.enqueueTasks()

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
				s.enqueueTasks()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

// EnqueueWarmTasks queues one warm-up per store key of every enabled domain
// and returns the number queued.
func (s *Scheduler) EnqueueWarmTasks() (int, error) {
	var errs []error
	queued := 0

	for _, config := range s.catalog.Enabled() {
		for _, key := range s.catalog.StoreKeys(config.Domain) {
			if err := s.EnqueueTask(NewWarmCacheTask(config.Domain, key, s.refresher)); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			queued++
		}
	}

	return queued, errors.Join(errs...)
}

func (s *Scheduler) enqueueTasks() {
	queued, err := s.EnqueueWarmTasks()
	if err != nil {
		slog.Warn("Failed to enqueue some warm-up tasks", "queued", queued, "error", err)
		return
	}
	slog.Debug("Warm-up tasks enqueued", "count", queued)
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
	if err == nil {
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		return
	}

	task.IncrementRetryCount()
	delay := retryDelay(task.GetRetryCount())

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "category", task.GetStoreKey(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", delay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
			}
		}
	}()
}

// retryDelay doubles per attempt starting at retryBaseDelay, capped at retryMaxDelay.
func retryDelay(attempt int) time.Duration {
	delay := retryBaseDelay << uint(max(attempt-1, 0))
	return min(delay, retryMaxDelay)
}
