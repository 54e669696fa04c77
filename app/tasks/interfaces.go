package tasks

import (
	"context"

	"github.com/lysyi3m/k-rank/app/ranking"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the server to keep the snapshot cache warm between daily publishes.
// Example usage:
//
//	scheduler := NewScheduler(catalog, service, workerCount, interval)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueWarmTasks()
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueWarmTasks() (int, error)
}

// Refresher re-reads one store key and republishes it to the cache.
// Implemented by ranking.Service.
type Refresher interface {
	Refresh(ctx context.Context, domain ranking.Domain, storeKey string) error
}
