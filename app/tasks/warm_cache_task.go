package tasks

import (
	"context"
	"log/slog"

	"github.com/lysyi3m/k-rank/app/ranking"
)

type WarmCacheTask struct {
	Task
	refresher Refresher
}

func NewWarmCacheTask(domain ranking.Domain, storeKey string, refresher Refresher) *WarmCacheTask {
	return &WarmCacheTask{
		Task:      NewTask(TaskTypeWarmCache, domain, storeKey),
		refresher: refresher,
	}
}

func (t *WarmCacheTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.refresher.Refresh(ctx, t.Domain, t.StoreKey); err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", string(t.Type),
		"domain", t.Domain,
		"category", t.StoreKey,
		"duration", t.GetDuration().String())
	return nil
}
