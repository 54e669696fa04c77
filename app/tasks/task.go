package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/lysyi3m/k-rank/app/ranking"
)

type TaskType string

const (
	TaskTypeWarmCache TaskType = "warm_cache"
)

const (
	DefaultMaxRetries = 3
)

type TaskInterface interface {
	Execute(ctx context.Context) error
	GetID() string
	GetType() TaskType
	GetDomain() ranking.Domain
	GetStoreKey() string
	GetRetryCount() int
	GetMaxRetries() int
	IncrementRetryCount()
	CanRetry() bool
	Start()
	GetDuration() time.Duration
}

type Task struct {
	ID         string
	Type       TaskType
	Domain     ranking.Domain
	StoreKey   string
	RetryCount int
	MaxRetries int
	StartedAt  *time.Time
}

func (t *Task) GetID() string {
	return t.ID
}

func (t *Task) GetType() TaskType {
	return t.Type
}

func (t *Task) GetDomain() ranking.Domain {
	return t.Domain
}

func (t *Task) GetStoreKey() string {
	return t.StoreKey
}

func (t *Task) GetRetryCount() int {
	return t.RetryCount
}

func (t *Task) GetMaxRetries() int {
	return t.MaxRetries
}

func (t *Task) IncrementRetryCount() {
	t.RetryCount++
}

func (t *Task) CanRetry() bool {
	return t.RetryCount < t.MaxRetries
}

func (t *Task) Start() {
	now := time.Now()
	t.StartedAt = &now
}

func (t *Task) GetDuration() time.Duration {
	if t.StartedAt == nil {
		return 0
	}
	return time.Since(*t.StartedAt)
}

func NewTask(taskType TaskType, domain ranking.Domain, storeKey string) Task {
	uniqueID := fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Intn(10000))

	return Task{
		ID:         uniqueID,
		Type:       taskType,
		Domain:     domain,
		StoreKey:   storeKey,
		RetryCount: 0,
		MaxRetries: DefaultMaxRetries,
	}
}
