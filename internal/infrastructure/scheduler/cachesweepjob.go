package scheduler

import (
	"context"
)

// Sweeper is implemented by cache.MemoryStore.
type Sweeper interface {
	Sweep() int
}

// CacheSweepJob drops expired entries so an in-memory cache does not grow without bound.
type CacheSweepJob struct {
	store Sweeper
}

func NewCacheSweepJob(store Sweeper) *CacheSweepJob {
	return &CacheSweepJob{store: store}
}

func (j *CacheSweepJob) Execute(context.Context) (int, error) {
	return j.store.Sweep(), nil
}
