package internal

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// WriteQueue serializes sync API writes per collection while capping the
// total number of in-flight file operations with a weighted semaphore.
// Writes to different collections proceed in parallel; writes to the same
// collection run one at a time, so a document is always one whole payload
// (last write wins at collection granularity).
type WriteQueue struct {
	sem   *semaphore.Weighted
	mu    sync.Mutex
	locks map[Collection]*sync.Mutex
}

// NewWriteQueue creates a queue allowing maxConcurrent parallel operations.
func NewWriteQueue(maxConcurrent int64) *WriteQueue {
	return &WriteQueue{
		sem:   semaphore.NewWeighted(maxConcurrent),
		locks: make(map[Collection]*sync.Mutex),
	}
}

// Do runs fn under the collection's lock once a semaphore slot is free.
func (q *WriteQueue) Do(ctx context.Context, c Collection, fn func() error) error {
	if err := q.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer q.sem.Release(1)

	l := q.lock(c)
	l.Lock()
	defer l.Unlock()

	return fn()
}

func (q *WriteQueue) lock(c Collection) *sync.Mutex {
	q.mu.Lock()
	defer q.mu.Unlock()
	l, ok := q.locks[c]
	if !ok {
		l = &sync.Mutex{}
		q.locks[c] = l
	}
	return l
}
