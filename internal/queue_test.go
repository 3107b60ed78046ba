package internal

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWriteQueue_SerializesPerCollection(t *testing.T) {
	q := NewWriteQueue(4)

	var inside atomic.Int32
	var overlapped atomic.Bool
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := q.Do(context.Background(), CollectionGroups, func() error {
				if inside.Add(1) > 1 {
					overlapped.Store(true)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("Do failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if overlapped.Load() {
		t.Error("writes to the same collection overlapped")
	}
}

func TestWriteQueue_DifferentCollectionsRunConcurrently(t *testing.T) {
	q := NewWriteQueue(4)

	release := make(chan struct{})
	started := make(chan Collection, 2)
	var wg sync.WaitGroup

	for _, c := range []Collection{CollectionGroups, CollectionRentals} {
		wg.Add(1)
		go func(c Collection) {
			defer wg.Done()
			q.Do(context.Background(), c, func() error {
				started <- c
				<-release
				return nil
			})
		}(c)
	}

	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			close(release)
			t.Fatal("collections did not run concurrently")
		}
	}
	close(release)
	wg.Wait()
}

func TestWriteQueue_HonorsContext(t *testing.T) {
	q := NewWriteQueue(1)

	release := make(chan struct{})
	running := make(chan struct{})
	go q.Do(context.Background(), CollectionGroups, func() error {
		close(running)
		<-release
		return nil
	})
	<-running

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := q.Do(ctx, CollectionRentals, func() error { return nil })
	if err == nil {
		t.Error("Do should fail when the semaphore never frees up")
	}
	close(release)
}
