package server

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ignitedb/ignite/pkg/logger"
)

func TestPoolRunsAllSubmittedJobs(t *testing.T) {
	p := NewPool(4, logger.Noop())

	var done atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			done.Add(1)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(50), done.Load())
	p.Shutdown()
}

func TestPoolIsolatesPanickingJobs(t *testing.T) {
	p := NewPool(2, logger.Noop())

	var wg sync.WaitGroup
	wg.Add(1)
	p.Submit(func() {
		defer wg.Done()
		panic("boom")
	})
	wg.Wait()

	var ran atomic.Bool
	var wg2 sync.WaitGroup
	wg2.Add(1)
	p.Submit(func() {
		defer wg2.Done()
		ran.Store(true)
	})

	done := make(chan struct{})
	go func() {
		wg2.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic in time")
	}

	assert.True(t, ran.Load())
	p.Shutdown()
}

func TestPoolShutdownDrainsQueuedJobs(t *testing.T) {
	p := NewPool(1, logger.Noop())

	var completed atomic.Int64
	for i := 0; i < 10; i++ {
		p.Submit(func() {
			completed.Add(1)
		})
	}

	p.Shutdown()
	assert.Equal(t, int64(10), completed.Load())
}
