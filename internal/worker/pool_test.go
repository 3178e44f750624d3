package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/creatorblue32/bonsai-medical/internal/worker"
)

type countJob struct {
	ran *atomic.Int64
	err error
}

func (j *countJob) Run(ctx context.Context) error {
	j.ran.Add(1)
	return j.err
}

func (j *countJob) Name() string { return "count" }

func TestPool_StopDrainsQueuedJobs(t *testing.T) {
	pool := worker.NewPool(1, 16)
	var ran atomic.Int64
	for i := 0; i < 8; i++ {
		pool.Submit(&countJob{ran: &ran})
	}

	pool.Start(context.Background())
	pool.Stop()

	assert.Equal(t, int64(8), ran.Load(), "every queued job must run before Stop returns")
}

func TestPool_JobErrorDoesNotStopWorker(t *testing.T) {
	pool := worker.NewPool(1, 16)
	var ran atomic.Int64
	pool.Submit(&countJob{ran: &ran, err: errors.New("boom")})
	pool.Submit(&countJob{ran: &ran})

	pool.Start(context.Background())
	pool.Stop()

	assert.Equal(t, int64(2), ran.Load())
}
