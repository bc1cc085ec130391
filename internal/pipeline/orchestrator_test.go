package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrchestrator_ProcessesSubmittedJobs(t *testing.T) {
	sink := &fakeSink{}
	o := NewOrchestrator(Options{WorkerCount: 2, MaxQueueSize: 10, JobTTL: time.Hour},
		newTestProcessor(t, time.Minute), sink, discardLog)
	o.Start(context.Background())
	defer o.Stop()

	ids := make([]string, 0, 3)
	for i := 0; i < 3; i++ {
		job := NewJob("handbook.md", handbook, "")
		require.NoError(t, o.Submit(job))
		ids = append(ids, job.ID)
	}

	for _, id := range ids {
		require.Eventually(t, func() bool {
			job := o.GetJob(id)
			return job != nil && job.Snapshot().Done()
		}, 5*time.Second, 10*time.Millisecond)

		snap := o.GetJob(id).Snapshot()
		assert.Equal(t, StatusCompleted, snap.Status)
		assert.Equal(t, "Operations Handbook", snap.Result.Title)
	}
	assert.Equal(t, 0, o.QueueDepth())
	assert.Equal(t, 3, o.Processor().Stats().Snapshot().Count)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Workers are never started, so the queue only fills.
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour},
		newTestProcessor(t, time.Minute), nil, discardLog)

	first := NewJob("a.md", handbook, "")
	require.NoError(t, o.Submit(first))
	assert.Equal(t, 1, o.QueueDepth())

	second := NewJob("b.md", handbook, "")
	err := o.Submit(second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")

	stored := o.GetJob(second.ID)
	require.NotNil(t, stored)
	assert.Equal(t, StatusFailed, stored.Snapshot().Status)
	assert.Equal(t, StatusQueued, o.GetJob(first.ID).Snapshot().Status)
}

func TestOrchestrator_GetJobMissing(t *testing.T) {
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour},
		newTestProcessor(t, time.Minute), nil, discardLog)
	assert.Nil(t, o.GetJob("nope"))
}
