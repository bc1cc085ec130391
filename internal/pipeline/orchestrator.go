package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// statsInterval is how often the orchestrator logs queue and latency stats.
const statsInterval = time.Minute

// Orchestrator runs queued outline jobs on a fixed pool of workers.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	proc  *Processor
	sink  Sink
	log   *slog.Logger

	workerCount  int
	maxQueueSize int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Options size the orchestrator.
type Options struct {
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration
}

// NewOrchestrator creates the pipeline. sink may be nil.
func NewOrchestrator(opts Options, proc *Processor, sink Sink, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:         NewJobStore(opts.JobTTL),
		queue:        make(chan *Job, opts.MaxQueueSize),
		proc:         proc,
		sink:         sink,
		log:          log,
		workerCount:  opts.WorkerCount,
		maxQueueSize: opts.MaxQueueSize,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for i := 0; i < o.workerCount; i++ {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.proc, o.sink, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
					// Restart the TTL from completion.
					o.jobs.Put(job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(statsInterval)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
				o.logStats()
			}
		}
	}()
}

func (o *Orchestrator) logStats() {
	attrs := []any{"queue_depth", o.QueueDepth(), "jobs", o.jobs.Len()}
	if stats := o.proc.Stats(); stats != nil {
		snap := stats.Snapshot()
		attrs = append(attrs, "processed", snap.Count, "p50_ms", snap.P50Ms, "p95_ms", snap.P95Ms)
	}
	o.log.Info("pipeline stats", attrs...)
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.maxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Processor returns the processor shared by the workers, for synchronous
// requests.
func (o *Orchestrator) Processor() *Processor {
	return o.proc
}
