package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

// Sink stores finished outlines. *pathstore.Client implements it.
type Sink interface {
	PutOutline(ctx context.Context, out pathstore.StoredOutline) error
}

// Worker processes a single document job.
type Worker struct {
	proc  *Processor
	sink  Sink
	log   *slog.Logger
	retry RetryPolicy
}

// NewWorker creates a worker. sink may be nil, in which case results are
// only kept on the job.
func NewWorker(proc *Processor, sink Sink, log *slog.Logger) *Worker {
	return &Worker{
		proc:  proc,
		sink:  sink,
		log:   log,
		retry: DefaultRetryPolicy(),
	}
}

// Process runs the outline pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	start := time.Now()

	res, err := w.proc.Process(ctx, job.Filename, job.FileData(), func(s JobStatus) {
		job.SetStatus(s, string(s))
	})
	// The upload is no longer needed once the document has been read.
	job.SetFileData(nil)
	job.SetResult(res)
	if err != nil {
		log.Error("outline failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "extracting")
		return
	}
	log.Info("outline extracted", "title", res.Title, "headings", len(res.Outline), "duration_ms", time.Since(start).Milliseconds())

	if w.sink == nil {
		job.SetStatus(StatusCompleted, "done")
		return
	}

	job.SetStatus(StatusStoring, "storing")
	if err := w.store(ctx, log, job, res); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusPartial, "storing")
		return
	}
	job.SetStatus(StatusCompleted, "done")
}

// store writes the result to the sink, retrying transient failures.
func (w *Worker) store(ctx context.Context, log *slog.Logger, job *Job, res doctree.Result) error {
	out := pathstore.StoredOutline{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		Title:       res.Title,
		Outline:     res.Outline,
		CreatedAt:   job.CreatedAt.Format(time.RFC3339),
	}

	return w.retry.Store(ctx, w.sink, out, func(attempt int, err error) {
		log.Warn("retryable store error", "attempt", attempt, "error", err)
	})
}
