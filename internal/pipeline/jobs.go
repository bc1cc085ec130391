package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// JobStatus represents the state of an outline job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusStoring    JobStatus = "storing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	// StatusPartial means the outline was extracted but could not be
	// stored in the result sink.
	StatusPartial JobStatus = "partial"
)

// Final reports whether no further transitions follow s.
func (s JobStatus) Final() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// Job tracks the state of a single document.
type Job struct {
	mu sync.Mutex

	ID    string `json:"job_id"`
	DocID string `json:"doc_id"`

	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Filename string    `json:"filename"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	result   *doctree.Result
	errors   []string
}

// NewJob creates a queued job for an uploaded file. An empty docID is
// derived from the content hash.
func NewJob(filename string, data []byte, docID string) *Job {
	hash := ContentHashHex(data)
	if docID == "" {
		docID = hash[:16]
	}
	now := time.Now()
	return &Job{
		ID:          generateULID(),
		DocID:       docID,
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		ContentHash: hash,
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	cache *cache.Cache
}

// NewJobStore keeps jobs for ttl after they were last stored.
func NewJobStore(ttl time.Duration) *JobStore {
	cleanup := ttl / 2
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &JobStore{cache: cache.New(ttl, cleanup)}
}

// Put stores the job and restarts its TTL.
func (s *JobStore) Put(job *Job) {
	s.cache.Set(job.ID, job, cache.DefaultExpiration)
}

// Get returns the job, or nil if it is unknown or expired.
func (s *JobStore) Get(id string) *Job {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil
	}
	return v.(*Job)
}

// Len returns the number of stored jobs, including expired ones not yet
// cleaned up.
func (s *JobStore) Len() int {
	return s.cache.ItemCount()
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.cache.DeleteExpired()
}

// SetStatus updates job status atomically. A job in a final state keeps
// it; SetStatus reports whether the status changed.
func (j *Job) SetStatus(status JobStatus, phase string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Status.Final() {
		return false
	}
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
	return true
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// SetResult records the extracted outline.
func (j *Job) SetResult(res doctree.Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = &res
	j.UpdatedAt = time.Now()
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string          `json:"job_id"`
	DocID       string          `json:"doc_id"`
	Status      JobStatus       `json:"status"`
	Phase       string          `json:"phase"`
	Filename    string          `json:"filename"`
	ContentHash string          `json:"content_hash,omitempty"`
	Errors      []string        `json:"errors"`
	Result      *doctree.Result `json:"result,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)

	var res *doctree.Result
	if j.result != nil {
		r := *j.result
		res = &r
	}
	return JobSnapshot{
		ID:          j.ID,
		DocID:       j.DocID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		ContentHash: j.ContentHash,
		Errors:      errs,
		Result:      res,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// Done reports whether the job reached a final state.
func (s JobSnapshot) Done() bool {
	return s.Status.Final()
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
