package pipeline

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusAnalyzing JobStatus = "analyzing"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Document is one uploaded file staged for a job.
type Document struct {
	Filename string `json:"filename"`
	SHA256   string `json:"sha256"`
	Bytes    int    `json:"bytes"`
}

// Job tracks a single persona-driven analysis over uploaded documents.
type Job struct {
	mu sync.Mutex

	ID     string    `json:"job_id"`
	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`
	Query  doctree.Query

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	workDir   string
	documents []Document
	requested []string
	errors    []string
	result    *rank.AnalysisResult
	failure   *rank.ErrorResult
}

// NewJob creates a queued job with a fresh ID.
func NewJob(q doctree.Query) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Query:     q,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// StageFile writes an uploaded document into the job's private work
// directory. name must already be sanitized.
func (j *Job) StageFile(name string, data []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.workDir == "" {
		dir, err := os.MkdirTemp("", "docrank-"+j.ID+"-")
		if err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		j.workDir = dir
	}
	if err := os.WriteFile(filepath.Join(j.workDir, name), data, 0o600); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}
	j.documents = append(j.documents, Document{
		Filename: name,
		SHA256:   ContentHashHex(data),
		Bytes:    len(data),
	})
	j.UpdatedAt = time.Now()
	return nil
}

// SetRequested fixes the ordered document list to analyze, as names
// relative to the work directory or absolute paths. When unset every staged
// file is analyzed in upload order.
func (j *Job) SetRequested(names []string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.requested = append([]string(nil), names...)
}

// DocumentPaths resolves the documents to analyze.
func (j *Job) DocumentPaths() []string {
	j.mu.Lock()
	defer j.mu.Unlock()

	names := j.requested
	if names == nil {
		for _, d := range j.documents {
			names = append(names, d.Filename)
		}
	}
	paths := make([]string, 0, len(names))
	for _, n := range names {
		if !filepath.IsAbs(n) {
			n = filepath.Join(j.workDir, n)
		}
		paths = append(paths, n)
	}
	return paths
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.UpdatedAt = time.Now()
}

// Complete stores a successful result.
func (j *Job) Complete(res *rank.AnalysisResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = res
	j.Status = StatusCompleted
	j.Phase = "done"
	j.UpdatedAt = time.Now()
}

// Fail stores the error-shaped result.
func (j *Job) Fail(res *rank.ErrorResult) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.failure = res
	j.errors = append(j.errors, res.Error)
	j.Status = StatusFailed
	j.Phase = "analyzing"
	j.UpdatedAt = time.Now()
}

// Result returns the stored artifact: *rank.AnalysisResult on success,
// *rank.ErrorResult on failure, nil while pending.
func (j *Job) Result() any {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case j.result != nil:
		return j.result
	case j.failure != nil:
		return j.failure
	}
	return nil
}

// AnalysisResult returns the successful result, if any.
func (j *Job) AnalysisResult() *rank.AnalysisResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Release removes staged files.
func (j *Job) Release() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.workDir == "" {
		return nil
	}
	err := os.RemoveAll(j.workDir)
	j.workDir = ""
	return err
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string     `json:"job_id"`
	Status      JobStatus  `json:"status"`
	Phase       string     `json:"phase"`
	Persona     string     `json:"persona"`
	JobToBeDone string     `json:"job_to_be_done"`
	Documents   []Document `json:"documents"`
	Errors      []string   `json:"errors"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.errors...)
	docs := append([]Document{}, j.documents...)
	return JobSnapshot{
		ID:          j.ID,
		Status:      j.Status,
		Phase:       j.Phase,
		Persona:     j.Query.Persona,
		JobToBeDone: j.Query.Job,
		Documents:   docs,
		Errors:      errs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func (j *Job) lastUpdate() time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.UpdatedAt
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs and their staged files.
func (s *JobStore) Cleanup() int {
	s.mu.Lock()
	var expired []*Job
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.lastUpdate()) > s.ttl {
			delete(s.jobs, id)
			expired = append(expired, job)
		}
	}
	s.mu.Unlock()

	for _, job := range expired {
		job.Release()
	}
	return len(expired)
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
