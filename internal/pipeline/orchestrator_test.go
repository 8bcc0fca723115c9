package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/config"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
)

type fakeAnalyzer struct {
	err   error
	block chan struct{}
	seen  chan []string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, docs []string, q doctree.Query) (*rank.AnalysisResult, error) {
	if f.seen != nil {
		f.seen <- docs
	}
	if f.block != nil {
		<-f.block
	}
	if f.err != nil {
		return nil, f.err
	}
	return &rank.AnalysisResult{Metadata: rank.Metadata{Persona: q.Persona}}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, job *Job, status JobStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if job.Snapshot().Status == status {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s never reached %q (now %q)", job.ID, status, job.Snapshot().Status)
}

func TestWorker_Success(t *testing.T) {
	job := NewJob(doctree.Query{Persona: "Analyst"})
	if err := job.StageFile("report.pdf", []byte("x")); err != nil {
		t.Fatal(err)
	}
	staged := job.DocumentPaths()[0]

	a := &fakeAnalyzer{seen: make(chan []string, 1)}
	NewWorker(a, quietLogger()).Process(context.Background(), job)

	if docs := <-a.seen; len(docs) != 1 || docs[0] != staged {
		t.Errorf("unexpected docs passed to analyzer: %v", docs)
	}
	res := job.AnalysisResult()
	if res == nil || res.Metadata.Persona != "Analyst" {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Error("expected staged files released after processing")
	}
}

func TestWorker_FailureStoresErrorResult(t *testing.T) {
	job := NewJob(doctree.Query{})
	NewWorker(&fakeAnalyzer{err: errors.New("embedding backend down")}, quietLogger()).Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("expected failed, got %q", snap.Status)
	}
	out, ok := job.Result().(*rank.ErrorResult)
	if !ok || out.Error != "embedding backend down" || out.Metadata.ProcessingTimestamp == "" {
		t.Errorf("unexpected error result %+v", job.Result())
	}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, &fakeAnalyzer{}, quietLogger())
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob(doctree.Query{Persona: "Student"})
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitFor(t, job, StatusCompleted)
	if o.GetJob(job.ID) != job {
		t.Error("expected job to be retrievable")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	block := make(chan struct{})
	a := &fakeAnalyzer{block: block, seen: make(chan []string, 4)}
	o := NewOrchestrator(cfg, a, quietLogger())
	o.Start(context.Background())
	defer func() {
		close(block)
		o.Stop()
	}()

	first := NewJob(doctree.Query{})
	if err := o.Submit(first); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	<-a.seen // worker is now busy with the first job

	if err := o.Submit(NewJob(doctree.Query{})); err != nil {
		t.Fatalf("second submit should fill the queue: %v", err)
	}
	third := NewJob(doctree.Query{})
	if err := o.Submit(third); err == nil {
		t.Fatal("expected queue full error")
	}
	if third.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job marked failed, got %q", third.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
	st := o.Stats()
	if st.Workers != 1 || st.Busy != 1 || st.QueueSize != 1 || st.Tracked != 3 {
		t.Errorf("unexpected pool stats %+v", st)
	}
}

func TestOrchestrator_StopTwice(t *testing.T) {
	o := NewOrchestrator(config.Config{WorkerCount: 1, MaxQueueSize: 1}, &fakeAnalyzer{}, quietLogger())
	o.Start(context.Background())
	o.Stop()
	o.Stop()
}

func TestCleanupInterval(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want time.Duration
	}{
		{0, 5 * time.Minute},
		{time.Hour, 5 * time.Minute},
		{4 * time.Minute, 2 * time.Minute},
		{time.Second, time.Second},
	}
	for _, tt := range tests {
		if got := cleanupInterval(tt.ttl); got != tt.want {
			t.Errorf("cleanupInterval(%v) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}
