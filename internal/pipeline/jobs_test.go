package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/rank"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestNewJob(t *testing.T) {
	a := NewJob(doctree.Query{Persona: "HR professional", Job: "Create fillable forms"})
	b := NewJob(doctree.Query{})
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	snap := a.Snapshot()
	if snap.Status != StatusQueued || snap.Persona != "HR professional" || snap.JobToBeDone != "Create fillable forms" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Errors == nil || snap.Documents == nil {
		t.Error("expected non-nil slices in snapshot")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob(doctree.Query{})
	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusAnalyzing, "analyzing"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_StageAndRelease(t *testing.T) {
	job := NewJob(doctree.Query{})
	if err := job.StageFile("a.pdf", []byte("%PDF-a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := job.StageFile("b.pdf", []byte("%PDF-b")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paths := job.DocumentPaths()
	if len(paths) != 2 || filepath.Base(paths[0]) != "a.pdf" || filepath.Base(paths[1]) != "b.pdf" {
		t.Fatalf("unexpected paths %v", paths)
	}
	data, err := os.ReadFile(paths[1])
	if err != nil || string(data) != "%PDF-b" {
		t.Fatalf("staged file not readable: %v %q", err, data)
	}
	snap := job.Snapshot()
	if len(snap.Documents) != 2 || snap.Documents[0].SHA256 != ContentHashHex([]byte("%PDF-a")) || snap.Documents[0].Bytes != 6 {
		t.Errorf("unexpected documents %+v", snap.Documents)
	}

	if err := job.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
	if _, err := os.Stat(paths[0]); !os.IsNotExist(err) {
		t.Errorf("expected staged files removed, stat err=%v", err)
	}
	if err := job.Release(); err != nil {
		t.Errorf("second release should be a no-op: %v", err)
	}
}

func TestJob_RequestedOrder(t *testing.T) {
	job := NewJob(doctree.Query{})
	defer job.Release()
	job.StageFile("a.pdf", []byte("a"))
	job.StageFile("b.pdf", []byte("b"))
	job.SetRequested([]string{"b.pdf", "missing.pdf", "/abs/c.pdf"})

	paths := job.DocumentPaths()
	want := []string{"b.pdf", "missing.pdf", "c.pdf"}
	if len(paths) != len(want) {
		t.Fatalf("unexpected paths %v", paths)
	}
	for i := range want {
		if filepath.Base(paths[i]) != want[i] {
			t.Errorf("paths[%d] = %q, want base %q", i, paths[i], want[i])
		}
	}
	if paths[2] != "/abs/c.pdf" {
		t.Errorf("expected absolute path kept, got %q", paths[2])
	}
}

func TestJob_CompleteAndFail(t *testing.T) {
	job := NewJob(doctree.Query{})
	if job.Result() != nil {
		t.Fatal("expected nil result while pending")
	}
	res := &rank.AnalysisResult{}
	job.Complete(res)
	if job.Result() != res || job.AnalysisResult() != res || job.Snapshot().Status != StatusCompleted {
		t.Error("expected completed job to expose its result")
	}

	failed := NewJob(doctree.Query{})
	failed.Fail(&rank.ErrorResult{Error: "boom"})
	snap := failed.Snapshot()
	if snap.Status != StatusFailed || len(snap.Errors) != 1 || snap.Errors[0] != "boom" {
		t.Errorf("unexpected failed snapshot %+v", snap)
	}
	if _, ok := failed.Result().(*rank.ErrorResult); !ok {
		t.Error("expected error result")
	}
	if failed.AnalysisResult() != nil {
		t.Error("expected no analysis result on failure")
	}
}

func TestJob_AddError(t *testing.T) {
	job := NewJob(doctree.Query{})
	job.AddError("a.pdf unreadable")
	job.AddError("b.pdf unreadable")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "a.pdf unreadable" {
		t.Errorf("expected first error %q, got %q", "a.pdf unreadable", snap.Errors[0])
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := NewJob(doctree.Query{})
	if err := expired.StageFile("old.pdf", []byte("x")); err != nil {
		t.Fatal(err)
	}
	stale := expired.DocumentPaths()[0]
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	fresh := NewJob(doctree.Query{})
	store.Put(fresh)

	if n := store.Cleanup(); n != 1 {
		t.Errorf("expected 1 expired job, got %d", n)
	}

	if store.Get(expired.ID) != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get(fresh.ID) == nil {
		t.Error("expected fresh job to survive cleanup")
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("expected staged files of expired job removed, stat err=%v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}
