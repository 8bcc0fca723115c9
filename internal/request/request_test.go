package request

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse_ObjectShapes(t *testing.T) {
	data := []byte(`{
		"challenge_info": {"challenge_id": "round_1b_002"},
		"documents": [
			{"filename": "South of France - Cities.pdf", "title": "Cities"},
			{"filename": "South of France - Cuisine.pdf", "title": "Cuisine"}
		],
		"persona": {"role": "Travel Planner"},
		"job_to_be_done": {"task": "Plan a trip of 4 days for a group of 10 college friends."}
	}`)
	spec, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Documents) != 2 || spec.Documents[1] != "South of France - Cuisine.pdf" {
		t.Errorf("unexpected documents %v", spec.Documents)
	}
	q := spec.Query()
	if q.Persona != "Travel Planner" || q.Job != "Plan a trip of 4 days for a group of 10 college friends." {
		t.Errorf("unexpected query %+v", q)
	}
}

func TestParse_StringShapes(t *testing.T) {
	spec, err := Parse([]byte(`{"documents": ["a.pdf", "/abs/b.pdf"], "persona": "Researcher", "job_to_be_done": "Review methods"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Persona != "Researcher" || spec.Job != "Review methods" {
		t.Errorf("unexpected persona/job %q %q", spec.Persona, spec.Job)
	}
	got := spec.Resolve("/app/input")
	want := []string{"/app/input/a.pdf", "/abs/b.pdf"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Resolve[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParse_ObjectWithoutKeyFallsBackToJSON(t *testing.T) {
	spec, err := Parse([]byte(`{"documents": [], "persona": {"name": "Ana"}, "job_to_be_done": null}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Persona != `{"name":"Ana"}` {
		t.Errorf("unexpected persona %q", spec.Persona)
	}
	if spec.Job != "" {
		t.Errorf("expected empty job, got %q", spec.Job)
	}
	if len(spec.Resolve("/in")) != 0 {
		t.Error("expected no documents")
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"documents": [42]}`,
		`{"documents": [{"title": "no filename"}]}`,
	} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "challenge1b_input.json")); !errors.Is(err, ErrSpecNotFound) {
		t.Fatalf("expected ErrSpecNotFound, got %v", err)
	}

	path := filepath.Join(dir, "spec.json")
	if err := os.WriteFile(path, []byte(`{"documents": ["x.pdf"], "persona": "P", "job_to_be_done": "J"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := Load(path)
	if err != nil || len(spec.Documents) != 1 {
		t.Fatalf("unexpected result %+v %v", spec, err)
	}
}
