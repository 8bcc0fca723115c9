// Package request decodes the analysis input specification.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
)

// ErrSpecNotFound is returned when the specification file is missing.
var ErrSpecNotFound = errors.New("input specification not found")

// Spec is the normalized analysis request.
type Spec struct {
	Documents []string
	Persona   string
	Job       string
}

type rawSpec struct {
	Documents []json.RawMessage `json:"documents"`
	Persona   json.RawMessage   `json:"persona"`
	Job       json.RawMessage   `json:"job_to_be_done"`
}

type documentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

// Load reads and parses the specification at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSpecNotFound, path)
		}
		return nil, fmt.Errorf("read spec: %w", err)
	}
	return Parse(data)
}

// Parse accepts documents as strings or {filename, title} objects, persona
// as a string or {role}, and job_to_be_done as a string or {task}.
func Parse(data []byte) (*Spec, error) {
	var raw rawSpec
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}

	spec := &Spec{
		Persona: field(raw.Persona, "role"),
		Job:     field(raw.Job, "task"),
	}
	for i, d := range raw.Documents {
		name, err := documentName(d)
		if err != nil {
			return nil, fmt.Errorf("documents[%d]: %w", i, err)
		}
		spec.Documents = append(spec.Documents, name)
	}
	return spec, nil
}

// Resolve joins relative document paths onto inputDir. Existence and file
// type are checked later, at analysis time.
func (s *Spec) Resolve(inputDir string) []string {
	out := make([]string, 0, len(s.Documents))
	for _, d := range s.Documents {
		if !filepath.IsAbs(d) {
			d = filepath.Join(inputDir, d)
		}
		out = append(out, d)
	}
	return out
}

func (s *Spec) Query() doctree.Query {
	return doctree.Query{Persona: s.Persona, Job: s.Job}
}

func documentName(raw json.RawMessage) (string, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return name, nil
	}
	var ref documentRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", fmt.Errorf("expected string or object: %w", err)
	}
	if ref.Filename == "" {
		return "", errors.New("missing filename")
	}
	return ref.Filename, nil
}

// field extracts a string, or key from an object. Anything else falls back
// to the compact JSON text.
func field(raw json.RawMessage, key string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if v, ok := obj[key]; ok {
			if err := json.Unmarshal(v, &s); err == nil {
				return s
			}
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
