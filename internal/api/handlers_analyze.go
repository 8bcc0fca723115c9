package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/doctree"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/parser"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/pipeline"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/report"
	"github.com/kalidindinikhila/adobe-round2-challenge1b/internal/request"
)

// handleAnalyze accepts a spec (file or form field "spec"), or plain
// "persona" and "job" fields, plus the PDFs under "files", and queues an
// analysis job.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	spec, err := s.readSpec(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	q := doctree.Query{Persona: r.FormValue("persona"), Job: r.FormValue("job")}
	if spec != nil {
		q = spec.Query()
	}
	if q.Persona == "" && q.Job == "" {
		jsonError(w, "persona and job are required", http.StatusBadRequest)
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(q)
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsPDF(filename) {
			job.AddError(fmt.Sprintf("%s: unsupported file type %s", filename, filepath.Ext(filename)))
			continue
		}
		data, err := readUpload(fh, s.cfg.MaxUploadBytes)
		if err != nil {
			job.AddError(fmt.Sprintf("%s: %s", filename, err))
			continue
		}
		if err := job.StageFile(filename, data); err != nil {
			job.Release()
			jsonError(w, "failed to stage files", http.StatusInternalServerError)
			return
		}
	}

	if snap := job.Snapshot(); len(snap.Documents) == 0 {
		job.Release()
		jsonError(w, "no pdf files accepted: "+strings.Join(snap.Errors, "; "), http.StatusBadRequest)
		return
	}

	if spec != nil && len(spec.Documents) > 0 {
		names := make([]string, 0, len(spec.Documents))
		for _, d := range spec.Documents {
			names = append(names, sanitizeFilename(d))
		}
		job.SetRequested(names)
	}

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	report.EncodeJSON(w, map[string]any{
		"job_id":     snap.ID,
		"status":     snap.Status,
		"documents":  snap.Documents,
		"errors":     snap.Errors,
		"poll_url":   fmt.Sprintf("/api/jobs/%s", snap.ID),
		"result_url": fmt.Sprintf("/api/jobs/%s/result", snap.ID),
	})
}

func (s *Server) readSpec(r *http.Request) (*request.Spec, error) {
	if file, _, err := r.FormFile("spec"); err == nil {
		defer file.Close()
		data, err := io.ReadAll(io.LimitReader(file, 1<<20))
		if err != nil {
			return nil, fmt.Errorf("read spec: %w", err)
		}
		return request.Parse(data)
	}
	if v := r.FormValue("spec"); v != "" {
		return request.Parse([]byte(v))
	}
	return nil, nil
}

func readUpload(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file")
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read error")
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds max size (%d bytes)", limit)
	}
	return data, nil
}

func (s *Server) jobFromRequest(w http.ResponseWriter, r *http.Request) *pipeline.Job {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
	}
	return job
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	report.EncodeJSON(w, job.Snapshot())
}

// handleJobResult serves the output artifact. Failed runs return the
// error-shaped artifact with 200, since the run itself finished.
func (s *Server) handleJobResult(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	res := job.Result()
	if res == nil {
		snap := job.Snapshot()
		if snap.Status == pipeline.StatusFailed {
			jsonError(w, "job failed: "+snap.Phase, http.StatusConflict)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		report.EncodeJSON(w, map[string]any{"job_id": snap.ID, "status": snap.Status})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	report.EncodeJSON(w, res)
}

func (s *Server) handleJobReport(w http.ResponseWriter, r *http.Request) {
	job := s.jobFromRequest(w, r)
	if job == nil {
		return
	}
	res := job.AnalysisResult()
	if res == nil {
		jsonError(w, fmt.Sprintf("report unavailable, job is %s", job.Snapshot().Status), http.StatusConflict)
		return
	}
	page, err := report.HTML("Analysis "+job.ID, report.AnalysisMarkdown(res))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeHTML(w, page)
}
