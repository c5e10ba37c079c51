package web

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/ingest"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

type statusResponse struct {
	Online      bool                   `json:"online"`
	BatchLoaded bool                   `json:"batch_loaded"`
	BatchID     string                 `json:"batch_id,omitempty"`
	Source      string                 `json:"source,omitempty"`
	LoadedAt    *time.Time             `json:"loaded_at,omitempty"`
	Counts      map[core.TableName]int `json:"counts,omitempty"`
	Loads       core.LoadLimiterStatus `json:"loads"`
	Reloadable  bool                   `json:"reloadable"`
}

type batchResponse struct {
	BatchID      string                 `json:"batch_id"`
	Source       string                 `json:"source"`
	LoadedAt     time.Time              `json:"loaded_at"`
	Counts       map[core.TableName]int `json:"counts"`
	WarningCount int                    `json:"warning_count"`
	Warnings     []string               `json:"warnings,omitempty"`
}

func counts(b *core.Batch) map[core.TableName]int {
	return map[core.TableName]int{
		core.TableHeaders:   b.Count(core.TableHeaders),
		core.TableItems:     b.Count(core.TableItems),
		core.TableReference: b.Count(core.TableReference),
	}
}

// handleStatus reports liveness and the active batch.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Online:     true,
		Loads:      s.service.LoadStatus(),
		Reloadable: s.reload != nil,
	}
	if b, ok := s.service.Current(); ok {
		loadedAt := b.LoadedAt()
		resp.BatchLoaded = true
		resp.BatchID = b.ID()
		resp.Source = b.Source()
		resp.LoadedAt = &loadedAt
		resp.Counts = counts(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// load runs an ingest through the service and writes the outcome.
func (s *Server) load(w http.ResponseWriter, r *http.Request, kind, source string, read func(context.Context) (ingest.Result, error)) {
	var result ingest.Result
	b, err := s.service.Load(r.Context(), kind, source, func(ctx context.Context) (core.Tables, int, error) {
		res, err := read(ctx)
		if err != nil {
			return core.Tables{}, 0, err
		}
		result = res
		return res.Tables, res.WarningCount(), nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if prefersHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	resp := batchResponse{
		BatchID:      b.ID(),
		Source:       b.Source(),
		LoadedAt:     b.LoadedAt(),
		Counts:       counts(b),
		WarningCount: result.WarningCount(),
	}
	for _, warn := range result.Warnings {
		if len(resp.Warnings) == maxWarningsInResponse {
			break
		}
		resp.Warnings = append(resp.Warnings, warn.String())
	}
	writeJSON(w, http.StatusCreated, resp)
}

// handleUploadBatch replaces the batch from a multipart upload: either a
// "zip" archive holding the three CSV files, or "headers", "items" and
// "reference" files.
func (s *Server) handleUploadBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Batch.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		s.respondError(w, r, fmt.Errorf("parse upload: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	names := s.fileNames()

	if f, hdr, err := r.FormFile("zip"); err == nil {
		defer f.Close()
		s.load(w, r, "zip", hdr.Filename, func(ctx context.Context) (ingest.Result, error) {
			return ingest.LoadZip(ctx, f, hdr.Size, names)
		})
		return
	}

	files := make(map[string]multipart.File, 3)
	var missing []string
	for _, field := range []string{"headers", "items", "reference"} {
		f, _, err := r.FormFile(field)
		if err != nil {
			missing = append(missing, field)
			continue
		}
		defer f.Close()
		files[field] = f
	}
	if len(missing) > 0 {
		s.respondError(w, r, fmt.Errorf("%w: %s", ingest.ErrMissingFile, strings.Join(missing, ", ")))
		return
	}

	s.load(w, r, "upload", "upload", func(ctx context.Context) (ingest.Result, error) {
		return ingest.Load(ctx, ingest.Sources{
			Headers:   files["headers"],
			Items:     files["items"],
			Reference: files["reference"],
		})
	})
}

// handleReloadBatch replaces the batch from the configured source.
func (s *Server) handleReloadBatch(w http.ResponseWriter, r *http.Request) {
	if s.reload == nil {
		s.respondError(w, r, ingest.ErrSourceNotConfigured)
		return
	}
	s.load(w, r, s.reload.Kind, s.reload.Name, s.reload.Load)
}

// handleDiscardBatch drops the active batch.
func (s *Server) handleDiscardBatch(w http.ResponseWriter, r *http.Request) {
	discarded := s.service.Discard(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"discarded": discarded})
}

// handleSummary returns counts and tallies for the active batch.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	b, ok := s.currentBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, b.Summarize())
}
