package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/cfop/internal/core"
	"github.com/JonMunkholm/cfop/internal/ingest"
)

// maxWarningsInResponse caps the load warnings echoed to clients.
const maxWarningsInResponse = 20

// notFoundResponse is the body of a lookup miss. Misses are answers, not
// errors, so they carry the same text the tools return.
type notFoundResponse struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// pathParam returns a trimmed chi URL parameter.
func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// currentBatch writes a BAT001 error and returns false when no batch is loaded.
func (s *Server) currentBatch(w http.ResponseWriter, r *http.Request) (*core.Batch, bool) {
	b, err := s.service.Batch()
	if err != nil {
		s.respondError(w, r, err)
		return nil, false
	}
	return b, true
}

func (s *Server) fileNames() ingest.FileNames {
	return ingest.FileNames{
		Headers:   s.cfg.Batch.HeadersFile,
		Items:     s.cfg.Batch.ItemsFile,
		Reference: s.cfg.Batch.ReferenceFile,
	}.WithDefaults()
}

// prefersHTML reports whether a browser form submitted the request.
func prefersHTML(r *http.Request) bool {
	return !isHTMX(r) && strings.Contains(r.Header.Get("Accept"), "text/html")
}
